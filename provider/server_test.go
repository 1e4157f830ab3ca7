package provider

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
)

// recordedRequest is one request received by a fake backend.
type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   map[string]any
}

// fakeBackend imitates the OpenAI, Anthropic and Ollama HTTP APIs closely
// enough for the SDK clients to round-trip a single completion.
type fakeBackend struct {
	*httptest.Server

	mu       sync.Mutex
	reply    string
	status   int
	requests []recordedRequest
}

func newFakeBackend(t *testing.T, reply string) *fakeBackend {
	t.Helper()
	b := &fakeBackend{reply: reply, status: http.StatusOK}
	b.Server = httptest.NewServer(http.HandlerFunc(b.handle))
	t.Cleanup(b.Close)
	return b
}

func (b *fakeBackend) failWith(status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status = status
}

func (b *fakeBackend) Requests() []recordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]recordedRequest, len(b.requests))
	copy(out, b.requests)
	return out
}

func (b *fakeBackend) handle(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}

	b.mu.Lock()
	b.requests = append(b.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	})
	status := b.status
	reply := b.reply
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != http.StatusOK {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream unavailable","type":"server_error"}}`))
		return
	}

	var resp any
	switch {
	case strings.HasSuffix(r.URL.Path, "/chat/completions"):
		resp = map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   body["model"],
			"choices": []any{
				map[string]any{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": reply},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		}
	case strings.HasSuffix(r.URL.Path, "/v1/messages"):
		resp = map[string]any{
			"id":            "msg_1",
			"type":          "message",
			"role":          "assistant",
			"model":         body["model"],
			"content":       []any{map[string]any{"type": "text", "text": reply}},
			"stop_reason":   "end_turn",
			"stop_sequence": nil,
			"usage":         map[string]any{"input_tokens": 10, "output_tokens": 5},
		}
	case strings.HasSuffix(r.URL.Path, "/api/chat"):
		resp = map[string]any{
			"model":      body["model"],
			"created_at": "2024-09-01T12:00:00Z",
			"message":    map[string]any{"role": "assistant", "content": reply},
			"done":       true,
		}
	case strings.HasSuffix(r.URL.Path, "/api/tags"):
		resp = map[string]any{
			"models": []any{
				map[string]any{"name": "llama3.1:latest", "model": "llama3.1:latest", "size": 4661224676},
			},
		}
	case strings.HasSuffix(r.URL.Path, "/models"):
		resp = map[string]any{
			"object": "list",
			"data": []any{
				map[string]any{"id": "gpt-4o-mini", "object": "model", "created": 1700000000, "owned_by": "openai"},
				map[string]any{"id": "meta-llama/llama-3.2-90b-instruct", "object": "model", "created": 1700000000, "owned_by": "meta"},
			},
		}
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"message":"not found"}}`))
		return
	}

	_ = json.NewEncoder(w).Encode(resp)
}
