package reasoning

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Record is one structured object produced by the model, before validation.
type Record map[string]any

// Decode validates records against the step protocol. Every record must carry
// string title, content and next_action fields, and next_action must be
// "continue" or "final_answer". The first offending record yields a
// *ProtocolViolation.
func Decode(records []Record) (Batch, error) {
	if len(records) == 0 {
		return nil, &ProtocolViolation{Index: -1, Reason: "batch contains no steps"}
	}

	batch := make(Batch, 0, len(records))
	for i, rec := range records {
		title, err := stringField(rec, i, "title")
		if err != nil {
			return nil, err
		}
		content, err := stringField(rec, i, "content")
		if err != nil {
			return nil, err
		}
		action, err := stringField(rec, i, "next_action")
		if err != nil {
			return nil, err
		}

		next := NextAction(action)
		if !next.Valid() {
			return nil, &ProtocolViolation{
				Index:  i,
				Field:  "next_action",
				Reason: fmt.Sprintf("has unrecognized value %q", action),
			}
		}

		batch = append(batch, Step{Title: title, Content: content, NextAction: next})
	}

	return batch, nil
}

func stringField(rec Record, index int, name string) (string, error) {
	raw, ok := rec[name]
	if !ok {
		return "", &ProtocolViolation{Index: index, Field: name, Reason: "is missing"}
	}
	s, ok := raw.(string)
	if !ok {
		return "", &ProtocolViolation{Index: index, Field: name, Reason: fmt.Sprintf("must be a string, got %T", raw)}
	}
	return s, nil
}

// Encode serializes a step to the compact JSON form appended to the
// conversation as an assistant turn. Field values are preserved exactly.
func Encode(step Step) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// A struct of strings cannot fail to encode.
	_ = enc.Encode(step)
	return strings.TrimSuffix(buf.String(), "\n")
}

// DecodeText parses model text into records and validates them.
func DecodeText(text string) (Batch, error) {
	records, err := ParseRecords(text)
	if err != nil {
		return nil, err
	}
	return Decode(records)
}
