package testutil

import (
	"encoding/json"
	"time"

	"thinkchain/model"
)

// StepJSON returns one protocol step as a JSON object
func StepJSON(title, content, nextAction string) string {
	b, _ := json.Marshal(map[string]string{
		"title":       title,
		"content":     content,
		"next_action": nextAction,
	})
	return string(b)
}

// ContinueStepJSON returns a step that asks to keep reasoning
func ContinueStepJSON(title, content string) string {
	return StepJSON(title, content, "continue")
}

// FinalStepJSON returns a step that carries the final answer
func FinalStepJSON(title, content string) string {
	return StepJSON(title, content, "final_answer")
}

// BatchJSON joins step objects into a JSON array
func BatchJSON(steps ...string) string {
	out := "["
	for i, s := range steps {
		if i > 0 {
			out += ","
		}
		out += s
	}
	return out + "]"
}

// FencedJSON wraps text in a markdown json code fence, the way chat models
// often answer
func FencedJSON(text string) string {
	return "Here are my steps:\n```json\n" + text + "\n```\n"
}

// TestMessages returns a sample conversation for testing
func TestMessages() []model.Message {
	return []model.Message{
		{
			Role:      "system",
			Content:   "Think step by step.",
			Timestamp: time.Now(),
		},
		{
			Role:      "user",
			Content:   "How many r's are in strawberry?",
			Timestamp: time.Now(),
		},
		{
			Role:      "assistant",
			Content:   "Thank you! I will now think step by step.",
			Timestamp: time.Now(),
		},
	}
}

// SingleUserMessage returns a single user message for simple tests
func SingleUserMessage(content string) []model.Message {
	return []model.Message{
		{
			Role:      "user",
			Content:   content,
			Timestamp: time.Now(),
		},
	}
}

// EmptyMessages returns an empty message slice for edge case testing
func EmptyMessages() []model.Message {
	return []model.Message{}
}

// SystemMessage returns a system message for testing
func SystemMessage(content string) model.Message {
	return model.Message{
		Role:      "system",
		Content:   content,
		Timestamp: time.Now(),
	}
}
