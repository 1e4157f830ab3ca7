package ui

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"thinkchain/ollama"
)

// IsCurrentModel checks if a model matches the current model name.
// OpenRouter strips the vendor prefix from Name, so InternalName is tried
// first:
//   - Name: "llama-3.1-8b:free"
//   - InternalName: "meta-llama/llama-3.1-8b:free"
func IsCurrentModel(model ollama.ModelInfo, currentModel string) bool {
	return model.InternalName == currentModel || model.Name == currentModel
}

// FilterModels returns the models whose internal names fuzzy-match query,
// best match first. An empty query returns models unchanged.
func FilterModels(models []ollama.ModelInfo, query string) []ollama.ModelInfo {
	if strings.TrimSpace(query) == "" {
		return models
	}

	targets := make([]string, len(models))
	for i, m := range models {
		targets[i] = m.InternalName
		if targets[i] == "" {
			targets[i] = m.Name
		}
	}

	matches := fuzzy.Find(query, targets)
	filtered := make([]ollama.ModelInfo, len(matches))
	for i, match := range matches {
		filtered[i] = models[match.Index]
	}
	return filtered
}

// RenderModelList formats models one per line for the models command,
// marking the configured one.
func RenderModelList(models []ollama.ModelInfo, currentModel string) string {
	var b strings.Builder
	for _, m := range models {
		name := m.InternalName
		if name == "" {
			name = m.Name
		}
		marker := "  "
		if IsCurrentModel(m, currentModel) {
			marker = "* "
		}
		line := marker + name
		if m.Size > 0 {
			line += fmt.Sprintf("  (%.1f GB)", float64(m.Size)/1e9)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
