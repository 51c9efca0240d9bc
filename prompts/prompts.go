package prompts

import (
	_ "embed"
	"strings"
)

//go:embed system.md
var systemPrompt string

// SystemPrompt is the instruction every conversation starts from.
func SystemPrompt() string {
	trimmedPrompt := strings.TrimSpace(systemPrompt)
	if len(trimmedPrompt) == 0 {
		return systemPrompt
	}

	return trimmedPrompt
}
