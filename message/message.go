package message

import (
	"time"
)

type Message struct {
	// Stable within its conversation and never reused, so it can double as a delete key.
	ID        int       `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	UserRole      = "user"
	AssistantRole = "assistant"
	// Gemini uses model instead of assistant
	ModelRole = "model"
)

// ToModelRole relabels a stored role for the LLM boundary.
func ToModelRole(role string) string {
	if role == AssistantRole {
		return ModelRole
	}
	return role
}
