package conversation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/honganh1206/professor/message"
)

const (
	// TitleLength is how many characters of the first prompt become the title.
	TitleLength   = 15
	titleEllipsis = "..."
)

type Conversation struct {
	ID        string
	Name      string
	Messages  *message.List
	CreatedAt time.Time
	// Titled is set once the first prompt has named the conversation.
	Titled bool
}

type ConversationMetadata struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
}

func DefaultName(n int) string {
	return fmt.Sprintf("New chat %d", n)
}

func New(name string) (*Conversation, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}

	return &Conversation{
		ID:        id.String(),
		Name:      name,
		Messages:  &message.List{},
		CreatedAt: time.Now(),
	}, nil
}

// RenameOnFirstMessage names the conversation after its first prompt.
// It reports whether the name changed.
func (c *Conversation) RenameOnFirstMessage(text string) bool {
	if c.Titled || c.Messages.Len() > 0 {
		return false
	}

	c.Name = Title(text)
	c.Titled = true
	return true
}

func (c *Conversation) Metadata() ConversationMetadata {
	return ConversationMetadata{
		ID:           c.ID,
		Name:         c.Name,
		MessageCount: c.Messages.Len(),
		CreatedAt:    c.CreatedAt,
	}
}

// Title keeps the first TitleLength characters of text, marking a cut with an ellipsis.
func Title(text string) string {
	runes := []rune(text)
	if len(runes) <= TitleLength {
		return text
	}
	return string(runes[:TitleLength]) + titleEllipsis
}
