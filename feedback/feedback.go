package feedback

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var ErrEmptyFeedback = errors.New("feedback: text is empty")

type Entry struct {
	ID        int64     `json:"id,omitempty"`
	SessionID string    `json:"session_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEntry validates text and stamps the entry with the current time.
func NewEntry(sessionID, text string) (Entry, error) {
	if strings.TrimSpace(text) == "" {
		return Entry{}, ErrEmptyFeedback
	}

	return Entry{
		SessionID: sessionID,
		Text:      text,
		CreatedAt: time.Now(),
	}, nil
}

type Store interface {
	Save(ctx context.Context, entry Entry) error
}

// LogStore only writes feedback to the request logger.
type LogStore struct{}

func (LogStore) Save(ctx context.Context, entry Entry) error {
	zerolog.Ctx(ctx).Info().
		Str("session_id", entry.SessionID).
		Int("length", len(entry.Text)).
		Msg("feedback received")
	return nil
}
