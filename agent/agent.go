package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/honganh1206/professor/inference"
	"github.com/honganh1206/professor/message"
	"github.com/honganh1206/professor/metrics"
	"github.com/honganh1206/professor/session"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidInput = errors.New("agent: prompt is empty")
	ErrUpstream     = errors.New("agent: model request failed")
)

// Agent runs chat turns against a model on behalf of a session.
type Agent struct {
	model   inference.Model
	timeout time.Duration
}

// Turn is the outcome of one prompt. Reply is nil when the model failed.
type Turn struct {
	ConversationID string           `json:"conversation_id"`
	UserMessage    message.Message  `json:"user_message"`
	Reply          *message.Message `json:"reply,omitempty"`
	Renamed        bool             `json:"renamed"`
}

// New returns an Agent. A zero timeout leaves model calls unbounded.
func New(model inference.Model, timeout time.Duration) *Agent {
	return &Agent{
		model:   model,
		timeout: timeout,
	}
}

// Run submits prompt to the conversation. The user message is recorded before
// the model is asked, and stays recorded when the model fails; in that case
// Run returns the partial Turn together with an error wrapping ErrUpstream.
func (a *Agent) Run(ctx context.Context, st *session.State, conversationID, prompt string) (*Turn, error) {
	logger := zerolog.Ctx(ctx).With().
		Str("conversation_id", conversationID).
		Str("provider", a.model.Name()).
		Logger()

	if strings.TrimSpace(prompt) == "" {
		metrics.TurnsTotal.WithLabelValues(a.model.Name(), "invalid").Inc()
		return nil, ErrInvalidInput
	}

	conv, ok := st.Get(conversationID)
	if !ok {
		return nil, session.ErrConversationNotFound
	}

	turn := &Turn{ConversationID: conversationID}
	turn.Renamed = conv.RenameOnFirstMessage(prompt)

	// The transcript is everything before this prompt.
	transcript := BuildTranscript(conv.Messages.Snapshot())
	turn.UserMessage = conv.Messages.Append(message.UserRole, prompt)

	callCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := a.model.Complete(callCtx, transcript, prompt)
	elapsed := time.Since(start)
	metrics.CompletionDuration.WithLabelValues(a.model.Name()).Observe(elapsed.Seconds())

	if err == nil && text == "" {
		err = inference.ErrEmptyResponse
	}
	if err != nil {
		metrics.TurnsTotal.WithLabelValues(a.model.Name(), "upstream_error").Inc()
		logger.Warn().Err(err).Dur("elapsed", elapsed).Msg("model request failed")
		return turn, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	reply := conv.Messages.Append(message.AssistantRole, text)
	turn.Reply = &reply

	metrics.TurnsTotal.WithLabelValues(a.model.Name(), "ok").Inc()
	logger.Debug().
		Int("transcript_len", len(transcript)).
		Dur("elapsed", elapsed).
		Msg("turn completed")

	return turn, nil
}

// BuildTranscript relabels stored messages for the model, keeping their order.
func BuildTranscript(msgs []message.Message) []inference.Turn {
	transcript := make([]inference.Turn, 0, len(msgs))
	for _, msg := range msgs {
		transcript = append(transcript, inference.Turn{
			Role:    message.ToModelRole(msg.Role),
			Content: msg.Content,
		})
	}
	return transcript
}
