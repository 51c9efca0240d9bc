package inference

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

const defaultAnthropicMaxTokens = 4096

type AnthropicModel struct {
	client       *anthropic.Client
	model        ModelVersion
	maxTokens    int64
	systemPrompt string
}

func NewAnthropicModel(client *anthropic.Client, model ModelVersion, maxTokens int64, systemPrompt string) *AnthropicModel {
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	return &AnthropicModel{
		client:       client,
		model:        model,
		maxTokens:    maxTokens,
		systemPrompt: systemPrompt,
	}
}

func (m *AnthropicModel) Name() string {
	return AnthropicModelName
}

func getAnthropicModel(model ModelVersion) anthropic.Model {
	switch model {
	case Claude4Opus:
		return anthropic.ModelClaudeOpus4_0
	case Claude4Sonnet:
		return anthropic.ModelClaudeSonnet4_0
	case Claude37Sonnet:
		return anthropic.ModelClaude3_7SonnetLatest
	case Claude35Haiku:
		return anthropic.ModelClaude3_5HaikuLatest
	default:
		return anthropic.ModelClaudeSonnet4_0
	}
}

func (m *AnthropicModel) Complete(ctx context.Context, transcript []Turn, prompt string) (string, error) {
	response, err := m.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     getAnthropicModel(m.model),
		MaxTokens: m.maxTokens,
		Messages:  toAnthropicMessages(transcript, prompt),
		System: []anthropic.TextBlockParam{
			{Text: m.systemPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic call failed: %w", err)
	}

	var fullText strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			fullText.WriteString(block.Text)
		}
	}

	if fullText.Len() == 0 {
		return "", ErrEmptyResponse
	}

	return fullText.String(), nil
}

// Anthropic calls the model side "assistant" and wants the first message to
// come from the user, so replies left over from a deleted first prompt are dropped.
func toAnthropicMessages(transcript []Turn, prompt string) []anthropic.MessageParam {
	msgs := make([]anthropic.MessageParam, 0, len(transcript)+1)

	for _, turn := range transcript {
		block := anthropic.NewTextBlock(turn.Content)

		if turn.Role == "user" {
			msgs = append(msgs, anthropic.NewUserMessage(block))
			continue
		}

		if len(msgs) == 0 {
			continue
		}
		msgs = append(msgs, anthropic.NewAssistantMessage(block))
	}

	return append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)))
}
