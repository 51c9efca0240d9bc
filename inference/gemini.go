package inference

import (
	"context"
	"fmt"
	"math"
	"strings"

	"google.golang.org/genai"
)

type GeminiModel struct {
	client       *genai.Client
	model        ModelVersion
	maxTokens    int64
	systemPrompt string
}

func NewGeminiModel(client *genai.Client, model ModelVersion, maxTokens int64, systemPrompt string) *GeminiModel {
	return &GeminiModel{
		client:       client,
		model:        model,
		maxTokens:    maxTokens,
		systemPrompt: systemPrompt,
	}
}

func (m *GeminiModel) Name() string {
	return GoogleModelName
}

func (m *GeminiModel) Complete(ctx context.Context, transcript []Turn, prompt string) (string, error) {
	contents := toGeminiContents(transcript, prompt)

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(m.systemPrompt, genai.RoleUser),
	}
	if m.maxTokens > 0 {
		config.MaxOutputTokens = int32(min(m.maxTokens, math.MaxInt32))
	}

	response, err := m.client.Models.GenerateContent(ctx, string(m.model), contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini snapshot call failed: %w", err)
	}

	return textFromGeminiResponse(response)
}

// The prompt goes last as a fresh user turn.
func toGeminiContents(transcript []Turn, prompt string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(transcript)+1)

	for _, turn := range transcript {
		contents = append(contents, genai.NewContentFromText(turn.Content, genai.Role(turn.Role)))
	}

	return append(contents, genai.NewContentFromText(prompt, genai.RoleUser))
}

func textFromGeminiResponse(response *genai.GenerateContentResponse) (string, error) {
	if response == nil || len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var fullText strings.Builder
	for _, p := range response.Candidates[0].Content.Parts {
		if p != nil && p.Text != "" {
			fullText.WriteString(p.Text)
		}
	}

	if fullText.Len() == 0 {
		return "", ErrEmptyResponse
	}

	return fullText.String(), nil
}
