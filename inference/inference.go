package inference

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/honganh1206/professor/prompts"
	"google.golang.org/genai"
)

var (
	ErrMissingAPIKey = errors.New("inference: missing API key")
	ErrEmptyResponse = errors.New("inference: no content returned")
)

// Model answers a prompt given the transcript of earlier turns.
type Model interface {
	Complete(ctx context.Context, transcript []Turn, prompt string) (string, error)
	Name() string
}

type ModelConfig struct {
	Provider  string
	Model     string
	MaxTokens int64
	APIKey    string
	// BaseURL overrides the provider endpoint, mostly for tests.
	BaseURL string
}

func Init(ctx context.Context, config ModelConfig) (Model, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%w for provider %q", ErrMissingAPIKey, config.Provider)
	}

	provider := ProviderName(config.Provider)
	model := ModelVersion(config.Model)
	if model == "" {
		model = GetDefaultModel(provider)
	}

	switch provider {
	case GoogleProvider:
		clientConfig := &genai.ClientConfig{
			APIKey:  config.APIKey,
			Backend: genai.BackendGeminiAPI,
		}
		if config.BaseURL != "" {
			clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
		}

		client, err := genai.NewClient(ctx, clientConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		return NewGeminiModel(client, model, config.MaxTokens, prompts.SystemPrompt()), nil
	case AnthropicProvider:
		opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
		if config.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(config.BaseURL))
		}

		client := anthropic.NewClient(opts...)
		return NewAnthropicModel(&client, model, config.MaxTokens, prompts.SystemPrompt()), nil
	default:
		return nil, fmt.Errorf("unknown model provider: %s", config.Provider)
	}
}

func ListAvailableModels(provider ProviderName) []ModelVersion {
	switch provider {
	case AnthropicProvider:
		return []ModelVersion{
			Claude4Opus,
			Claude4Sonnet,
			Claude37Sonnet,
			Claude35Haiku,
		}
	case GoogleProvider:
		return []ModelVersion{
			Gemini25Pro,
			Gemini25Flash,
			Gemini20Flash,
			Gemini20FlashLite,
		}
	default:
		return []ModelVersion{}
	}
}

func GetDefaultModel(provider ProviderName) ModelVersion {
	switch provider {
	case AnthropicProvider:
		return Claude4Sonnet
	case GoogleProvider:
		return Gemini25Flash
	default:
		return ""
	}
}

// FormatModelsForHelp formats a list of models for help text
func FormatModelsForHelp(models []ModelVersion) string {
	if len(models) == 0 {
		return ""
	}

	modelStrings := make([]string, len(models))
	for i, model := range models {
		modelStrings[i] = string(model)
	}
	return strings.Join(modelStrings, ", ")
}
