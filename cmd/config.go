package cmd

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/honganh1206/professor/inference"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
)

type Config struct {
	Addr          string `env:"PROFESSOR_ADDR" envDefault:":8501"`
	ServerURL     string `env:"PROFESSOR_URL" envDefault:"http://localhost:8501"`
	Title         string `env:"PROFESSOR_TITLE" envDefault:"Professor AI"`
	SecureCookies bool   `env:"SECURE_COOKIES" envDefault:"false"`

	Provider        string        `env:"PROFESSOR_PROVIDER" envDefault:"google"`
	Model           string        `env:"PROFESSOR_MODEL"`
	MaxTokens       int64         `env:"PROFESSOR_MAX_TOKENS" envDefault:"1024"`
	GeminiAPIKey    string        `env:"GEMINI_API_KEY"`
	AnthropicAPIKey string        `env:"ANTHROPIC_API_KEY"`
	LLMBaseURL      string        `env:"LLM_BASE_URL"`
	LLMTimeout      time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`

	MaxSessions  int           `env:"MAX_SESSIONS" envDefault:"1000"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SessionSweep time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`

	// Empty keeps feedback in the log only.
	FeedbackDB string `env:"FEEDBACK_DB"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	if cfg.FeedbackDB != "" {
		path, err := homedir.Expand(cfg.FeedbackDB)
		if err != nil {
			return nil, fmt.Errorf("invalid FEEDBACK_DB: %w", err)
		}
		cfg.FeedbackDB = path
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects values the providers or the session manager cannot take.
func (c *Config) Validate() error {
	if c.MaxTokens <= 0 || c.MaxTokens > math.MaxInt32 {
		return fmt.Errorf("max tokens must be between 1 and %d, got %d", math.MaxInt32, c.MaxTokens)
	}
	if c.MaxSessions <= 0 {
		return fmt.Errorf("MAX_SESSIONS must be positive, got %d", c.MaxSessions)
	}
	if c.SessionSweep <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive, got %s", c.SessionSweep)
	}
	return nil
}

// APIKey returns the credential for the configured provider.
func (c *Config) APIKey() string {
	switch inference.ProviderName(c.Provider) {
	case inference.AnthropicProvider:
		return c.AnthropicAPIKey
	default:
		return c.GeminiAPIKey
	}
}

func (c *Config) ModelConfig() inference.ModelConfig {
	return inference.ModelConfig{
		Provider:  c.Provider,
		Model:     c.Model,
		MaxTokens: c.MaxTokens,
		APIKey:    c.APIKey(),
		BaseURL:   c.LLMBaseURL,
	}
}

// MarshalZerologObject logs the configuration without credentials.
func (c *Config) MarshalZerologObject(e *zerolog.Event) {
	e.Str("addr", c.Addr).
		Str("provider", c.Provider).
		Str("model", c.Model).
		Int64("max_tokens", c.MaxTokens).
		Bool("api_key_set", c.APIKey() != "").
		Dur("llm_timeout", c.LLMTimeout).
		Int("max_sessions", c.MaxSessions).
		Dur("session_ttl", c.SessionTTL).
		Dur("session_sweep", c.SessionSweep).
		Str("feedback_db", c.FeedbackDB).
		Bool("secure_cookies", c.SecureCookies)
}
