package cmd

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/honganh1206/professor/agent"
	"github.com/honganh1206/professor/api"
	"github.com/honganh1206/professor/inference"
	"github.com/honganh1206/professor/server"
	"github.com/honganh1206/professor/session"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gemini-secret")
	t.Setenv("LOG_LEVEL", " DEBUG ")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8501", cfg.Addr)
	assert.Equal(t, "google", cfg.Provider)
	assert.Equal(t, 60*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "gemini-secret", cfg.APIKey())
	assert.Empty(t, cfg.FeedbackDB)
}

func TestLoadConfig_Anthropic(t *testing.T) {
	t.Setenv("PROFESSOR_PROVIDER", "Anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "anthropic-secret")
	t.Setenv("GEMINI_API_KEY", "gemini-secret")
	t.Setenv("LLM_TIMEOUT", "5s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, 5*time.Second, cfg.LLMTimeout)

	mc := cfg.ModelConfig()
	assert.Equal(t, "anthropic-secret", mc.APIKey)
	assert.Equal(t, "anthropic", mc.Provider)
}

func TestLoadConfig_RejectsOutOfRangeMaxTokens(t *testing.T) {
	for _, v := range []string{"0", "-5", "3000000000"} {
		t.Setenv("PROFESSOR_MAX_TOKENS", v)

		_, err := LoadConfig()
		assert.Error(t, err, v)
	}
}

func TestLoadConfig_ExpandsFeedbackPath(t *testing.T) {
	t.Setenv("FEEDBACK_DB", "~/professor/feedback.db")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.False(t, strings.HasPrefix(cfg.FeedbackDB, "~"))
	assert.True(t, strings.HasSuffix(cfg.FeedbackDB, "professor/feedback.db"))
}

func TestConfig_LogsWithoutSecrets(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gemini-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	logger.Info().Object("config", cfg).Msg("starting")

	assert.NotContains(t, buf.String(), "gemini-secret")
	assert.Contains(t, buf.String(), `"api_key_set":true`)
}

type scriptedModel struct{}

func (scriptedModel) Complete(ctx context.Context, transcript []inference.Turn, prompt string) (string, error) {
	return "Imagine a big warm ball of light.", nil
}

func (scriptedModel) Name() string { return "Scripted" }

func newChatClient(t *testing.T) *api.Client {
	t.Helper()

	sessions, err := session.NewManager(10, time.Hour)
	require.NoError(t, err)

	handler, err := server.NewHandler(server.Options{
		Sessions: sessions,
		Agent:    agent.New(scriptedModel{}, time.Second),
	})
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := api.NewClient(srv.URL)
	require.NoError(t, err)
	return client
}

func TestChat(t *testing.T) {
	client := newChatClient(t)

	in := strings.NewReader("What is the sun?\n/new\n/list\n/frobnicate\n/quit\nnever sent\n")
	var out bytes.Buffer

	require.NoError(t, chat(client, in, &out))

	assert.Contains(t, out.String(), "Imagine a big warm ball of light.")
	assert.Contains(t, out.String(), "Started New chat 2")
	assert.Contains(t, out.String(), "What is the sun...")
	assert.Contains(t, out.String(), "unknown command /frobnicate")

	snap, err := client.State()
	require.NoError(t, err)
	require.Len(t, snap.Conversations, 2)
	assert.Equal(t, 2, snap.Conversations[0].MessageCount)
	assert.Equal(t, 0, snap.Conversations[1].MessageCount)
}

func TestChat_OpenInDeleteMode(t *testing.T) {
	client := newChatClient(t)

	first, err := client.CreateConversation()
	require.NoError(t, err)
	second, err := client.CreateConversation()
	require.NoError(t, err)

	on, err := client.ToggleDeleteMode()
	require.NoError(t, err)
	require.True(t, on)

	in := strings.NewReader("/open 1\nhello\n/quit\n")
	var out bytes.Buffer

	require.NoError(t, chat(client, in, &out))
	assert.Contains(t, out.String(), "Leave delete mode first")

	snap, err := client.State()
	require.NoError(t, err)
	assert.Equal(t, second.ID, snap.ActiveID)

	got, err := client.GetConversation(first.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Messages)

	got, err = client.GetConversation(second.ID)
	require.NoError(t, err)
	assert.Len(t, got.Messages, 2)
}

func TestNewCLI_ModelFlagListsModels(t *testing.T) {
	flag := NewCLI().PersistentFlags().Lookup("model")
	require.NotNil(t, flag)

	assert.Contains(t, flag.Usage, string(inference.Gemini25Flash))
	assert.Contains(t, flag.Usage, string(inference.Claude4Sonnet))
}
