package api

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/honganh1206/professor/agent"
	"github.com/honganh1206/professor/inference"
	"github.com/honganh1206/professor/server"
	"github.com/honganh1206/professor/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoModel struct {
	err error
}

func (m echoModel) Complete(ctx context.Context, transcript []inference.Turn, prompt string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "echo: " + prompt, nil
}

func (m echoModel) Name() string { return "Echo" }

func newTestClient(t *testing.T, model inference.Model) *Client {
	t.Helper()

	sessions, err := session.NewManager(10, time.Hour)
	require.NoError(t, err)

	handler, err := server.NewHandler(server.Options{
		Sessions: sessions,
		Agent:    agent.New(model, time.Second),
	})
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL)
	require.NoError(t, err)
	return client
}

func TestClient_Conversations(t *testing.T) {
	c := newTestClient(t, echoModel{})
	require.NoError(t, c.Health())

	conv, err := c.CreateConversation()
	require.NoError(t, err)
	assert.Equal(t, "New chat 1", conv.Name)

	turn, err := c.SubmitPrompt(conv.ID, "Why is the sky blue?")
	require.NoError(t, err)
	require.NotNil(t, turn.Reply)
	assert.Equal(t, "echo: Why is the sky blue?", turn.Reply.Content)

	got, err := c.GetConversation(conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Why is the sky ...", got.Name)
	require.Len(t, got.Messages, 2)

	require.NoError(t, c.DeleteMessage(conv.ID, got.Messages[1].ID))
	got, err = c.GetConversation(conv.ID)
	require.NoError(t, err)
	assert.Len(t, got.Messages, 1)

	list, err := c.ListConversations()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].MessageCount)

	require.NoError(t, c.DeleteConversation(conv.ID))
	_, err = c.GetConversation(conv.ID)
	assert.ErrorIs(t, err, session.ErrConversationNotFound)
}

func TestClient_SubmitPromptErrors(t *testing.T) {
	c := newTestClient(t, echoModel{err: errors.New("rate limited")})

	conv, err := c.CreateConversation()
	require.NoError(t, err)

	turn, err := c.SubmitPrompt(conv.ID, "Hi")
	assert.ErrorIs(t, err, agent.ErrUpstream)
	assert.Contains(t, err.Error(), "rate limited")
	require.NotNil(t, turn)
	assert.Equal(t, "Hi", turn.UserMessage.Content)

	_, err = c.SubmitPrompt(conv.ID, " ")
	assert.ErrorIs(t, err, agent.ErrInvalidInput)

	_, err = c.SubmitPrompt("missing", "Hi")
	assert.ErrorIs(t, err, session.ErrConversationNotFound)
}

func TestClient_Selection(t *testing.T) {
	c := newTestClient(t, echoModel{})

	a, err := c.CreateConversation()
	require.NoError(t, err)
	b, err := c.CreateConversation()
	require.NoError(t, err)

	on, err := c.ToggleDeleteMode()
	require.NoError(t, err)
	assert.True(t, on)

	opened, err := c.OpenConversation(a.ID)
	require.NoError(t, err)
	assert.False(t, opened)

	selected, err := c.SetSelected(a.ID, true)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, selected)

	deleted, err := c.CommitSelection()
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	snap, err := c.State()
	require.NoError(t, err)
	assert.False(t, snap.DeleteMode)
	require.Len(t, snap.Conversations, 1)
	assert.Equal(t, b.ID, snap.Conversations[0].ID)
}

func TestClient_ThemeAndFeedback(t *testing.T) {
	c := newTestClient(t, echoModel{})

	require.NoError(t, c.SetTheme(session.ThemeDark))
	snap, err := c.State()
	require.NoError(t, err)
	assert.Equal(t, session.ThemeDark, snap.Theme)

	err = c.SetTheme("sepia")
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.StatusCode)
	assert.Equal(t, "Unknown theme", httpErr.Message)

	require.NoError(t, c.SendFeedback("nice"))
	assert.Error(t, c.SendFeedback(""))
}

func TestClient_UseSession(t *testing.T) {
	c := newTestClient(t, echoModel{})

	conv, err := c.CreateConversation()
	require.NoError(t, err)

	id := c.SessionID()
	require.NotEmpty(t, id)

	other, err := NewClient(c.baseURL)
	require.NoError(t, err)
	require.NoError(t, other.UseSession(id))

	got, err := other.GetConversation(conv.ID)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, got.ID)

	stranger, err := NewClient(c.baseURL)
	require.NoError(t, err)
	_, err = stranger.GetConversation(conv.ID)
	assert.ErrorIs(t, err, session.ErrConversationNotFound)
}
