package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/honganh1206/professor/inference"
	"github.com/honganh1206/professor/message"
	"github.com/honganh1206/professor/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockModel struct {
	mock.Mock
}

func (m *MockModel) Complete(ctx context.Context, transcript []inference.Turn, prompt string) (string, error) {
	args := m.Called(ctx, transcript, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockModel) Name() string {
	return "Mock"
}

func newConversation(t *testing.T) (*session.State, string) {
	t.Helper()

	st := session.NewState()
	conv, err := st.Create()
	require.NoError(t, err)
	return st, conv.ID
}

func contents(t *testing.T, st *session.State, id string) []message.Message {
	t.Helper()

	conv, ok := st.Get(id)
	require.True(t, ok)
	return conv.Messages.Snapshot()
}

func TestAgent_Run_FirstTurn(t *testing.T) {
	st, id := newConversation(t)
	model := new(MockModel)
	model.On("Complete", mock.Anything, []inference.Turn{}, "What is the sun?").
		Return("The sun is a big warm ball of light.", nil)

	turn, err := New(model, time.Minute).Run(context.Background(), st, id, "What is the sun?")
	require.NoError(t, err)

	assert.True(t, turn.Renamed)
	require.NotNil(t, turn.Reply)
	assert.Equal(t, "The sun is a big warm ball of light.", turn.Reply.Content)

	conv, _ := st.Get(id)
	assert.Equal(t, "What is the sun...", conv.Name)

	msgs := contents(t, st, id)
	require.Len(t, msgs, 2)
	assert.Equal(t, message.UserRole, msgs[0].Role)
	assert.Equal(t, message.AssistantRole, msgs[1].Role)
	model.AssertExpectations(t)
}

func TestAgent_Run_TranscriptExcludesNewPrompt(t *testing.T) {
	st, id := newConversation(t)
	model := new(MockModel)
	model.On("Complete", mock.Anything, []inference.Turn{}, "first").Return("reply one", nil).Once()
	model.On("Complete", mock.Anything, []inference.Turn{
		{Role: "user", Content: "first"},
		{Role: "model", Content: "reply one"},
	}, "second").Return("reply two", nil).Once()

	a := New(model, 0)
	_, err := a.Run(context.Background(), st, id, "first")
	require.NoError(t, err)
	turn, err := a.Run(context.Background(), st, id, "second")
	require.NoError(t, err)

	assert.False(t, turn.Renamed)
	conv, _ := st.Get(id)
	assert.Equal(t, "first", conv.Name)
	assert.Len(t, contents(t, st, id), 4)
	model.AssertExpectations(t)
}

func TestAgent_Run_UpstreamFailureKeepsUserMessage(t *testing.T) {
	st, id := newConversation(t)
	model := new(MockModel)
	model.On("Complete", mock.Anything, mock.Anything, "Hi").Return("", errors.New("quota exceeded"))

	a := New(model, time.Minute)
	turn, err := a.Run(context.Background(), st, id, "Hi")

	assert.ErrorIs(t, err, ErrUpstream)
	assert.ErrorContains(t, err, "quota exceeded")
	require.NotNil(t, turn)
	assert.Nil(t, turn.Reply)
	assert.Equal(t, "Hi", turn.UserMessage.Content)

	msgs := contents(t, st, id)
	require.Len(t, msgs, 1)
	assert.Equal(t, message.UserRole, msgs[0].Role)
	assert.Equal(t, "Hi", msgs[0].Content)

	// resubmitting is allowed and duplicates the prompt
	_, err = a.Run(context.Background(), st, id, "Hi")
	assert.ErrorIs(t, err, ErrUpstream)

	msgs = contents(t, st, id)
	require.Len(t, msgs, 2)
	for _, msg := range msgs {
		assert.Equal(t, message.UserRole, msg.Role)
		assert.Equal(t, "Hi", msg.Content)
	}
}

func TestAgent_Run_EmptyReplyIsFailure(t *testing.T) {
	st, id := newConversation(t)
	model := new(MockModel)
	model.On("Complete", mock.Anything, mock.Anything, "Hi").Return("", nil)

	_, err := New(model, 0).Run(context.Background(), st, id, "Hi")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.ErrorIs(t, err, inference.ErrEmptyResponse)
	assert.Len(t, contents(t, st, id), 1)
}

func TestAgent_Run_TimeoutIsFailure(t *testing.T) {
	st, id := newConversation(t)
	model := new(MockModel)
	model.On("Complete", mock.Anything, mock.Anything, "slow").
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			<-ctx.Done()
		}).
		Return("", context.DeadlineExceeded)

	_, err := New(model, 10*time.Millisecond).Run(context.Background(), st, id, "slow")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, contents(t, st, id), 1)
}

func TestAgent_Run_InvalidInput(t *testing.T) {
	st, id := newConversation(t)
	model := new(MockModel)

	for _, prompt := range []string{"", "   ", "\n\t"} {
		_, err := New(model, 0).Run(context.Background(), st, id, prompt)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}

	conv, _ := st.Get(id)
	assert.Equal(t, "New chat 1", conv.Name)
	assert.Empty(t, contents(t, st, id))
	model.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
}

func TestAgent_Run_UnknownConversation(t *testing.T) {
	st := session.NewState()
	model := new(MockModel)

	_, err := New(model, 0).Run(context.Background(), st, "missing", "hello")
	assert.ErrorIs(t, err, session.ErrConversationNotFound)
}

func TestAgent_Run_PromptStoredUnmodified(t *testing.T) {
	st, id := newConversation(t)
	model := new(MockModel)
	model.On("Complete", mock.Anything, mock.Anything, "  spaced  ").Return("ok", nil)

	_, err := New(model, 0).Run(context.Background(), st, id, "  spaced  ")
	require.NoError(t, err)
	assert.Equal(t, "  spaced  ", contents(t, st, id)[0].Content)
}

func TestBuildTranscript(t *testing.T) {
	var l message.List
	l.Append(message.UserRole, "q1")
	l.Append(message.AssistantRole, "a1")
	l.Append(message.UserRole, "q2")

	assert.Equal(t, []inference.Turn{
		{Role: "user", Content: "q1"},
		{Role: "model", Content: "a1"},
		{Role: "user", Content: "q2"},
	}, BuildTranscript(l.Snapshot()))
}
