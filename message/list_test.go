package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_Append(t *testing.T) {
	var l List

	first := l.Append(UserRole, "Hello, world!")
	second := l.Append(AssistantRole, "Hello back!")

	if l.Len() != 2 {
		t.Fatalf("Expected 2 messages, got %d", l.Len())
	}
	if first.ID != 0 || second.ID != 1 {
		t.Errorf("Expected ids 0 and 1, got %d and %d", first.ID, second.ID)
	}
	if first.CreatedAt.IsZero() {
		t.Error("CreatedAt was not set")
	}
	if second.CreatedAt.Before(first.CreatedAt) {
		t.Error("Second message CreatedAt should not be before first message")
	}

	last, ok := l.Last()
	require.True(t, ok)
	assert.Equal(t, "Hello back!", last.Content)
}

func TestList_AppendThenDeleteLastRestores(t *testing.T) {
	var l List
	l.Append(UserRole, "one")
	l.Append(AssistantRole, "two")
	before := l.Snapshot()

	l.Append(UserRole, "three")
	require.NoError(t, l.DeleteAt(l.Len()-1))

	assert.Equal(t, before, l.Snapshot())
}

func TestList_DeleteAtShiftsLaterMessages(t *testing.T) {
	var l List
	l.Append(UserRole, "a")
	l.Append(AssistantRole, "b")
	l.Append(UserRole, "c")

	require.NoError(t, l.DeleteAt(0))

	msgs := l.Snapshot()
	require.Len(t, msgs, 2)
	assert.Equal(t, "b", msgs[0].Content)
	assert.Equal(t, "c", msgs[1].Content)
}

func TestList_DeleteAtOutOfRange(t *testing.T) {
	var empty List
	assert.ErrorIs(t, empty.DeleteAt(0), ErrIndexOutOfRange)
	assert.Equal(t, 0, empty.Len())

	var l List
	l.Append(UserRole, "only")
	before := l.Snapshot()

	for _, idx := range []int{-1, 1, 5} {
		assert.ErrorIs(t, l.DeleteAt(idx), ErrIndexOutOfRange, "index %d", idx)
	}
	assert.Equal(t, before, l.Snapshot())
}

func TestList_DeleteByStableID(t *testing.T) {
	var l List
	a := l.Append(UserRole, "a")
	b := l.Append(AssistantRole, "b")
	c := l.Append(UserRole, "c")

	assert.True(t, l.Delete(a.ID))
	// ids survive the shift caused by the first delete
	assert.True(t, l.Delete(c.ID))
	assert.False(t, l.Delete(c.ID))

	msgs := l.Snapshot()
	require.Len(t, msgs, 1)
	assert.Equal(t, b.ID, msgs[0].ID)

	// ids are never reused after deletes
	d := l.Append(UserRole, "d")
	assert.Equal(t, 3, d.ID)
}

func TestList_AllIsRestartable(t *testing.T) {
	var l List
	l.Append(UserRole, "x")
	l.Append(AssistantRole, "y")

	for range 2 {
		var got []string
		for i, msg := range l.All() {
			assert.Equal(t, len(got), i)
			got = append(got, msg.Content)
		}
		assert.Equal(t, []string{"x", "y"}, got)
	}
}

func TestToModelRole(t *testing.T) {
	assert.Equal(t, ModelRole, ToModelRole(AssistantRole))
	assert.Equal(t, UserRole, ToModelRole(UserRole))
}
