package message

import (
	"errors"
	"iter"
	"time"
)

var ErrIndexOutOfRange = errors.New("message: index out of range")

// List is the ordered, chronological message history of one conversation.
// The zero value is ready to use.
type List struct {
	msgs   []Message
	nextID int
}

func (l *List) Append(role, content string) Message {
	msg := Message{
		ID:        l.nextID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
	l.nextID++
	l.msgs = append(l.msgs, msg)

	return msg
}

// DeleteAt removes the message at a positional index. Every later message
// shifts down by one, so callers must not reuse indices across deletes.
func (l *List) DeleteAt(index int) error {
	if index < 0 || index >= len(l.msgs) {
		return ErrIndexOutOfRange
	}

	l.msgs = append(l.msgs[:index], l.msgs[index+1:]...)
	return nil
}

// Delete removes the message carrying the given stable id.
// It reports false when no such message exists.
func (l *List) Delete(id int) bool {
	for i, msg := range l.msgs {
		if msg.ID == id {
			l.msgs = append(l.msgs[:i], l.msgs[i+1:]...)
			return true
		}
	}
	return false
}

func (l *List) Len() int {
	return len(l.msgs)
}

func (l *List) Last() (Message, bool) {
	if len(l.msgs) == 0 {
		return Message{}, false
	}
	return l.msgs[len(l.msgs)-1], true
}

// All yields index and message in chronological order.
func (l *List) All() iter.Seq2[int, Message] {
	return func(yield func(int, Message) bool) {
		for i, msg := range l.msgs {
			if !yield(i, msg) {
				return
			}
		}
	}
}

// Snapshot returns a copy of the messages that is safe to hand out.
func (l *List) Snapshot() []Message {
	out := make([]Message, len(l.msgs))
	copy(out, l.msgs)
	return out
}
