package session

import (
	"errors"
	"fmt"
	"iter"

	"github.com/honganh1206/professor/conversation"
)

var (
	ErrConversationNotFound = errors.New("session: conversation not found")
	ErrUnknownTheme         = errors.New("session: unknown theme")
)

// uuid collisions are practically impossible, but the store never trusts that.
const maxCreateAttempts = 5

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTheme, s)
	}
}

// State is everything one browser session knows: its conversations, which one
// is on screen, and the sidebar's delete-mode selection.
// It is not safe for concurrent use; Session serialises access to it.
type State struct {
	conversations map[string]*conversation.Conversation
	order         []string

	activeID   string
	deleteMode bool
	selected   map[string]struct{}
	theme      Theme

	newConversation func(name string) (*conversation.Conversation, error)
}

func NewState() *State {
	return &State{
		conversations:   make(map[string]*conversation.Conversation),
		selected:        make(map[string]struct{}),
		theme:           ThemeLight,
		newConversation: conversation.New,
	}
}

// Create adds an empty conversation, makes it active and leaves delete mode.
func (s *State) Create() (*conversation.Conversation, error) {
	name := conversation.DefaultName(len(s.conversations) + 1)

	for range maxCreateAttempts {
		conv, err := s.newConversation(name)
		if err != nil {
			return nil, fmt.Errorf("failed to create conversation: %w", err)
		}

		if _, exists := s.conversations[conv.ID]; exists {
			continue
		}

		s.conversations[conv.ID] = conv
		s.order = append(s.order, conv.ID)
		s.activeID = conv.ID
		s.exitDeleteMode()

		return conv, nil
	}

	return nil, fmt.Errorf("failed to create conversation: no unique id after %d attempts", maxCreateAttempts)
}

func (s *State) Get(id string) (*conversation.Conversation, bool) {
	conv, ok := s.conversations[id]
	return conv, ok
}

func (s *State) RenameOnFirstMessage(id, text string) error {
	conv, ok := s.conversations[id]
	if !ok {
		return ErrConversationNotFound
	}

	conv.RenameOnFirstMessage(text)
	return nil
}

// Delete removes one conversation. Unknown ids are ignored so stale
// references from an old render are harmless.
func (s *State) Delete(id string) bool {
	if _, ok := s.conversations[id]; !ok {
		return false
	}

	delete(s.conversations, id)
	delete(s.selected, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	if s.activeID == id {
		s.activeID = ""
	}

	return true
}

// BulkDelete removes every present id and always returns to the normal
// sidebar with nothing active, however many were removed.
func (s *State) BulkDelete(ids []string) int {
	removed := 0
	for _, id := range ids {
		if s.Delete(id) {
			removed++
		}
	}

	s.activeID = ""
	s.exitDeleteMode()

	return removed
}

// List yields conversations in creation order.
func (s *State) List() iter.Seq2[string, *conversation.Conversation] {
	return func(yield func(string, *conversation.Conversation) bool) {
		for _, id := range s.order {
			conv, ok := s.conversations[id]
			if !ok {
				continue
			}
			if !yield(id, conv) {
				return
			}
		}
	}
}

func (s *State) Len() int {
	return len(s.conversations)
}

func (s *State) ActiveID() string {
	return s.activeID
}

func (s *State) Active() (*conversation.Conversation, bool) {
	if s.activeID == "" {
		return nil, false
	}
	return s.Get(s.activeID)
}

// Open handles a click on a conversation name. In delete mode the sidebar is
// a checklist, so the click does not navigate and Open reports false.
func (s *State) Open(id string) (bool, error) {
	if _, ok := s.conversations[id]; !ok {
		return false, ErrConversationNotFound
	}

	if s.deleteMode {
		return false, nil
	}

	s.activeID = id
	return true, nil
}

func (s *State) DeleteMode() bool {
	return s.deleteMode
}

// ToggleDeleteMode flips between the normal sidebar and the checklist and
// returns the new mode. Leaving the checklist forgets the selection.
func (s *State) ToggleDeleteMode() bool {
	if s.deleteMode {
		s.exitDeleteMode()
	} else {
		s.deleteMode = true
	}
	return s.deleteMode
}

// SetSelected mirrors a checkbox. It only applies in delete mode and to
// conversations that still exist.
func (s *State) SetSelected(id string, checked bool) bool {
	if !s.deleteMode {
		return false
	}
	if _, ok := s.conversations[id]; !ok {
		return false
	}

	_, was := s.selected[id]
	if checked {
		s.selected[id] = struct{}{}
	} else {
		delete(s.selected, id)
	}
	return was != checked
}

func (s *State) IsSelected(id string) bool {
	_, ok := s.selected[id]
	return ok
}

// Selected returns the checked ids in sidebar order.
func (s *State) Selected() []string {
	ids := make([]string, 0, len(s.selected))
	for id := range s.List() {
		if s.IsSelected(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// CommitSelection deletes every checked conversation and leaves delete mode.
// Outside delete mode there is nothing to commit.
func (s *State) CommitSelection() int {
	if !s.deleteMode {
		return 0
	}
	return s.BulkDelete(s.Selected())
}

func (s *State) Theme() Theme {
	return s.theme
}

func (s *State) SetTheme(theme Theme) {
	s.theme = theme
}

func (s *State) exitDeleteMode() {
	s.deleteMode = false
	clear(s.selected)
}
