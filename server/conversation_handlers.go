package server

import (
	"net/http"

	"github.com/honganh1206/professor/conversation"
	"github.com/honganh1206/professor/message"
	"github.com/honganh1206/professor/session"
)

type conversationView struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Active   bool              `json:"active"`
	Messages []message.Message `json:"messages"`
}

func newConversationView(st *session.State, conv *conversation.Conversation) conversationView {
	return conversationView{
		ID:       conv.ID,
		Name:     conv.Name,
		Active:   st.ActiveID() == conv.ID,
		Messages: conv.Messages.Snapshot(),
	}
}

func (s *server) getState(w http.ResponseWriter, r *http.Request) {
	var snap session.Snapshot
	sessionFrom(r.Context()).Do(func(st *session.State) error {
		snap = st.Snapshot()
		return nil
	})

	writeJSON(w, http.StatusOK, snap)
}

func (s *server) listConversations(w http.ResponseWriter, r *http.Request) {
	conversations := make([]conversation.ConversationMetadata, 0)
	sessionFrom(r.Context()).Do(func(st *session.State) error {
		for _, conv := range st.List() {
			conversations = append(conversations, conv.Metadata())
		}
		return nil
	})

	writeJSON(w, http.StatusOK, conversations)
}

func (s *server) createConversation(w http.ResponseWriter, r *http.Request) {
	var view conversationView
	err := sessionFrom(r.Context()).Do(func(st *session.State) error {
		conv, err := st.Create()
		if err != nil {
			return &HTTPError{
				Code:    http.StatusInternalServerError,
				Message: "Failed to create conversation",
				Err:     err,
			}
		}
		view = newConversationView(st, conv)
		return nil
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, view)
}

func (s *server) getConversation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var view conversationView
	err := sessionFrom(r.Context()).Do(func(st *session.State) error {
		conv, ok := st.Get(id)
		if !ok {
			return session.ErrConversationNotFound
		}
		view = newConversationView(st, conv)
		return nil
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (s *server) openConversation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var opened bool
	var activeID string
	err := sessionFrom(r.Context()).Do(func(st *session.State) error {
		var err error
		opened, err = st.Open(id)
		activeID = st.ActiveID()
		return err
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, map[string]any{
		"opened":    opened,
		"active_id": activeID,
	})
}

// Deleting an unknown conversation succeeds; the caller may be acting on an old render.
func (s *server) deleteConversation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	sessionFrom(r.Context()).Do(func(st *session.State) error {
		st.Delete(id)
		return nil
	})

	respond(w, r, http.StatusNoContent, nil)
}
