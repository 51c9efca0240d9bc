package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/honganh1206/professor/agent"
	"github.com/honganh1206/professor/session"
)

func (s *server) submitMessage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	in, err := bindInput(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	sess := sessionFrom(r.Context())

	var turn *agent.Turn
	err = sess.Do(func(st *session.State) error {
		var err error
		turn, err = s.agent.Run(r.Context(), st, id, in["prompt"])
		return err
	})

	if errors.Is(err, agent.ErrUpstream) && !wantsHTML(r) {
		// The prompt is kept, so the caller gets it back next to the error.
		_, msg := statusFor(err)
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error": msg,
			"turn":  turn,
		})
		return
	}
	if err != nil {
		handleError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, turn)
}

// Messages are addressed by their stable id. Unknown conversations and
// messages are treated as already deleted.
func (s *server) deleteMessage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	msgID, err := strconv.Atoi(r.PathValue("msgID"))
	if err != nil {
		handleError(w, r, &HTTPError{
			Code:    http.StatusBadRequest,
			Message: "Invalid message id",
			Err:     err,
		})
		return
	}

	sessionFrom(r.Context()).Do(func(st *session.State) error {
		if conv, ok := st.Get(id); ok {
			conv.Messages.Delete(msgID)
		}
		return nil
	})

	respond(w, r, http.StatusNoContent, nil)
}
