package server

import (
	"errors"
	"net/http"

	"github.com/honganh1206/professor/agent"
	"github.com/honganh1206/professor/feedback"
	"github.com/honganh1206/professor/session"
	"github.com/rs/zerolog"
)

type HTTPError struct {
	Code    int
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// statusFor maps domain errors onto a status code and a message fit for the user.
func statusFor(err error) (int, string) {
	var httpErr *HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code, httpErr.Message
	case errors.Is(err, agent.ErrInvalidInput):
		return http.StatusBadRequest, "Please type a question first."
	case errors.Is(err, feedback.ErrEmptyFeedback):
		return http.StatusBadRequest, "Please write something before sending feedback."
	case errors.Is(err, session.ErrUnknownTheme):
		return http.StatusBadRequest, "Unknown theme"
	case errors.Is(err, session.ErrConversationNotFound):
		return http.StatusNotFound, "Conversation not found"
	case errors.Is(err, agent.ErrUpstream):
		return http.StatusBadGateway, "Something went wrong: " + err.Error()
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// handleError reports err to the caller. Form posts get the message as a
// flash on the next page render instead of an error status.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := statusFor(err)

	logger := zerolog.Ctx(r.Context())
	if code >= http.StatusInternalServerError {
		logger.Error().Err(err).Int("status", code).Msg("request failed")
	} else {
		logger.Debug().Err(err).Int("status", code).Msg("request rejected")
	}

	if wantsHTML(r) {
		if sess := sessionFrom(r.Context()); sess != nil {
			sess.Fail(msg)
		}
		redirectHome(w, r)
		return
	}

	writeError(w, code, msg)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
