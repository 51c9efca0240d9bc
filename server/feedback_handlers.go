package server

import (
	"net/http"

	"github.com/honganh1206/professor/feedback"
	"github.com/honganh1206/professor/metrics"
	"github.com/rs/zerolog"
)

// submitFeedback always acknowledges valid feedback; storage problems are
// only logged.
func (s *server) submitFeedback(w http.ResponseWriter, r *http.Request) {
	in, err := bindInput(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	sess := sessionFrom(r.Context())

	entry, err := feedback.NewEntry(sess.ID, in["text"])
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.feedback.Save(r.Context(), entry); err != nil {
		metrics.FeedbackTotal.WithLabelValues("error").Inc()
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("failed to store feedback")
	} else {
		metrics.FeedbackTotal.WithLabelValues("ok").Inc()
	}

	if wantsHTML(r) {
		sess.Notify("Thanks for your feedback!")
	}
	respond(w, r, http.StatusAccepted, map[string]string{"status": "received"})
}
