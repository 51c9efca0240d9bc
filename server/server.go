package server

import (
	"context"
	"errors"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/honganh1206/professor/agent"
	"github.com/honganh1206/professor/feedback"
	"github.com/honganh1206/professor/metrics"
	"github.com/honganh1206/professor/session"
	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
)

type Options struct {
	Sessions *session.Manager
	Agent    *agent.Agent
	Feedback feedback.Store
	// Title shown in the page header.
	Title         string
	SecureCookies bool
}

type server struct {
	sessions      *session.Manager
	agent         *agent.Agent
	feedback      feedback.Store
	title         string
	secureCookies bool

	page     *template.Template
	markdown goldmark.Markdown
}

func NewHandler(opts Options) (http.Handler, error) {
	if opts.Sessions == nil || opts.Agent == nil {
		return nil, errors.New("server: sessions and agent are required")
	}
	if opts.Feedback == nil {
		opts.Feedback = feedback.LogStore{}
	}
	if opts.Title == "" {
		opts.Title = "Professor AI"
	}

	page, err := parsePage()
	if err != nil {
		return nil, err
	}

	srv := &server{
		sessions:      opts.Sessions,
		agent:         opts.Agent,
		feedback:      opts.Feedback,
		title:         opts.Title,
		secureCookies: opts.SecureCookies,
		page:          page,
		markdown:      newMarkdown(),
	}

	return srv.routes(), nil
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /health", instrument("/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})))
	mux.Handle("GET /metrics", metrics.Handler())

	// Everything below acts on the caller's session.
	s.handle(mux, "GET /{$}", s.renderPage)
	s.handle(mux, "GET /state", s.getState)

	s.handle(mux, "GET /conversations", s.listConversations)
	s.handle(mux, "POST /conversations", s.createConversation)
	s.handle(mux, "GET /conversations/{id}", s.getConversation)
	s.handle(mux, "POST /conversations/{id}/open", s.openConversation)
	s.handle(mux, "DELETE /conversations/{id}", s.deleteConversation)
	s.handle(mux, "POST /conversations/{id}/delete", s.deleteConversation)

	s.handle(mux, "POST /conversations/{id}/messages", s.submitMessage)
	s.handle(mux, "DELETE /conversations/{id}/messages/{msgID}", s.deleteMessage)
	s.handle(mux, "POST /conversations/{id}/messages/{msgID}/delete", s.deleteMessage)

	s.handle(mux, "POST /delete-mode", s.toggleDeleteMode)
	s.handle(mux, "PUT /selection/{id}", s.setSelection)
	s.handle(mux, "POST /selection/{id}", s.setSelection)
	s.handle(mux, "POST /selection/commit", s.commitSelection)

	s.handle(mux, "PUT /theme", s.setTheme)
	s.handle(mux, "POST /theme", s.setTheme)
	s.handle(mux, "POST /feedback", s.submitFeedback)

	return requestID(recoverer(mux))
}

func (s *server) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.Handle(pattern, s.withSession(instrument(pattern, h)))
}

// Serve runs handler on ln until ctx is cancelled, then drains in-flight requests.
func Serve(ctx context.Context, ln net.Listener, handler http.Handler) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown")
		}
	}()

	log.Info().Str("addr", ln.Addr().String()).Msg("server listening")

	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
