package cmd

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"syscall"

	"github.com/honganh1206/professor/agent"
	"github.com/honganh1206/professor/feedback"
	"github.com/honganh1206/professor/inference"
	"github.com/honganh1206/professor/server"
	"github.com/honganh1206/professor/session"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func openFeedbackStore(dsn string) (feedback.Store, func() error, error) {
	if dsn == "" {
		return feedback.LogStore{}, func() error { return nil }, nil
	}

	store, err := feedback.OpenSQLiteStore(dsn)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

func RunServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Object("config", cfg).Msg("starting professor")

	model, err := inference.Init(ctx, cfg.ModelConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize model: %w", err)
	}

	sessions, err := session.NewManager(cfg.MaxSessions, cfg.SessionTTL)
	if err != nil {
		return err
	}

	go sessions.Janitor(ctx, cfg.SessionSweep)

	store, closeStore, err := openFeedbackStore(cfg.FeedbackDB)
	if err != nil {
		return fmt.Errorf("failed to open feedback store: %w", err)
	}
	defer closeStore()

	handler, err := server.NewHandler(server.Options{
		Sessions:      sessions,
		Agent:         agent.New(model, cfg.LLMTimeout),
		Feedback:      store,
		Title:         cfg.Title,
		SecureCookies: cfg.SecureCookies,
	})
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return err
	}

	if err := server.Serve(ctx, ln, handler); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
