package cmd

import (
	"fmt"
	"os"

	"github.com/honganh1206/professor/inference"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	cfg     *Config
	envPath string
	verbose bool
)

func setupLogging(level, format string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// loadConfig reads .env and the environment, then applies any flags the
// user set explicitly.
func loadConfig(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(envPath); err != nil && verbose {
		fmt.Fprintf(os.Stderr, "Warning: could not load %s: %v\n", envPath, err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("provider") {
		loaded.Provider, _ = flags.GetString("provider")
	}
	if flags.Changed("model") {
		loaded.Model, _ = flags.GetString("model")
	}
	if flags.Changed("max-tokens") {
		loaded.MaxTokens, _ = flags.GetInt64("max-tokens")
	}
	if flags.Changed("addr") {
		loaded.Addr, _ = flags.GetString("addr")
	}
	if flags.Changed("server") {
		loaded.ServerURL, _ = flags.GetString("server")
	}

	if err := loaded.Validate(); err != nil {
		return err
	}

	if loaded.Model == "" {
		loaded.Model = string(inference.GetDefaultModel(inference.ProviderName(loaded.Provider)))
	}

	setupLogging(loaded.LogLevel, loaded.LogFormat)
	cfg = loaded
	return nil
}

func ModelHandler(cmd *cobra.Command, args []string) error {
	provider := inference.ProviderName(cfg.Provider)
	models := inference.ListAvailableModels(provider)

	if len(models) > 0 {
		fmt.Printf("Available models for %s:\n", provider)
		for _, model := range models {
			fmt.Printf("  - %s\n", model)
		}
	} else {
		fmt.Printf("For %s, specify your custom model name with the --model flag\n", provider)
	}

	return nil
}

func NewCLI() *cobra.Command {
	modelCmd := &cobra.Command{
		Use:   "model",
		Short: "List available models for the selected provider",
		RunE:  ModelHandler,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of professor",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Professor version %s (commit: %s, built: %s)\n", Version, GitCommit, BuildTime)
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the professor web server",
		Args:  cobra.ExactArgs(0),
		RunE:  RunServer,
	}
	serveCmd.Flags().String("addr", ":8501", "Address to listen on")

	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with a running professor server from the terminal",
		Args:  cobra.ExactArgs(0),
		RunE:  ChatHandler,
	}

	conversationsCmd := &cobra.Command{
		Use:   "conversations",
		Short: "Show the conversations of a server session",
		Args:  cobra.ExactArgs(0),
		RunE:  ConversationsHandler,
	}

	feedbackCmd := &cobra.Command{
		Use:   "feedback",
		Short: "Show feedback stored in FEEDBACK_DB",
		Args:  cobra.ExactArgs(0),
		RunE:  FeedbackHandler,
	}

	for _, c := range []*cobra.Command{chatCmd, conversationsCmd} {
		c.Flags().String("server", "http://localhost:8501", "URL of the professor server")
		c.Flags().StringP("session", "s", "", "Resume an existing session id")
	}

	rootCmd := &cobra.Command{
		Use:   "professor",
		Short: "Explain it like I'm five: a chat server backed by an LLM",
		Long: `Professor serves a browser chat where every answer is explained simply.
Conversations live per browser session; replies come from Gemini or Claude.`,
		PersistentPreRunE: loadConfig,
		SilenceUsage:      true,
		RunE:              RunServer,
	}
	rootCmd.Flags().String("addr", ":8501", "Address to listen on")

	rootCmd.PersistentFlags().String("provider", string(inference.GoogleProvider), "Provider (google, anthropic)")
	rootCmd.PersistentFlags().String("model", "", fmt.Sprintf("Model to use (google: %s; anthropic: %s)",
		inference.FormatModelsForHelp(inference.ListAvailableModels(inference.GoogleProvider)),
		inference.FormatModelsForHelp(inference.ListAvailableModels(inference.AnthropicProvider))))
	rootCmd.PersistentFlags().Int64("max-tokens", 1024, "Maximum number of tokens in response")
	rootCmd.PersistentFlags().StringVar(&envPath, "env", ".env", "Path to .env file")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose output")

	rootCmd.AddCommand(serveCmd, chatCmd, conversationsCmd, feedbackCmd, modelCmd, versionCmd)

	return rootCmd
}

// Execute runs the CLI. This is called by main.main().
func Execute() {
	if err := NewCLI().Execute(); err != nil {
		os.Exit(1)
	}
}
