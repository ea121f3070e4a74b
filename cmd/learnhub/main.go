// Package main is the entry point for the learnhub CLI.
//
// Usage:
//
//	learnhub                      # Run the TUI against the configured backend
//	learnhub --api-url http://... # Override the backend URL
//	learnhub mock --seed          # Run the in-memory mock backend
//	learnhub version              # Show version info
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"learnhub/internal/api"
	"learnhub/internal/config"
	"learnhub/internal/telemetry"
	"learnhub/internal/ui"
)

// Version information - set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig string
	flagAPIURL string
)

// rootCmd runs the terminal client.
var rootCmd = &cobra.Command{
	Use:   "learnhub",
	Short: "Terminal client for the LearnHub student records backend",
	Long: `LearnHub is a terminal client for a student records service.

It shows the recently modified records, searches live as you type, and
adds, edits, and deletes students through the backend's JSON API.

Quick start:
  1. Run: learnhub mock --seed   (in another terminal)
  2. Run: learnhub`,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to config file (optional)")
	rootCmd.Flags().StringVar(&flagAPIURL, "api-url", "", "backend base URL (overrides config)")
	rootCmd.AddCommand(versionCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flagAPIURL != "" {
		cfg.API.BaseURL = flagAPIURL
	}

	// A TUI owns the terminal, so logs go to a file; io.Discard if it
	// cannot be opened.
	logger, closeLog := newFileLogger(cfg.LogFile)
	defer closeLog()

	ctx := context.Background()
	tp, err := telemetry.NewProvider(ctx, "learnhub")
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() { _ = tp.Shutdown(ctx) }()

	client := api.New(cfg.API.BaseURL, api.Options{
		Timeout: cfg.API.Timeout,
		Logger:  logger,
		Tracer:  tp.Tracer(),
	})
	defer client.Close()

	logger.Info("starting learnhub", "api_url", cfg.API.BaseURL, "version", version)

	model := ui.NewAppModel(client, cfg, logger).AsTeaModel()
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// newFileLogger opens a JSON logger writing to path. The returned closer is
// a no-op when the file could not be opened.
func newFileLogger(path string) (*slog.Logger, func()) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return slog.New(slog.NewJSONHandler(io.Discard, nil)), func() {}
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { _ = f.Close() }
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("learnhub %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
