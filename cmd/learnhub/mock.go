package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"learnhub/internal/mockhub"
)

var (
	flagMockAddr string
	flagMockSeed bool
)

// mockCmd runs the in-memory mock of the student records backend. It exists
// for development and demos; the client itself never depends on it.
var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Run an in-memory mock of the student records backend",
	Long: `Run an in-memory mock backend implementing the full student records
API: recent students, add/edit/delete, duplicate checks, live and advanced
search, search history, CSV export, bulk actions, and stats.

State lives in memory and is lost on exit.`,
	RunE: runMock,
}

func init() {
	rootCmd.AddCommand(mockCmd)
	mockCmd.Flags().StringVar(&flagMockAddr, "addr", ":8080", "listen address")
	mockCmd.Flags().BoolVar(&flagMockSeed, "seed", false, "seed sample students and courses")
}

func runMock(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	store := mockhub.NewStore()
	if flagMockSeed {
		store.Seed()
		logger.Info("seeded sample data")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return mockhub.NewServer(store, logger).ListenAndServe(ctx, flagMockAddr)
}
