package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/studytutor/internal/app"
	"github.com/abhisek/studytutor/internal/store"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	closeLog, err := setupLogging(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closeLog()

	if cfg.DBPath != "" {
		if err := store.EnsureDir(cfg.DBPath); err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if !cfg.PasswordConfigured() {
		slog.Warn("login password not configured")
	}
	slog.Info("starting", "provider", cfg.LLM.Provider, "model", cfg.LLM.ModelName(), "persistent_log", cfg.DBPath != "")

	return app.Run(app.Options{
		Gate:      cfg.Gate(),
		LLM:       cfg.LLM,
		EventRepo: st.EventRepo(),
	})
}

// setupLogging points the default slog logger at path, or discards logs
// when path is empty. The TUI owns the terminal, so logs never go there.
func setupLogging(path string) (func(), error) {
	if path == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))
	return func() { _ = f.Close() }, nil
}
