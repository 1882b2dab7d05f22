package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/studytutor/internal/config"
	"github.com/abhisek/studytutor/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "studytutor",
	Short: "AI study tutor",
	Long:  "StudyTutor: a terminal study companion with guided learning, practice quizzes, and free chat.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite usage log (overrides STUDYTUTOR_DB; default in-memory)")
	rootCmd.PersistentFlags().String("log-file", "", "Write structured logs to this file (overrides STUDYTUTOR_LOG_FILE)")
	rootCmd.PersistentFlags().String("provider", "", "LLM provider: gemini, openai, anthropic, openrouter, mock")
	rootCmd.PersistentFlags().String("model", "", "LLM model name or ID")

	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads the environment configuration and applies flag
// overrides on top of it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if p, _ := cmd.Flags().GetString("log-file"); p != "" {
		cfg.LogFile = p
	}
	if p, _ := cmd.Flags().GetString("provider"); p != "" {
		cfg.LLM.Provider = p
		cfg.LLM.Model = ""
	}
	if m, _ := cmd.Flags().GetString("model"); m != "" {
		cfg.LLM.Model = m
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the STUDYTUTOR_DB env var. Inspecting the usage log needs a file;
// the in-memory default holds nothing once the app exits.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	p, _ := cmd.Flags().GetString("db")
	if p == "" {
		p = os.Getenv("STUDYTUTOR_DB")
	}
	if p == "" {
		return "", fmt.Errorf("no usage log: pass --db or set STUDYTUTOR_DB")
	}
	return p, store.EnsureDir(p)
}
