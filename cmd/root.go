package cmd

import (
	"fmt"

	"github.com/hongduc/quiz11/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quiz11",
	Short: "AI-generated lesson quizzes for Tin học 11",
	Long:  "quiz11 generates a short quiz for one Tin học 11 lesson, scores it, and submits the result.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUIZ11_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (overrides QUIZ11_CONFIG env var)")

	rootCmd.Flags().String("name", "", "Prefill the student name")
	rootCmd.Flags().String("class", "", "Prefill the student class")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(lessonsCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path, then QUIZ11_DB and the default XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}

// openStore resolves the database path from flags and config and opens it.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
