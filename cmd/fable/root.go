package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fablegraph/fable/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "fable",
	Short: "Fable is an engine for branching interactive stories",
	Long: `Fable loads a story graph from a YAML or JSON project file, validates
its structure, and plays it: in the terminal, over HTTP, or exported as
a self-contained bundle.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("project", "f", "story.yaml", "Path to the story project file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); off by default")
}

// newLogger builds the CLI logger. Logging stays off unless --log-level
// is set, so play output is not interleaved with log lines.
func newLogger(cmd *cobra.Command) *slog.Logger {
	raw, _ := cmd.Flags().GetString("log-level")
	if raw == "" {
		return logging.NewNop()
	}
	level, err := logging.ParseLevel(raw)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return logging.New(level)
}
