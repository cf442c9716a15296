package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fablegraph/fable/internal/export"
	"github.com/fablegraph/fable/pkg/story"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Package a validated story into a playable bundle",
	Long: `Validates the project and writes a self-contained JSON bundle.
Projects with blocking validation errors cannot be exported.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runExport(cmd); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
}

func runExport(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("project")

	project, err := story.LoadProject(path)
	if err != nil {
		return err
	}

	bundle, err := export.Build(project, nil)
	if err != nil {
		return err
	}

	out := os.Stdout
	if output, _ := cmd.Flags().GetString("output"); output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	return bundle.Write(out)
}
