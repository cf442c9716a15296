package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fablegraph/fable/internal/validator"
	"github.com/fablegraph/fable/pkg/story"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the story graph for structural problems",
	Long: `Loads the project file and reports structural findings: missing or
ambiguous start node, choices pointing at missing nodes, unreachable
nodes, and stories with no ending.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("allow-unreachable", false, "Report unreachable nodes as warnings instead of errors")
}

func runValidate(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("project")

	project, err := story.LoadProject(path)
	if err != nil {
		return err
	}
	graph, err := project.Graph()
	if err != nil {
		return err
	}

	var opts []validator.Option
	if advisory, _ := cmd.Flags().GetBool("allow-unreachable"); advisory {
		opts = append(opts, validator.WithAdvisoryUnreachable())
	}

	report := validator.Validate(graph, opts...)
	for _, f := range report.Findings {
		location := f.NodeID
		if f.ChoiceID != "" {
			location = fmt.Sprintf("%s/%s", f.NodeID, f.ChoiceID)
		}
		if location != "" {
			fmt.Printf("[%s] %s: %s (%s)\n", f.Severity, f.Kind, f.Detail, location)
		} else {
			fmt.Printf("[%s] %s: %s\n", f.Severity, f.Kind, f.Detail)
		}
	}

	if report.Blocking() {
		return fmt.Errorf("validation failed: %d error(s), %d warning(s)",
			len(report.Errors()), len(report.Warnings()))
	}
	fmt.Printf("Graph is valid: %d node(s), %d warning(s) ✅\n",
		len(graph.Nodes), len(report.Warnings()))
	return nil
}
