// Package tui renders story content for interactive terminal play.
package tui

import (
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// NewRenderer returns a function that renders node content for the
// terminal. Content is treated as markdown and styled with glamour when
// stdout is a terminal; otherwise it passes through unchanged so piped
// output stays clean.
func NewRenderer() func(string) string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return func(content string) string { return content + "\n" }
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return func(content string) string { return content + "\n" }
	}

	return func(content string) string {
		out, err := r.Render(content)
		if err != nil {
			return content + "\n"
		}
		return out
	}
}
