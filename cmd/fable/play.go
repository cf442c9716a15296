package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fablegraph/fable"
	"github.com/fablegraph/fable/internal/adapters"
	"github.com/fablegraph/fable/internal/presentation/tui"
	"github.com/fablegraph/fable/pkg/session"
	"github.com/fablegraph/fable/pkg/story"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a story interactively in the terminal",
	Long: `Starts or resumes a playthrough of the project file. Progress is saved
after every choice, so an interrupted game resumes where it left off.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runPlay(cmd); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().StringP("session", "s", "", "Session ID to resume (default: a new session)")
	playCmd.Flags().Bool("no-banner", false, "Skip the startup banner")
}

func runPlay(cmd *cobra.Command) error {
	ctx := cmd.Context()
	path, _ := cmd.Flags().GetString("project")

	engine, err := fable.New(path, fable.WithLogger(newLogger(cmd)))
	if err != nil {
		return err
	}

	sessions := session.NewManager(adapters.NewFileStore(sessionDir(path)))

	sessionID, _ := cmd.Flags().GetString("session")
	resuming := sessionID != ""
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	state, err := sessions.LoadOrStart(ctx, sessionID, func() (*story.GameState, error) {
		return engine.NewPlaythrough(sessionID)
	})
	if err != nil {
		return err
	}

	if noBanner, _ := cmd.Flags().GetBool("no-banner"); !noBanner {
		tui.PrintBanner()
	}
	if title := engine.Project().Title; title != "" {
		fmt.Println(tui.Styled(title, "#fbbf24"))
		fmt.Println()
	}
	if resuming {
		fmt.Printf("Resuming session %s\n\n", sessionID)
	} else {
		fmt.Printf("Session %s\n\n", sessionID)
	}

	render := tui.NewRenderer()
	reader := bufio.NewReader(os.Stdin)

	for {
		node, ok := engine.CurrentNode(state)
		if !ok {
			return fmt.Errorf("state points at unknown node %q", state.CurrentNodeID)
		}

		if node.Title != "" {
			fmt.Println(tui.Styled("== "+node.Title+" ==", "#f97316"))
		}
		fmt.Print(render(node.Content))

		if state.Finished() {
			fmt.Println(tui.Styled("The End.", "#dc2626"))
			return nil
		}

		choices := engine.AvailableChoices(state)
		if len(choices) == 0 {
			// Live guards can strand an otherwise valid node.
			fmt.Println("No choices are available from here. The story cannot continue.")
			return nil
		}

		for i, c := range choices {
			fmt.Printf("  %d) %s\n", i+1, c.Text)
		}
		fmt.Print("\n> ")

		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("\nProgress saved. Bye!")
			return nil
		}
		input := strings.TrimSpace(line)

		if input == "exit" || input == "quit" {
			fmt.Println("Progress saved. Bye!")
			return nil
		}

		idx, err := strconv.Atoi(input)
		if err != nil || idx < 1 || idx > len(choices) {
			fmt.Printf("Pick a number between 1 and %d.\n\n", len(choices))
			continue
		}

		state, err = advanceAndSave(ctx, engine, sessions, sessionID, choices[idx-1].ID)
		if err != nil {
			var illegal *fable.IllegalChoiceError
			if errors.As(err, &illegal) {
				fmt.Printf("That choice is no longer available: %s\n\n", illegal.Reason)
				continue
			}
			return err
		}
		fmt.Println()
	}
}

func advanceAndSave(ctx context.Context, engine *fable.Engine, sessions *session.Manager, sessionID, choiceID string) (*story.GameState, error) {
	return sessions.Mutate(ctx, sessionID, func(state *story.GameState) (*story.GameState, error) {
		return engine.Advance(state, choiceID)
	})
}

// sessionDir keeps saves next to the project so different stories do not
// share a session namespace.
func sessionDir(projectPath string) string {
	return filepath.Join(filepath.Dir(projectPath), ".fable", "sessions")
}
