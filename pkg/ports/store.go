package ports

import (
	"context"

	"github.com/fablegraph/fable/pkg/story"
)

// StateStore persists playthrough state between turns. The engine
// requires a save after every successful advance so that a reload always
// resumes from the last completed turn.
type StateStore interface {
	// Save persists the state for a session ID.
	Save(ctx context.Context, sessionID string, state *story.GameState) error

	// Load retrieves the state for a session ID. Returns
	// story.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*story.GameState, error)

	// Delete removes the state for a session ID. Deleting an unknown
	// session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all saved sessions.
	List(ctx context.Context) ([]string, error)
}
