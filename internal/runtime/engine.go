// Package runtime is the engine core: condition evaluation, state
// transitions, and the playthrough controller. Everything here is a
// synchronous pure computation over in-memory values; persistence and
// transport live behind adapters.
package runtime

import (
	"fmt"
	"log/slog"

	"github.com/fablegraph/fable/internal/logging"
	"github.com/fablegraph/fable/pkg/story"
)

// IllegalChoiceError is returned when an advance names a choice that is
// not currently available: unknown ID, guard not satisfied, stale after a
// reload, or the session is already finished. It is a caller error and is
// recoverable by re-querying the available set.
type IllegalChoiceError struct {
	ChoiceID string
	NodeID   string
	Reason   string
}

func (e *IllegalChoiceError) Error() string {
	return fmt.Sprintf("choice %q not available at node %q: %s", e.ChoiceID, e.NodeID, e.Reason)
}

// Engine is the playthrough controller for one graph snapshot. It holds
// no session state of its own; every operation takes the caller's
// GameState, so one Engine serves any number of independent playthroughs.
type Engine struct {
	graph  *story.Graph
	seed   map[string]story.Value
	logger *slog.Logger
}

// Option configures the engine.
type Option func(*Engine)

// WithLogger sets a structured logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSeedVariables sets the initial variables of every new playthrough.
func WithSeedVariables(seed map[string]story.Value) Option {
	return func(e *Engine) { e.seed = seed }
}

// NewEngine creates a controller over an immutable graph snapshot.
func NewEngine(graph *story.Graph, opts ...Option) *Engine {
	e := &Engine{
		graph:  graph,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start creates a fresh playthrough positioned at the graph's start node.
func (e *Engine) Start(sessionID string) (*story.GameState, error) {
	start, ok := e.graph.StartNode()
	if !ok {
		return nil, story.ErrNoStartNode
	}
	state := story.NewState(sessionID, start.ID, e.seed)
	e.logger.Debug("playthrough started", "session_id", sessionID, "node", start.ID)
	return state, nil
}

// AvailableChoices computes the legal choice set for the current node, in
// authored order. It is read-only and idempotent: re-querying with the
// same state — including a state restored from persistence — reproduces
// the same sequence.
func (e *Engine) AvailableChoices(state *story.GameState) []story.Choice {
	if state.Finished() {
		return nil
	}

	var available []story.Choice
	for _, c := range e.graph.ChoicesOf(state.CurrentNodeID) {
		ok, diags := EvaluateDetailed(state, c.Conditions)
		for _, d := range diags {
			e.logger.Warn("condition degraded",
				"session_id", state.SessionID,
				"choice", c.ID,
				"variable", d.Variable,
				"operator", string(d.Operator),
				"reason", d.Reason)
		}
		if ok {
			available = append(available, c)
		}
	}
	return available
}

// Advance takes a choice on behalf of the player: it re-derives the
// available set, rejects anything not in it, applies the choice's
// effects, and moves the session. On any failure the input state is
// untouched and the returned error is an *IllegalChoiceError.
//
// Callers must serialize Advance per session; concurrent calls on the
// same GameState are a caller error.
func (e *Engine) Advance(state *story.GameState, choiceID string) (*story.GameState, error) {
	if state.Finished() {
		return nil, &IllegalChoiceError{
			ChoiceID: choiceID,
			NodeID:   state.CurrentNodeID,
			Reason:   "playthrough is finished",
		}
	}

	var chosen *story.Choice
	for _, c := range e.AvailableChoices(state) {
		if c.ID == choiceID {
			chosen = &c
			break
		}
	}
	if chosen == nil {
		return nil, &IllegalChoiceError{
			ChoiceID: choiceID,
			NodeID:   state.CurrentNodeID,
			Reason:   "not in the available set",
		}
	}

	next, diags := ApplyChoice(state, *chosen)
	for _, d := range diags {
		e.logger.Warn("state change skipped",
			"session_id", state.SessionID,
			"choice", chosen.ID,
			"variable", d.Variable,
			"reason", d.Reason)
	}

	if chosen.Terminal() || e.graph.Nodes[next.CurrentNodeID].End {
		next.Status = story.StatusFinished
	}

	e.logger.Debug("advanced",
		"session_id", state.SessionID,
		"choice", chosen.ID,
		"from", state.CurrentNodeID,
		"to", next.CurrentNodeID,
		"status", string(next.Status))
	return next, nil
}
