package fable

import (
	"fmt"
	"log/slog"

	"github.com/fablegraph/fable/internal/logging"
	"github.com/fablegraph/fable/internal/runtime"
	"github.com/fablegraph/fable/internal/validator"
	"github.com/fablegraph/fable/pkg/story"
)

// IllegalChoiceError is re-exported so callers can match it with errors.As
// without importing the internal runtime.
type IllegalChoiceError = runtime.IllegalChoiceError

// Engine is the high-level entry point for the Fable library. It wraps
// the internal runtime and validator behind a simplified API: validate a
// story graph once, then drive any number of independent playthroughs
// over it.
type Engine struct {
	graph      *story.Graph
	project    *story.Project
	logger     *slog.Logger
	seed       map[string]story.Value
	valOpts    []validator.Option
	runtime    *runtime.Engine
	skipChecks bool
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
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

// WithAdvisoryUnreachable downgrades unreachable-node findings from
// blocking errors to warnings, for drafts with work-in-progress branches.
func WithAdvisoryUnreachable() Option {
	return func(e *Engine) {
		e.valOpts = append(e.valOpts, validator.WithAdvisoryUnreachable())
	}
}

// WithoutValidation skips the structural check during construction.
// Playable states are not guaranteed; intended for tooling that inspects
// broken drafts.
func WithoutValidation() Option {
	return func(e *Engine) { e.skipChecks = true }
}

// New loads the project file at path and initializes an Engine over it.
// Construction fails if the graph has blocking structural findings.
func New(path string, opts ...Option) (*Engine, error) {
	project, err := story.LoadProject(path)
	if err != nil {
		return nil, err
	}
	return FromProject(project, opts...)
}

// FromProject initializes an Engine from an already-decoded project.
func FromProject(project *story.Project, opts ...Option) (*Engine, error) {
	graph, err := project.Graph()
	if err != nil {
		return nil, err
	}

	e := &Engine{
		graph:   graph,
		project: project,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if !e.skipChecks {
		report := validator.Validate(graph, e.valOpts...)
		for _, f := range report.Warnings() {
			e.logger.Warn("graph advisory",
				"kind", string(f.Kind), "node", f.NodeID, "detail", f.Detail)
		}
		if report.Blocking() {
			first := report.Errors()[0]
			return nil, fmt.Errorf("graph validation failed: %s (%s)", first.Detail, first.Kind)
		}
	}

	e.runtime = runtime.NewEngine(graph,
		runtime.WithLogger(e.logger),
		runtime.WithSeedVariables(e.seed),
	)
	return e, nil
}

// Validate re-runs the structural check and returns the full report,
// including advisory findings that did not block construction.
func (e *Engine) Validate() *validator.Report {
	return validator.Validate(e.graph, e.valOpts...)
}

// Graph returns the immutable graph snapshot the engine plays over.
func (e *Engine) Graph() *story.Graph { return e.graph }

// Project returns the project metadata the engine was loaded from.
// Nil when the engine was built directly from a graph.
func (e *Engine) Project() *story.Project { return e.project }

// NewPlaythrough creates a fresh playthrough positioned at the start node.
func (e *Engine) NewPlaythrough(sessionID string) (*story.GameState, error) {
	return e.runtime.Start(sessionID)
}

// AvailableChoices computes the legal choice set for the state's current
// node, in authored order. Nil for finished playthroughs.
func (e *Engine) AvailableChoices(state *story.GameState) []story.Choice {
	return e.runtime.AvailableChoices(state)
}

// Advance takes a choice and returns the successor state. The input state
// is never modified. Rejections are *IllegalChoiceError.
func (e *Engine) Advance(state *story.GameState, choiceID string) (*story.GameState, error) {
	return e.runtime.Advance(state, choiceID)
}

// CurrentNode returns the node the state is positioned at.
func (e *Engine) CurrentNode(state *story.GameState) (story.Node, bool) {
	node, ok := e.graph.Nodes[state.CurrentNodeID]
	return node, ok
}
