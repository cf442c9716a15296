// Package export packages a validated project into a self-contained
// bundle that players can load without the authoring sources.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fablegraph/fable/internal/validator"
	"github.com/fablegraph/fable/pkg/story"
)

// FormatVersion identifies the bundle layout. Readers must reject
// versions they do not know.
const FormatVersion = 1

// Meta carries the project's descriptive fields into the bundle.
type Meta struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Author      string `json:"author,omitempty"`
	Version     string `json:"version,omitempty"`
}

// Bundle is the published form of a story: the graph plus the initial
// variables, frozen at export time. A bundle replays identically to the
// project it was built from.
type Bundle struct {
	FormatVersion int                    `json:"format_version"`
	Meta          Meta                   `json:"meta"`
	Nodes         []story.Node           `json:"nodes"`
	InitialState  map[string]story.Value `json:"initial_state,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

// Build validates the project and assembles a bundle. Projects with
// blocking findings cannot be published.
func Build(project *story.Project, seed map[string]story.Value, opts ...validator.Option) (*Bundle, error) {
	graph, err := project.Graph()
	if err != nil {
		return nil, err
	}

	report := validator.Validate(graph, opts...)
	if report.Blocking() {
		first := report.Errors()[0]
		return nil, fmt.Errorf("cannot export: %s (%s)", first.Detail, first.Kind)
	}

	return &Bundle{
		FormatVersion: FormatVersion,
		Meta: Meta{
			Title:       project.Title,
			Description: project.Description,
			Author:      project.Author,
			Version:     project.Version,
		},
		Nodes:        project.Nodes,
		InitialState: seed,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// Write serializes the bundle as indented JSON.
func (b *Bundle) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("failed to write bundle: %w", err)
	}
	return nil
}

// Read parses a bundle and checks its format version.
func Read(r io.Reader) (*Bundle, error) {
	var b Bundle
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("failed to read bundle: %w", err)
	}
	if b.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("unsupported bundle format version %d", b.FormatVersion)
	}
	return &b, nil
}

// Project reconstructs a playable project from the bundle.
func (b *Bundle) Project() *story.Project {
	return &story.Project{
		Title:       b.Meta.Title,
		Description: b.Meta.Description,
		Author:      b.Meta.Author,
		Version:     b.Meta.Version,
		Nodes:       b.Nodes,
	}
}
