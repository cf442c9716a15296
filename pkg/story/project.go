package story

import "fmt"

// Project is the authored artifact: a story graph plus the metadata the
// authoring surface attaches to it.
type Project struct {
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Author      string `json:"author,omitempty" yaml:"author,omitempty"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
	Nodes       []Node `json:"nodes" yaml:"nodes"`
}

// Graph materializes the project's node list into a graph snapshot.
// Duplicate node IDs and duplicate choice IDs are document defects, not
// authoring findings, so they are rejected here rather than surfaced by
// the validator.
func (p *Project) Graph() (*Graph, error) {
	seenNodes := make(map[string]struct{}, len(p.Nodes))
	seenChoices := make(map[string]struct{})
	for _, n := range p.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("node %q has no id", n.Title)
		}
		if _, dup := seenNodes[n.ID]; dup {
			return nil, fmt.Errorf("duplicate node id %q", n.ID)
		}
		seenNodes[n.ID] = struct{}{}
		for _, c := range n.Choices {
			if c.ID == "" {
				return nil, fmt.Errorf("node %q has a choice with no id", n.ID)
			}
			if _, dup := seenChoices[c.ID]; dup {
				return nil, fmt.Errorf("duplicate choice id %q", c.ID)
			}
			seenChoices[c.ID] = struct{}{}
		}
	}
	return NewGraph(p.Nodes), nil
}
