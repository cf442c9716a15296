package story

// Choice is a guarded, effectful edge out of a node. An empty TargetNodeID
// marks a terminal choice: picking it ends the playthrough without a
// transition.
type Choice struct {
	ID           string                 `json:"id" yaml:"id"`
	SourceNodeID string                 `json:"sourceNodeId,omitempty" yaml:"sourceNodeId,omitempty"`
	Text         string                 `json:"text" yaml:"text"`
	TargetNodeID string                 `json:"targetNodeId,omitempty" yaml:"targetNodeId,omitempty"`
	Conditions   []Condition            `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	StateChanges map[string]StateChange `json:"stateChanges,omitempty" yaml:"stateChanges,omitempty"`
}

// Terminal reports whether picking this choice ends the playthrough.
func (c Choice) Terminal() bool { return c.TargetNodeID == "" }

// Node is one narrative beat. Content is an opaque payload; the engine
// never interprets it. Choice order is authored order and is preserved
// everywhere choices surface.
type Node struct {
	ID      string   `json:"id" yaml:"id"`
	Title   string   `json:"title,omitempty" yaml:"title,omitempty"`
	Content string   `json:"content" yaml:"content"`
	Choices []Choice `json:"choices,omitempty" yaml:"choices,omitempty"`
	Start   bool     `json:"isStart,omitempty" yaml:"isStart,omitempty"`
	End     bool     `json:"isEnd,omitempty" yaml:"isEnd,omitempty"`
}

// Graph is an authored story graph snapshot. It is a value: authoring
// edits produce a new Graph rather than mutating one that running
// sessions may still reference. The engine treats it as read-only.
//
// Graph performs no validation of its own; structural soundness is the
// validator's job.
type Graph struct {
	Nodes map[string]Node `json:"nodes" yaml:"nodes"`
}

// NewGraph builds a graph from a node sequence. Source IDs are stamped
// onto choices so reverse lookups don't depend on the authoring tool
// filling them in. Duplicate node IDs are a document defect the loader
// rejects; here, later nodes win, matching map semantics.
func NewGraph(nodes []Node) *Graph {
	g := &Graph{Nodes: make(map[string]Node, len(nodes))}
	for _, n := range nodes {
		for i := range n.Choices {
			n.Choices[i].SourceNodeID = n.ID
		}
		g.Nodes[n.ID] = n
	}
	return g
}

// StartNode returns the node marked as the start, if exactly one exists.
func (g *Graph) StartNode() (Node, bool) {
	var found Node
	count := 0
	for _, n := range g.Nodes {
		if n.Start {
			found = n
			count++
		}
	}
	return found, count == 1
}

// ChoicesOf returns the ordered choice list of a node. A missing node has
// no choices.
func (g *Graph) ChoicesOf(nodeID string) []Choice {
	return g.Nodes[nodeID].Choices
}

// ChoiceByID finds a choice anywhere in the graph.
func (g *Graph) ChoiceByID(choiceID string) (Choice, bool) {
	for _, n := range g.Nodes {
		for _, c := range n.Choices {
			if c.ID == choiceID {
				return c, true
			}
		}
	}
	return Choice{}, false
}

// TargetOf returns the target node ID of a choice. The second result is
// false when the choice does not exist; a terminal choice exists but has
// an empty target.
func (g *Graph) TargetOf(choiceID string) (string, bool) {
	c, ok := g.ChoiceByID(choiceID)
	if !ok {
		return "", false
	}
	return c.TargetNodeID, true
}
