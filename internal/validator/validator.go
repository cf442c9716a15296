// Package validator performs static analysis over an authored story graph:
// start-node uniqueness, dangling choice targets, reachability, and
// finishability. It reports findings; it never rejects a graph with an
// error, and it never solves conditions symbolically — reachability is
// structural, over the directed graph of all choices regardless of
// whether their guards could ever pass.
package validator

import (
	"fmt"
	"sort"

	"github.com/fablegraph/fable/pkg/story"
)

// Kind identifies a class of finding.
type Kind string

const (
	KindMissingStart    Kind = "missing_start"
	KindMultipleStart   Kind = "multiple_start"
	KindDanglingTarget  Kind = "dangling_target"
	KindUnreachableNode Kind = "unreachable_node"
	KindNoTerminal      Kind = "no_terminal"
)

// Severity splits findings into blockers and advisories.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one defect or advisory discovered in a graph.
type Finding struct {
	Kind     Kind     `json:"kind"`
	Severity Severity `json:"severity"`
	NodeID   string   `json:"node_id,omitempty"`
	ChoiceID string   `json:"choice_id,omitempty"`
	Detail   string   `json:"detail"`
}

// Report is the full validation result. It is a value, not an error:
// callers decide what to do with it (the export gate refuses on
// Blocking, the authoring surface shows everything).
type Report struct {
	Findings []Finding `json:"findings"`
}

// Blocking reports whether any finding should refuse play or export.
func (r *Report) Blocking() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only the blocking findings.
func (r *Report) Errors() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			out = append(out, f)
		}
	}
	return out
}

// Warnings returns only the advisory findings.
func (r *Report) Warnings() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == SeverityWarning {
			out = append(out, f)
		}
	}
	return out
}

func (r *Report) add(f Finding) { r.Findings = append(r.Findings, f) }

// Option tunes validation policy.
type Option func(*options)

type options struct {
	unreachableAdvisory bool
}

// WithAdvisoryUnreachable downgrades UnreachableNode findings from
// blocking to advisory. Some authoring setups keep work-in-progress
// islands in the graph on purpose.
func WithAdvisoryUnreachable() Option {
	return func(o *options) { o.unreachableAdvisory = true }
}

// Validate runs every check and returns the combined report. Checks run
// independently where they can: a graph with no start node still gets its
// dangling targets reported.
func Validate(g *story.Graph, opts ...Option) *Report {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	report := &Report{}

	startID := checkStart(g, report)
	checkDangling(g, report)
	if startID != "" {
		checkReachability(g, startID, report, o)
	}
	checkTerminal(g, report)

	return report
}

// checkStart verifies start-node uniqueness and returns the start ID when
// exactly one exists (reachability needs it).
func checkStart(g *story.Graph, report *Report) string {
	var startIDs []string
	for _, n := range g.Nodes {
		if n.Start {
			startIDs = append(startIDs, n.ID)
		}
	}
	sort.Strings(startIDs)

	switch len(startIDs) {
	case 0:
		report.add(Finding{
			Kind:     KindMissingStart,
			Severity: SeverityError,
			Detail:   "no node is marked as the start node",
		})
		return ""
	case 1:
		return startIDs[0]
	default:
		for _, id := range startIDs {
			report.add(Finding{
				Kind:     KindMultipleStart,
				Severity: SeverityError,
				NodeID:   id,
				Detail:   fmt.Sprintf("node %q is one of %d start nodes; exactly one is allowed", id, len(startIDs)),
			})
		}
		return ""
	}
}

func checkDangling(g *story.Graph, report *Report) {
	for _, id := range sortedNodeIDs(g) {
		for _, c := range g.Nodes[id].Choices {
			if c.Terminal() {
				continue
			}
			if _, ok := g.Nodes[c.TargetNodeID]; !ok {
				report.add(Finding{
					Kind:     KindDanglingTarget,
					Severity: SeverityError,
					NodeID:   id,
					ChoiceID: c.ID,
					Detail:   fmt.Sprintf("choice %q targets unknown node %q", c.ID, c.TargetNodeID),
				})
			}
		}
	}
}

// checkReachability walks breadth-first from the start node over choice
// targets. Guards are ignored: a node only reachable through an
// unsatisfiable condition still counts as reachable.
func checkReachability(g *story.Graph, startID string, report *Report, o options) {
	visited := map[string]bool{startID: true}
	queue := []string{startID}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, c := range g.Nodes[current].Choices {
			target := c.TargetNodeID
			if target == "" || visited[target] {
				continue
			}
			if _, ok := g.Nodes[target]; !ok {
				continue // already reported as dangling
			}
			visited[target] = true
			queue = append(queue, target)
		}
	}

	severity := SeverityError
	if o.unreachableAdvisory {
		severity = SeverityWarning
	}
	for _, id := range sortedNodeIDs(g) {
		if !visited[id] {
			report.add(Finding{
				Kind:     KindUnreachableNode,
				Severity: severity,
				NodeID:   id,
				Detail:   fmt.Sprintf("node %q cannot be reached from the start node", id),
			})
		}
	}
}

// checkTerminal is advisory only: a graph with no end node and no
// terminal choice can never finish.
func checkTerminal(g *story.Graph, report *Report) {
	for _, n := range g.Nodes {
		if n.End {
			return
		}
		for _, c := range n.Choices {
			if c.Terminal() {
				return
			}
		}
	}
	report.add(Finding{
		Kind:     KindNoTerminal,
		Severity: SeverityWarning,
		Detail:   "no node is marked as an ending and no choice ends the playthrough; the story can never finish",
	})
}

func sortedNodeIDs(g *story.Graph) []string {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
