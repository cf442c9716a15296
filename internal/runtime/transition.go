package runtime

import (
	"sort"

	"github.com/fablegraph/fable/pkg/story"
)

// ApplyChoice applies a choice's declared effects and produces the next
// state. It is a pure function: the input state is never mutated, and
// identical inputs always yield identical output.
//
// All well-formed change entries apply as one revision. A malformed entry
// (numeric op on a non-numeric value, list op on a scalar) is skipped
// without aborting the rest; the skips are reported as diagnostics.
func ApplyChoice(state *story.GameState, choice story.Choice) (*story.GameState, []Diagnostic) {
	next := state.Clone()
	var diags []Diagnostic

	// Entries are keyed per variable and independent, but sorted
	// application keeps diagnostic order stable.
	keys := make([]string, 0, len(choice.StateChanges))
	for k := range choice.StateChanges {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if diag := applyChange(next, key, choice.StateChanges[key]); diag != nil {
			diags = append(diags, *diag)
		}
	}

	next.VisitedNodes = append(next.VisitedNodes, state.CurrentNodeID)
	next.ChoiceHistory = append(next.ChoiceHistory, choice.ID)
	if !choice.Terminal() {
		next.CurrentNodeID = choice.TargetNodeID
	}
	return next, diags
}

func applyChange(state *story.GameState, key string, change story.StateChange) *Diagnostic {
	current := state.Variables[key] // zero Value when absent

	switch change.Op {
	case story.ChangeSet, "":
		state.Variables[key] = change.Value
		return nil

	case story.ChangeAdd, story.ChangeSubtract, story.ChangeMultiply:
		delta, ok := change.Value.Number()
		if !ok {
			return &Diagnostic{Variable: key, Reason: "numeric change with non-numeric value"}
		}
		base := 0.0
		if !current.IsNil() {
			b, ok := current.Number()
			if !ok {
				return &Diagnostic{Variable: key, Reason: "numeric change on non-numeric variable"}
			}
			base = b
		}
		switch change.Op {
		case story.ChangeAdd:
			state.Variables[key] = story.Number(base + delta)
		case story.ChangeSubtract:
			state.Variables[key] = story.Number(base - delta)
		case story.ChangeMultiply:
			state.Variables[key] = story.Number(base * delta)
		}
		return nil

	case story.ChangeAppend:
		if current.IsNil() {
			state.Variables[key] = story.List(change.Value)
			return nil
		}
		list, ok := current.List()
		if !ok {
			return &Diagnostic{Variable: key, Reason: "append on non-list variable"}
		}
		// Copy-on-write: list payloads are shared across state snapshots.
		next := make([]story.Value, 0, len(list)+1)
		next = append(next, list...)
		next = append(next, change.Value)
		state.Variables[key] = story.List(next...)
		return nil

	case story.ChangeRemove:
		list, ok := current.List()
		if !ok {
			if current.IsNil() {
				return nil // removing from nothing is a no-op
			}
			return &Diagnostic{Variable: key, Reason: "remove on non-list variable"}
		}
		for i, elem := range list {
			if elem.Equal(change.Value) {
				next := make([]story.Value, 0, len(list)-1)
				next = append(next, list[:i]...)
				next = append(next, list[i+1:]...)
				state.Variables[key] = story.List(next...)
				return nil
			}
		}
		return nil // element absent is a no-op, matching authored intent

	default:
		return &Diagnostic{Variable: key, Reason: "unknown change operation"}
	}
}
