package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fablegraph/fable/pkg/story"
)

func choiceWith(changes map[string]story.StateChange) story.Choice {
	return story.Choice{ID: "go", TargetNodeID: "next", StateChanges: changes}
}

func TestApplyChoiceIsPure(t *testing.T) {
	state := stateWith(map[string]story.Value{"gold": story.Number(10)})
	choice := choiceWith(map[string]story.StateChange{
		"gold": story.Add(5),
	})

	next, diags := ApplyChoice(state, choice)
	assert.Empty(t, diags)

	// Input untouched.
	gold, _ := state.Variables["gold"].Number()
	assert.Equal(t, 10.0, gold)
	assert.Equal(t, "node", state.CurrentNodeID)
	assert.Empty(t, state.ChoiceHistory)

	// Output advanced.
	nextGold, _ := next.Variables["gold"].Number()
	assert.Equal(t, 15.0, nextGold)
	assert.Equal(t, "next", next.CurrentNodeID)
	assert.Equal(t, []string{"node"}, next.VisitedNodes)
	assert.Equal(t, []string{"go"}, next.ChoiceHistory)

	// Deterministic: same inputs, same output.
	again, _ := ApplyChoice(state, choice)
	assert.Equal(t, next, again)
}

func TestApplyChangeOps(t *testing.T) {
	tests := []struct {
		name    string
		initial story.Value
		change  story.StateChange
		want    story.Value
	}{
		{"set replaces", story.Number(1), story.Set(story.Text("x")), story.Text("x")},
		{"add", story.Number(2), story.Add(3), story.Number(5)},
		{"add seeds missing at zero", story.Value{}, story.Add(3), story.Number(3)},
		{"subtract", story.Number(10), story.StateChange{Op: story.ChangeSubtract, Value: story.Number(4)}, story.Number(6)},
		{"multiply", story.Number(3), story.StateChange{Op: story.ChangeMultiply, Value: story.Number(4)}, story.Number(12)},
		{"multiply missing is zero", story.Value{}, story.StateChange{Op: story.ChangeMultiply, Value: story.Number(4)}, story.Number(0)},
		{"append", story.List(story.Text("a")), story.StateChange{Op: story.ChangeAppend, Value: story.Text("b")}, story.List(story.Text("a"), story.Text("b"))},
		{"append seeds missing", story.Value{}, story.StateChange{Op: story.ChangeAppend, Value: story.Text("a")}, story.List(story.Text("a"))},
		{"remove first match", story.List(story.Number(1), story.Number(2), story.Number(1)), story.StateChange{Op: story.ChangeRemove, Value: story.Number(1)}, story.List(story.Number(2), story.Number(1))},
		{"remove absent is no-op", story.List(story.Number(1)), story.StateChange{Op: story.ChangeRemove, Value: story.Number(9)}, story.List(story.Number(1))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars := map[string]story.Value{}
			if !tt.initial.IsNil() {
				vars["v"] = tt.initial
			}
			state := stateWith(vars)

			next, diags := ApplyChoice(state, choiceWith(map[string]story.StateChange{"v": tt.change}))
			assert.Empty(t, diags)
			assert.True(t, next.Variables["v"].Equal(tt.want),
				"got %s, want %s", next.Variables["v"], tt.want)
		})
	}
}

// A malformed entry is skipped; the rest of the revision still applies.
func TestApplyChoiceFailSoft(t *testing.T) {
	state := stateWith(map[string]story.Value{
		"name": story.Text("Ada"),
		"gold": story.Number(5),
	})
	choice := choiceWith(map[string]story.StateChange{
		"name": story.Add(1), // numeric op on a string: skipped
		"gold": story.Add(1),
	})

	next, diags := ApplyChoice(state, choice)
	require.Len(t, diags, 1)
	assert.Equal(t, "name", diags[0].Variable)

	name, _ := next.Variables["name"].Text()
	assert.Equal(t, "Ada", name, "failed entry leaves the variable untouched")
	gold, _ := next.Variables["gold"].Number()
	assert.Equal(t, 6.0, gold, "other entries still apply")
}

func TestApplyChoiceDiagnosticOrderIsStable(t *testing.T) {
	state := stateWith(map[string]story.Value{
		"b": story.Text("x"),
		"a": story.Text("y"),
	})
	choice := choiceWith(map[string]story.StateChange{
		"b": story.Add(1),
		"a": story.Add(1),
	})

	_, diags := ApplyChoice(state, choice)
	require.Len(t, diags, 2)
	assert.Equal(t, "a", diags[0].Variable)
	assert.Equal(t, "b", diags[1].Variable)
}

func TestApplyTerminalChoiceKeepsPosition(t *testing.T) {
	state := stateWith(nil)
	terminal := story.Choice{ID: "quit"}

	next, _ := ApplyChoice(state, terminal)
	assert.Equal(t, "node", next.CurrentNodeID, "terminal choices do not move the session")
	assert.Equal(t, []string{"quit"}, next.ChoiceHistory)
}

// Appending to a shared list payload must not leak into earlier snapshots.
func TestAppendIsCopyOnWrite(t *testing.T) {
	state := stateWith(map[string]story.Value{
		"log": story.List(story.Text("first")),
	})
	appendEntry := choiceWith(map[string]story.StateChange{
		"log": story.StateChange{Op: story.ChangeAppend, Value: story.Text("second")},
	})

	next, _ := ApplyChoice(state, appendEntry)
	_, _ = ApplyChoice(next, choiceWith(map[string]story.StateChange{
		"log": story.StateChange{Op: story.ChangeAppend, Value: story.Text("third")},
	}))

	list, _ := next.Variables["log"].List()
	assert.Len(t, list, 2, "later appends must not mutate earlier snapshots")

	original, _ := state.Variables["log"].List()
	assert.Len(t, original, 1)
}
