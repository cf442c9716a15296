package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fablegraph/fable/pkg/story"
)

func testGraph() *story.Graph {
	return story.NewGraph([]story.Node{
		{
			ID:    "camp",
			Start: true,
			Choices: []story.Choice{
				{
					ID: "scout", Text: "Scout ahead", TargetNodeID: "ridge",
					StateChanges: map[string]story.StateChange{"scouted": story.Set(story.Bool(true))},
				},
				{
					ID: "sneak", Text: "Sneak past", TargetNodeID: "ridge",
					Conditions: []story.Condition{
						{Variable: "scouted", Operator: story.OpEq, Value: story.Bool(true)},
					},
				},
				{ID: "give-up", Text: "Give up"},
			},
		},
		{
			ID: "ridge",
			Choices: []story.Choice{
				{ID: "descend", Text: "Descend", TargetNodeID: "valley"},
			},
		},
		{ID: "valley", End: true},
	})
}

func TestEngineStart(t *testing.T) {
	eng := NewEngine(testGraph(), WithSeedVariables(map[string]story.Value{
		"gold": story.Number(3),
	}))

	state, err := eng.Start("s1")
	require.NoError(t, err)
	assert.Equal(t, "camp", state.CurrentNodeID)
	assert.Equal(t, story.StatusActive, state.Status)
	gold, _ := state.Variables["gold"].Number()
	assert.Equal(t, 3.0, gold)
}

func TestEngineStartWithoutStartNode(t *testing.T) {
	eng := NewEngine(story.NewGraph([]story.Node{{ID: "a"}}))
	_, err := eng.Start("s1")
	assert.ErrorIs(t, err, story.ErrNoStartNode)
}

func TestAvailableChoicesFiltersGuards(t *testing.T) {
	eng := NewEngine(testGraph())
	state, err := eng.Start("s1")
	require.NoError(t, err)

	// "sneak" is guarded on a variable that is not set yet.
	ids := choiceIDs(eng.AvailableChoices(state))
	assert.Equal(t, []string{"scout", "give-up"}, ids)

	// Idempotent: repeated queries return the same sequence.
	assert.Equal(t, ids, choiceIDs(eng.AvailableChoices(state)))

	// After scouting, the guard passes and authored order is preserved.
	state, err = eng.Advance(state, "scout")
	require.NoError(t, err)
	state.CurrentNodeID = "camp" // back at camp for the sake of the guard
	assert.Equal(t, []string{"scout", "sneak", "give-up"}, choiceIDs(eng.AvailableChoices(state)))
}

func TestAdvanceDeterminism(t *testing.T) {
	eng := NewEngine(testGraph())
	state, err := eng.Start("s1")
	require.NoError(t, err)

	a, err := eng.Advance(state, "scout")
	require.NoError(t, err)
	b, err := eng.Advance(state, "scout")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestAdvanceRejectsUnavailableChoice(t *testing.T) {
	eng := NewEngine(testGraph())
	state, err := eng.Start("s1")
	require.NoError(t, err)

	// Guarded choice whose condition is unmet.
	_, err = eng.Advance(state, "sneak")
	var illegal *IllegalChoiceError
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, "sneak", illegal.ChoiceID)
	assert.Equal(t, "camp", illegal.NodeID)

	// Choice from a different node (stale after reload).
	_, err = eng.Advance(state, "descend")
	assert.ErrorAs(t, err, &illegal)

	// Unknown choice.
	_, err = eng.Advance(state, "fly")
	assert.ErrorAs(t, err, &illegal)

	// Rejections never mutate the input.
	assert.Equal(t, "camp", state.CurrentNodeID)
	assert.Empty(t, state.ChoiceHistory)
}

func TestTerminalChoiceFinishes(t *testing.T) {
	eng := NewEngine(testGraph())
	state, err := eng.Start("s1")
	require.NoError(t, err)

	state, err = eng.Advance(state, "give-up")
	require.NoError(t, err)
	assert.True(t, state.Finished())
	assert.Equal(t, "camp", state.CurrentNodeID, "terminal choice ends in place")
}

func TestEndNodeFinishes(t *testing.T) {
	eng := NewEngine(testGraph())
	state, err := eng.Start("s1")
	require.NoError(t, err)

	state, err = eng.Advance(state, "scout")
	require.NoError(t, err)
	assert.False(t, state.Finished())

	state, err = eng.Advance(state, "descend")
	require.NoError(t, err)
	assert.True(t, state.Finished(), "arriving at an ending node finishes the playthrough")
	assert.Equal(t, "valley", state.CurrentNodeID)
}

// Finished is absorbing: no choices, and every advance is rejected.
func TestFinishedStateIsAbsorbing(t *testing.T) {
	eng := NewEngine(testGraph())
	state, err := eng.Start("s1")
	require.NoError(t, err)
	state, err = eng.Advance(state, "give-up")
	require.NoError(t, err)

	assert.Nil(t, eng.AvailableChoices(state))

	_, err = eng.Advance(state, "scout")
	var illegal *IllegalChoiceError
	require.ErrorAs(t, err, &illegal)
	assert.Contains(t, illegal.Reason, "finished")
}

// One engine, many sessions: playthroughs never observe each other.
func TestSessionsAreIndependent(t *testing.T) {
	eng := NewEngine(testGraph())

	first, err := eng.Start("first")
	require.NoError(t, err)
	second, err := eng.Start("second")
	require.NoError(t, err)

	first, err = eng.Advance(first, "scout")
	require.NoError(t, err)

	assert.Equal(t, "ridge", first.CurrentNodeID)
	assert.Equal(t, "camp", second.CurrentNodeID)
	assert.True(t, second.Variables["scouted"].IsNil())
}

func choiceIDs(choices []story.Choice) []string {
	ids := make([]string, 0, len(choices))
	for _, c := range choices {
		ids = append(ids, c.ID)
	}
	return ids
}
