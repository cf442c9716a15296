package fable_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fablegraph/fable"
	"github.com/fablegraph/fable/pkg/story"
)

const forestStory = `
title: The Whispering Forest
nodes:
  - id: edge
    isStart: true
    title: Forest Edge
    content: The trees whisper your name.
    choices:
      - id: enter
        text: Walk in
        targetNodeId: clearing
        stateChanges:
          courage:
            op: add
            value: 1
      - id: listen
        text: Listen first
        targetNodeId: clearing
        stateChanges:
          heard_whispers: true
  - id: clearing
    title: The Clearing
    content: A ring of stones hums softly.
    choices:
      - id: touch
        text: Touch the stones
        targetNodeId: heart
        conditions:
          - variable: heard_whispers
            operator: eq
            value: true
      - id: walk-on
        text: Keep walking
        targetNodeId: heart
  - id: heart
    isEnd: true
    title: Heart of the Forest
    content: The whispers fall silent.
`

func writeStory(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "story.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewAndPlay(t *testing.T) {
	eng, err := fable.New(writeStory(t, forestStory))
	require.NoError(t, err)
	assert.Equal(t, "The Whispering Forest", eng.Project().Title)

	state, err := eng.NewPlaythrough("walker")
	require.NoError(t, err)
	assert.Equal(t, "edge", state.CurrentNodeID)

	state, err = eng.Advance(state, "listen")
	require.NoError(t, err)

	// The guarded choice is available because we listened.
	choices := eng.AvailableChoices(state)
	require.Len(t, choices, 2)
	assert.Equal(t, "touch", choices[0].ID)

	state, err = eng.Advance(state, "touch")
	require.NoError(t, err)
	assert.True(t, state.Finished())

	node, ok := eng.CurrentNode(state)
	require.True(t, ok)
	assert.Equal(t, "Heart of the Forest", node.Title)
}

func TestGuardHidesChoice(t *testing.T) {
	eng, err := fable.New(writeStory(t, forestStory))
	require.NoError(t, err)

	state, err := eng.NewPlaythrough("runner")
	require.NoError(t, err)

	state, err = eng.Advance(state, "enter")
	require.NoError(t, err)

	choices := eng.AvailableChoices(state)
	require.Len(t, choices, 1)
	assert.Equal(t, "walk-on", choices[0].ID)

	_, err = eng.Advance(state, "touch")
	var illegal *fable.IllegalChoiceError
	assert.ErrorAs(t, err, &illegal)
}

func TestNewRejectsBrokenGraph(t *testing.T) {
	broken := `
nodes:
  - id: a
    isStart: true
    content: x
    choices:
      - id: off
        text: off the map
        targetNodeId: nowhere
`
	_, err := fable.New(writeStory(t, broken))
	assert.ErrorContains(t, err, "graph validation failed")
}

func TestWithAdvisoryUnreachable(t *testing.T) {
	island := `
nodes:
  - id: a
    isStart: true
    isEnd: true
    content: short
  - id: island
    content: unreachable draft
`
	_, err := fable.New(writeStory(t, island))
	require.Error(t, err)

	eng, err := fable.New(writeStory(t, island), fable.WithAdvisoryUnreachable())
	require.NoError(t, err)

	report := eng.Validate()
	assert.False(t, report.Blocking())
	assert.Len(t, report.Warnings(), 1)
}

func TestWithSeedVariables(t *testing.T) {
	project, err := story.DecodeProject([]byte(forestStory))
	require.NoError(t, err)

	eng, err := fable.FromProject(project, fable.WithSeedVariables(map[string]story.Value{
		"courage": story.Number(10),
	}))
	require.NoError(t, err)

	state, err := eng.NewPlaythrough("brave")
	require.NoError(t, err)

	state, err = eng.Advance(state, "enter")
	require.NoError(t, err)
	courage, _ := state.Variables["courage"].Number()
	assert.Equal(t, 11.0, courage)
}

func TestWithoutValidation(t *testing.T) {
	broken := `
nodes:
  - id: a
    isStart: true
    content: x
    choices:
      - id: off
        text: off the map
        targetNodeId: nowhere
`
	eng, err := fable.New(writeStory(t, broken), fable.WithoutValidation())
	require.NoError(t, err)

	report := eng.Validate()
	assert.True(t, report.Blocking())
}
