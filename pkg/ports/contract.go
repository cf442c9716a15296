package ports

import (
	"context"
	"testing"
	"time"

	"github.com/fablegraph/fable/pkg/story"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract verifies that a StateStore implementation honors
// the interface contract. Every adapter's test suite runs this.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := story.NewState(sessionID, "start", nil)
		state.Variables["hasKey"] = story.Bool(true)
		state.Variables["score"] = story.Number(7)
		state.Variables["inventory"] = story.List(story.Text("lamp"), story.Text("rope"))
		state.VisitedNodes = []string{"start"}
		state.ChoiceHistory = []string{"c1"}

		require.NoError(t, store.Save(ctx, sessionID, state))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, state.CurrentNodeID, loaded.CurrentNodeID)
		assert.Equal(t, story.StatusActive, loaded.Status)
		assert.True(t, loaded.Variables["hasKey"].Equal(story.Bool(true)))
		assert.True(t, loaded.Variables["score"].Equal(story.Number(7)))
		assert.True(t, loaded.Variables["inventory"].Equal(state.Variables["inventory"]))
		assert.Equal(t, state.VisitedNodes, loaded.VisitedNodes)
		assert.Equal(t, state.ChoiceHistory, loaded.ChoiceHistory)
	})

	t.Run("Stored state is isolated", func(t *testing.T) {
		state := story.NewState(sessionID, "start", nil)
		require.NoError(t, store.Save(ctx, sessionID, state))

		// Mutating the caller's copy after Save must not leak into the store.
		state.CurrentNodeID = "mutated"
		state.Variables["leak"] = story.Bool(true)

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "start", loaded.CurrentNodeID)
		_, leaked := loaded.Variables["leak"]
		assert.False(t, leaked)
	})

	t.Run("Load non-existent", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-"+sessionID)
		assert.ErrorIs(t, err, story.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, story.NewState(sessionID, "start", nil)))
		require.NoError(t, store.Delete(ctx, sessionID))

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, story.ErrSessionNotFound)

		// Deleting again is not an error.
		assert.NoError(t, store.Delete(ctx, sessionID))
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		require.NoError(t, store.Save(ctx, id1, story.NewState(id1, "start", nil)))
		require.NoError(t, store.Save(ctx, id2, story.NewState(id2, "start", nil)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
