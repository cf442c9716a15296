package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fablegraph/fable/internal/adapters/sqlite"
	"github.com/fablegraph/fable/pkg/ports"
	"github.com/fablegraph/fable/pkg/story"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "fable.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, newTestStore(t))
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fable.db")
	ctx := context.Background()

	store, err := sqlite.Open(path)
	require.NoError(t, err)

	state := story.NewState("persist", "cave", map[string]story.Value{
		"torch": story.Bool(true),
	})
	require.NoError(t, store.Save(ctx, "persist", state))
	require.NoError(t, store.Close())

	reopened, err := sqlite.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load(ctx, "persist")
	require.NoError(t, err)
	assert.Equal(t, "cave", loaded.CurrentNodeID)
	torch, ok := loaded.Variables["torch"].Bool()
	require.True(t, ok)
	assert.True(t, torch)
}
