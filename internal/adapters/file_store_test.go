package adapters_test

import (
	"context"
	"testing"

	"github.com/fablegraph/fable/internal/adapters"
	"github.com/fablegraph/fable/pkg/ports"
	"github.com/fablegraph/fable/pkg/story"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	store := adapters.NewFileStore(t.TempDir())
	ports.RunStateStoreContract(t, store)
}

func TestFileStore_EmptySessionID(t *testing.T) {
	store := adapters.NewFileStore(t.TempDir())
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, "", story.NewState("", "start", nil)))
	_, err := store.Load(ctx, "")
	assert.Error(t, err)
}

func TestFileStore_ListIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	store := adapters.NewFileStore(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "alpha", story.NewState("alpha", "start", nil)))
	writeFile(t, dir, "README.md", "not a session")

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, sessions)
}
