package snapshot

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/codegraphlabs/semcore/ir"
)

func TestStore_SaveThenLoadRoundTrips(t *testing.T) {
	doc := docWithNode("a.go", "node-1")
	snap := New("repo1", []*ir.Document{doc}, time.Now().UTC())

	store := NewStore(filepath.Join(t.TempDir(), "snapshots"))
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, snap))

	loaded, err := store.Load(ctx, snap.ID)
	require.NoError(t, err)
	require.Equal(t, snap.ID, loaded.ID)
	require.Equal(t, snap.RepoID, loaded.RepoID)
	require.Equal(t, snap.GlobalHash, loaded.GlobalHash)
	require.Len(t, loaded.Docs, 1)
	require.Equal(t, "a.go", loaded.Docs[0].Meta.SourceFile)
	require.NotNil(t, loaded.Graph)
}

func TestStore_LoadUnknownSnapshotFails(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "snapshots"))
	_, err := store.Load(context.Background(), "does-not-exist")
	require.Error(t, err)
}
