package analysis

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryanv175/finance-dashboard-saksham/internal/domain"
)

func analysisOf(id, fileID string) *domain.Analysis {
	return &domain.Analysis{AnalysisID: id, FileID: fileID}
}

func TestMemoryStorePutGet(t *testing.T) {
	store, err := NewMemoryStore(4)
	require.NoError(t, err)
	ctx := context.Background()

	a := analysisOf("an-1", "file-1")
	require.NoError(t, store.Put(ctx, a))

	got, err := store.Get(ctx, "an-1")
	require.NoError(t, err)
	assert.Same(t, a, got)
}

func TestMemoryStoreWriteOnce(t *testing.T) {
	store, err := NewMemoryStore(4)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, analysisOf("an-1", "file-1")))
	assert.Error(t, store.Put(ctx, analysisOf("an-1", "file-2")))
}

func TestMemoryStoreGetUnknown(t *testing.T) {
	store, err := NewMemoryStore(4)
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "nope")
	var nfErr *domain.NotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "analysis", nfErr.Kind)
}

func TestMemoryStoreCapacityEviction(t *testing.T) {
	store, err := NewMemoryStore(2)
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("an-%d", i)
		require.NoError(t, store.Put(ctx, analysisOf(id, "file-1")))
	}

	// The least recently used entry is gone; the newest two remain.
	_, err = store.Get(ctx, "an-0")
	assert.Error(t, err)
	_, err = store.Get(ctx, "an-2")
	assert.NoError(t, err)
}

func TestMemoryStoreDeleteByFile(t *testing.T) {
	store, err := NewMemoryStore(8)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, analysisOf("an-1", "file-a")))
	require.NoError(t, store.Put(ctx, analysisOf("an-2", "file-a")))
	require.NoError(t, store.Put(ctx, analysisOf("an-3", "file-b")))

	removed, err := store.DeleteByFile(ctx, "file-a")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = store.Get(ctx, "an-1")
	assert.Error(t, err)
	_, err = store.Get(ctx, "an-3")
	assert.NoError(t, err)

	removed, err = store.DeleteByFile(ctx, "file-c")
	require.NoError(t, err)
	assert.Zero(t, removed)
}
