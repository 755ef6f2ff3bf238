package store_test

import (
	"context"
	"strings"
	"testing"

	"github.com/2beens/gympro/internal/workouts/store"

	"github.com/coocood/freecache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBackend(t *testing.T) {
	b := store.NewMemoryBackend(10*1024*1024, "state")

	_, err := b.Read(context.Background())
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, b.Write(context.Background(), []byte("blob-1")))
	blob, err := b.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "blob-1", string(blob))
}

func TestMemoryBackend_EntryTooLarge(t *testing.T) {
	// 1 MiB cache fits entries up to 1 KiB
	b := store.NewMemoryBackend(1024*1024, "state")
	assert.Equal(t, 1024-24-len("state"), b.MaxBlobSize())

	err := b.Write(context.Background(), []byte(strings.Repeat("x", 4096)))
	require.ErrorIs(t, err, freecache.ErrLargeEntry)
	assert.Contains(t, err.Error(), "memory_cache_size")

	_, err = b.Read(context.Background())
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, b.Write(context.Background(), []byte(strings.Repeat("x", b.MaxBlobSize()))))
	require.ErrorIs(t, b.Write(context.Background(), []byte(strings.Repeat("x", b.MaxBlobSize()+1))), freecache.ErrLargeEntry)
}

func TestMemoryBackend_DefaultSize(t *testing.T) {
	b := store.NewMemoryBackend(0, "state")
	assert.Equal(t, store.DefaultMemoryCacheSize/1024-24-len("state"), b.MaxBlobSize())

	// freecache rounds small caches up to 512 KiB
	b = store.NewMemoryBackend(1024, "state")
	assert.Equal(t, 512-24-len("state"), b.MaxBlobSize())
}
