package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/coocood/freecache"
)

var _ Backend = (*MemoryBackend)(nil)

// DefaultMemoryCacheSize allows blobs up to 32 KiB. freecache allocates the
// whole cache up front and refuses entries bigger than 1/1024 of it.
const DefaultMemoryCacheSize = 32 * 1024 * 1024

const (
	// freecache never goes below 512 KiB
	minMemoryCacheSize = 512 * 1024
	// freecache entry header, counted against the entry limit
	memoryEntryHeaderSize = 24
)

// MemoryBackend keeps the blob in process memory only.
type MemoryBackend struct {
	cache     *freecache.Cache
	key       []byte
	cacheSize int
}

func NewMemoryBackend(cacheSize int, key string) *MemoryBackend {
	if cacheSize <= 0 {
		cacheSize = DefaultMemoryCacheSize
	}
	return &MemoryBackend{
		cache:     freecache.NewCache(cacheSize),
		key:       []byte(key),
		cacheSize: max(cacheSize, minMemoryCacheSize),
	}
}

// MaxBlobSize is the biggest blob Write accepts.
func (b *MemoryBackend) MaxBlobSize() int {
	return b.cacheSize/1024 - memoryEntryHeaderSize - len(b.key)
}

func (b *MemoryBackend) Name() string {
	return "memory"
}

func (b *MemoryBackend) Read(_ context.Context) ([]byte, error) {
	blob, err := b.cache.Get(b.key)
	if errors.Is(err, freecache.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return blob, nil
}

func (b *MemoryBackend) Write(_ context.Context, blob []byte) error {
	err := b.cache.Set(b.key, blob, 0)
	if errors.Is(err, freecache.ErrLargeEntry) {
		return fmt.Errorf(
			"state of %d bytes is over the memory backend limit of %d bytes, raise memory_cache_size: %w",
			len(blob), b.MaxBlobSize(), err,
		)
	}
	if err != nil {
		return fmt.Errorf("cache set (%d bytes): %w", len(blob), err)
	}
	return nil
}
