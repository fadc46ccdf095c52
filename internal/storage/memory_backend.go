package storage

import (
	"errors"
	"fmt"
	"sort"

	"github.com/coocood/freecache"
)

// DefaultMemorySize bounds a single entry at 256KB, since freecache caps an
// entry at 1/1024 of the cache size. A full 26 week history including home
// sessions stays well under that. Larger values fail with ErrQuotaExceeded.
const DefaultMemorySize = 256 * 1024 * 1024

// MemoryBackend is an ephemeral backend for --ephemeral sessions and tests.
// Nothing survives the process.
type MemoryBackend struct {
	cache *freecache.Cache
}

// NewMemoryBackend allocates a cache of size bytes (freecache enforces a 512KB minimum)
func NewMemoryBackend(size int) *MemoryBackend {
	if size <= 0 {
		size = DefaultMemorySize
	}
	return &MemoryBackend{cache: freecache.NewCache(size)}
}

func (b *MemoryBackend) Init() error  { return nil }
func (b *MemoryBackend) Load() error  { return nil }
func (b *MemoryBackend) Close() error { return nil }

func (b *MemoryBackend) GetItem(key string) (string, bool, error) {
	v, err := b.cache.Get([]byte(key))
	if errors.Is(err, freecache.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(v), true, nil
}

func (b *MemoryBackend) SetItem(key, value string) error {
	err := b.cache.Set([]byte(key), []byte(value), 0)
	if errors.Is(err, freecache.ErrLargeEntry) || errors.Is(err, freecache.ErrLargeKey) {
		return fmt.Errorf("%w: %d bytes for %s", ErrQuotaExceeded, len(value), key)
	}
	return err
}

func (b *MemoryBackend) RemoveItem(key string) error {
	b.cache.Del([]byte(key))
	return nil
}

func (b *MemoryBackend) Keys() ([]string, error) {
	var keys []string
	it := b.cache.NewIterator()
	for e := it.Next(); e != nil; e = it.Next() {
		keys = append(keys, string(e.Key))
	}
	sort.Strings(keys)
	return keys, nil
}

func (b *MemoryBackend) GetConfigPath() string {
	return "memory"
}
