package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// JSONBackend keeps every key in a single JSON object file.
type JSONBackend struct {
	path  string
	mu    sync.RWMutex
	items map[string]string
}

func NewJSONBackend(configPath string) *JSONBackend {
	return &JSONBackend{path: configPath}
}

func (b *JSONBackend) Init() error {
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(b.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", b.path)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = make(map[string]string)
	return b.flush()
}

func (b *JSONBackend) Load() error {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'hybridmaster init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	items := make(map[string]string)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("failed to parse storage: %w", err)
		}
	}

	b.mu.Lock()
	b.items = items
	b.mu.Unlock()
	return nil
}

func (b *JSONBackend) Close() error {
	return nil
}

// flush writes the file through a temp file so a crash never truncates it.
// Callers hold the write lock.
func (b *JSONBackend) flush() error {
	data, err := json.MarshalIndent(b.items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, b.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}

func (b *JSONBackend) GetItem(key string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.items == nil {
		return "", false, ErrNotLoaded
	}
	v, ok := b.items[key]
	return v, ok, nil
}

func (b *JSONBackend) SetItem(key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.items == nil {
		return ErrNotLoaded
	}
	prev, existed := b.items[key]
	b.items[key] = value
	if err := b.flush(); err != nil {
		if existed {
			b.items[key] = prev
		} else {
			delete(b.items, key)
		}
		return err
	}
	return nil
}

func (b *JSONBackend) RemoveItem(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.items == nil {
		return ErrNotLoaded
	}
	prev, ok := b.items[key]
	if !ok {
		return nil
	}
	delete(b.items, key)
	if err := b.flush(); err != nil {
		b.items[key] = prev
		return err
	}
	return nil
}

func (b *JSONBackend) Keys() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.items == nil {
		return nil, ErrNotLoaded
	}
	keys := make([]string, 0, len(b.items))
	for k := range b.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (b *JSONBackend) GetConfigPath() string {
	return b.path
}
