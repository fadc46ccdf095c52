package storage

import "errors"

var (
	// ErrNotLoaded is returned by backends used before Init or Load
	ErrNotLoaded = errors.New("storage not loaded")
	// ErrQuotaExceeded is returned when a backend cannot hold a value
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// Backend is the synchronous key/value API the Store persists through.
// Backends know nothing about the namespace prefix or value encoding.
type Backend interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
	Keys() ([]string, error)

	// GetConfigPath returns a non-sensitive description of where data lives
	GetConfigPath() string
}
