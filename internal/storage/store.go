package storage

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/multierr"

	"github.com/julianstephens/hybridmaster/internal/constants"
	"github.com/julianstephens/hybridmaster/internal/logger"
)

// Store is a namespaced JSON key/value store over a Backend. Its methods
// never return errors: failures are logged and reported as false or as the
// caller's default value.
type Store struct {
	backend   Backend
	prefix    string
	available bool
	now       func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithPrefix overrides the namespace prefix
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// WithClock overrides the clock used for timestamps and staleness
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New wraps a loaded backend and probes it once with a write and a delete.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		prefix:  constants.StoragePrefix,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.available = s.probe()
	return s
}

func (s *Store) probe() bool {
	if s.backend == nil {
		return false
	}
	key := s.prefix + constants.StorageProbeKey
	if err := s.backend.SetItem(key, key); err != nil {
		logger.Warn("storage unavailable, running without persistence", "backend", s.backend.GetConfigPath(), "error", err)
		return false
	}
	if err := s.backend.RemoveItem(key); err != nil {
		logger.Warn("storage unavailable, running without persistence", "backend", s.backend.GetConfigPath(), "error", err)
		return false
	}
	return true
}

// Available reports the result of the construction probe
func (s *Store) Available() bool {
	return s != nil && s.available
}

// Backend returns the underlying backend
func (s *Store) Backend() Backend {
	return s.backend
}

// Save encodes value as JSON under key
func (s *Store) Save(key string, value any) bool {
	if !s.Available() {
		return false
	}
	data, err := json.Marshal(value)
	if err != nil {
		logger.Error("failed to encode value", "key", key, "error", err)
		return false
	}
	if err := s.backend.SetItem(s.prefix+key, string(data)); err != nil {
		logger.Error("failed to save value", "key", key, "error", err)
		return false
	}
	return true
}

// Load decodes the value stored under key, returning def when the store is
// unavailable, the key is missing, or the stored JSON does not decode into T.
func Load[T any](s *Store, key string, def T) T {
	raw, ok := s.raw(key)
	if !ok {
		return def
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		logger.Warn("discarding undecodable value", "key", key, "error", err)
		return def
	}
	return v
}

func (s *Store) raw(key string) (string, bool) {
	if !s.Available() {
		return "", false
	}
	raw, ok, err := s.backend.GetItem(s.prefix + key)
	if err != nil {
		logger.Error("failed to read value", "key", key, "error", err)
		return "", false
	}
	return raw, ok
}

// Has reports whether key is stored
func (s *Store) Has(key string) bool {
	_, ok := s.raw(key)
	return ok
}

// Remove deletes key
func (s *Store) Remove(key string) bool {
	if !s.Available() {
		return false
	}
	if err := s.backend.RemoveItem(s.prefix + key); err != nil {
		logger.Error("failed to remove value", "key", key, "error", err)
		return false
	}
	return true
}

// Clear removes every key under the namespace prefix. Keys written by other
// applications sharing the backend are left alone.
func (s *Store) Clear() bool {
	if !s.Available() {
		return false
	}
	keys, err := s.backend.Keys()
	if err != nil {
		logger.Error("failed to list keys", "error", err)
		return false
	}
	var errs error
	for _, k := range keys {
		if strings.HasPrefix(k, s.prefix) {
			errs = multierr.Append(errs, s.backend.RemoveItem(k))
		}
	}
	if errs != nil {
		logger.Error("failed to clear storage", "errors", len(multierr.Errors(errs)), "error", errs)
		return false
	}
	return true
}

// Keys returns the short keys under the namespace, sorted
func (s *Store) Keys() []string {
	if !s.Available() {
		return nil
	}
	keys, err := s.backend.Keys()
	if err != nil {
		logger.Error("failed to list keys", "error", err)
		return nil
	}
	var out []string
	for _, k := range keys {
		if short, ok := strings.CutPrefix(k, s.prefix); ok && short != constants.StorageProbeKey {
			out = append(out, short)
		}
	}
	sort.Strings(out)
	return out
}

// ExportAll returns every stored value as raw JSON keyed by short key
func (s *Store) ExportAll() map[string]string {
	out := make(map[string]string)
	for _, k := range s.Keys() {
		if raw, ok := s.raw(k); ok {
			out[k] = raw
		}
	}
	return out
}

// ImportAll writes raw values produced by ExportAll back under the namespace.
// Values are not re-validated.
func (s *Store) ImportAll(data map[string]string) bool {
	if !s.Available() {
		return false
	}
	var errs error
	for k, v := range data {
		errs = multierr.Append(errs, s.backend.SetItem(s.prefix+k, v))
	}
	if errs != nil {
		logger.Error("failed to import data", "errors", len(multierr.Errors(errs)), "error", errs)
		return false
	}
	return true
}

// Size is the number of bytes taken by namespaced keys and values
func (s *Store) Size() int {
	total := 0
	for k, v := range s.ExportAll() {
		total += len(s.prefix) + len(k) + len(v)
	}
	return total
}

// SizeFormatted renders Size for humans, e.g. "4.1 kB"
func (s *Store) SizeFormatted() string {
	return humanize.Bytes(uint64(s.Size()))
}

func (s *Store) nowMillis() int64 {
	return s.now().UnixMilli()
}
