package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/hybridmaster/internal/migration"
	"github.com/julianstephens/hybridmaster/internal/storage"
	"github.com/julianstephens/hybridmaster/migrations"
)

// Backend stores keys in the kv table of a local SQLite file
type Backend struct {
	path string
	db   *sql.DB
}

func New(path string) *Backend {
	return &Backend{path: path}
}

func (b *Backend) Init() error {
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := b.open(); err != nil {
		return err
	}

	runner, err := b.Runner()
	if err != nil {
		return err
	}
	if _, err := runner.Apply(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (b *Backend) Load() error {
	if b.db != nil {
		return nil
	}
	if _, err := os.Stat(b.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'hybridmaster init' first")
	}
	if err := b.open(); err != nil {
		return err
	}

	runner, err := b.Runner()
	if err != nil {
		return err
	}
	if err := runner.Validate(); err != nil {
		return err
	}
	// Databases created by older releases are upgraded in place.
	if _, err := runner.Apply(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (b *Backend) open() error {
	if b.db != nil {
		return nil
	}
	db, err := sql.Open("sqlite", b.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps writes serialized, matching the single
	// writer model of the store.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return fmt.Errorf("failed to configure database: %w", err)
	}
	b.db = db
	return nil
}

func (b *Backend) Close() error {
	if b.db != nil {
		err := b.db.Close()
		b.db = nil
		return err
	}
	return nil
}

// Runner returns a migration runner bound to the open database
func (b *Backend) Runner() (*migration.Runner, error) {
	if b.db == nil {
		return nil, storage.ErrNotLoaded
	}
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(b.db, sub, migration.SQLite), nil
}

func (b *Backend) GetItem(key string) (string, bool, error) {
	if b.db == nil {
		return "", false, storage.ErrNotLoaded
	}
	var value string
	err := b.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (b *Backend) SetItem(key, value string) error {
	if b.db == nil {
		return storage.ErrNotLoaded
	}
	_, err := b.db.Exec(
		"INSERT OR REPLACE INTO kv (key, value, updated_at) VALUES (?, ?, ?)",
		key, value, time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

func (b *Backend) RemoveItem(key string) error {
	if b.db == nil {
		return storage.ErrNotLoaded
	}
	_, err := b.db.Exec("DELETE FROM kv WHERE key = ?", key)
	return err
}

func (b *Backend) Keys() ([]string, error) {
	if b.db == nil {
		return nil, storage.ErrNotLoaded
	}
	rows, err := b.db.Query("SELECT key FROM kv ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (b *Backend) GetConfigPath() string {
	return b.path
}

// GetDB returns the underlying connection, nil before Init or Load
func (b *Backend) GetDB() *sql.DB {
	return b.db
}
