package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	pq "github.com/lib/pq"

	"github.com/julianstephens/hybridmaster/internal/constants"
	"github.com/julianstephens/hybridmaster/internal/migration"
	"github.com/julianstephens/hybridmaster/internal/storage"
	"github.com/julianstephens/hybridmaster/migrations"
)

// Backend stores keys in the kv table of the application schema
type Backend struct {
	connStr string
	schema  string
	db      *sql.DB
}

func New(connStr string) *Backend {
	return &Backend{
		connStr: withSearchPath(connStr, constants.AppName),
		schema:  constants.AppName,
	}
}

func (b *Backend) connect() error {
	if b.db != nil {
		return nil
	}
	db, err := sql.Open("postgres", b.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		if _, ok := dsnParam(b.connStr, "sslmode"); !ok && strings.Contains(err.Error(), "SSL is not enabled on the server") {
			return fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	b.db = db
	return nil
}

func (b *Backend) Init() error {
	if err := b.connect(); err != nil {
		return err
	}
	if _, err := b.db.Exec("CREATE SCHEMA IF NOT EXISTS " + pq.QuoteIdentifier(b.schema)); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
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
	if err := b.connect(); err != nil {
		return err
	}
	runner, err := b.Runner()
	if err != nil {
		return err
	}
	return runner.Validate()
}

func (b *Backend) Close() error {
	if b.db != nil {
		err := b.db.Close()
		b.db = nil
		return err
	}
	return nil
}

// Runner returns a migration runner bound to the open connection
func (b *Backend) Runner() (*migration.Runner, error) {
	if b.db == nil {
		return nil, storage.ErrNotLoaded
	}
	sub, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return nil, fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	return migration.NewRunner(b.db, sub, migration.Postgres), nil
}

func (b *Backend) GetItem(key string) (string, bool, error) {
	if b.db == nil {
		return "", false, storage.ErrNotLoaded
	}
	var value string
	err := b.db.QueryRow("SELECT value FROM kv WHERE key = $1", key).Scan(&value)
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
	_, err := b.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, key, value)
	return err
}

func (b *Backend) RemoveItem(key string) error {
	if b.db == nil {
		return storage.ErrNotLoaded
	}
	_, err := b.db.Exec("DELETE FROM kv WHERE key = $1", key)
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
	// Return a non-sensitive identifier instead of the full connection string
	return "postgresql"
}
