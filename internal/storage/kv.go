// Package storage persists application state in a local SQLite database.
//
// The tracker's persisted form is deliberately a key-value store holding
// whole serialized blobs (the record list as one JSON array, the theme
// preference as one string), last-write-wins. There is no row-level schema
// for records; the in-memory store is authoritative.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	applog "kharcha/internal/log"

	_ "modernc.org/sqlite"
)

// KV is a SQLite-backed key-value store.
type KV struct {
	db  *sql.DB
	log *applog.Logger
}

// New opens (creating if needed) the database at dbPath and runs migrations.
func New(dbPath string, logger *applog.Logger) (*KV, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &KV{
		db:  db,
		log: logger.WithComponent(applog.ComponentStorage),
	}, nil
}

func (k *KV) Close() error {
	if k.db != nil {
		return k.db.Close()
	}
	return nil
}

// Get returns the value stored under key. The second return is false when
// the key has never been written.
func (k *KV) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := k.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Put writes value under key, replacing any previous value.
func (k *KV) Put(ctx context.Context, key, value string) error {
	_, err := k.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	k.log.DebugContext(ctx, "Blob written", applog.FieldStorageKey, key, "bytes", len(value))
	return nil
}
