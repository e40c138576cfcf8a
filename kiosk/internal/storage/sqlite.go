package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const (
	BucketLocal   = "local"
	BucketSession = "session"
)

// SQLiteStore keeps every bucket in one kv table of a single database file.
type SQLiteStore struct {
	db  *sql.DB
	ctx context.Context
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, ctx: context.Background()}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) ensureSchema() error {
	_, err := s.db.ExecContext(s.ctx, `
		CREATE TABLE IF NOT EXISTS kv (
			bucket     TEXT NOT NULL,
			key        TEXT NOT NULL,
			value      BLOB NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (bucket, key)
		)`)
	if err != nil {
		return fmt.Errorf("failed to create kv table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Bucket returns a KV view restricted to one bucket.
func (s *SQLiteStore) Bucket(name string) *Bucket {
	return &Bucket{store: s, name: name}
}

func (s *SQLiteStore) Local() *Bucket   { return s.Bucket(BucketLocal) }
func (s *SQLiteStore) Session() *Bucket { return s.Bucket(BucketSession) }

type Bucket struct {
	store *SQLiteStore
	name  string
}

func (b *Bucket) Get(key string) ([]byte, error) {
	var value []byte
	err := b.store.db.QueryRowContext(b.store.ctx,
		`SELECT value FROM kv WHERE bucket = ? AND key = ?`, b.name, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s: %w", b.name, key, err)
	}
	return value, nil
}

func (b *Bucket) Set(key string, value []byte) error {
	_, err := b.store.db.ExecContext(b.store.ctx, `
		INSERT INTO kv (bucket, key, value, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(bucket, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`, b.name, key, value)
	if err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", b.name, key, err)
	}
	return nil
}

func (b *Bucket) Delete(key string) error {
	if _, err := b.store.db.ExecContext(b.store.ctx,
		`DELETE FROM kv WHERE bucket = ? AND key = ?`, b.name, key); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", b.name, key, err)
	}
	return nil
}

var _ KV = (*Bucket)(nil)
