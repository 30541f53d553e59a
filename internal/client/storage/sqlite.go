package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const (
	keyPrincipal = "principal"
	keyToken     = "token"
)

// SQLiteStorage keeps the credential slots in a local SQLite database.
type SQLiteStorage struct {
	db *sql.DB
}

// Open opens (creating if needed) the credential database at dsn.
func Open(ctx context.Context, dsn string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open credential db: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS credentials (
			key   TEXT PRIMARY KEY,
			value BLOB NOT NULL
		)`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init credential db: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// NewSQLiteStorage wraps an already opened database. The credentials table
// must exist.
func NewSQLiteStorage(db *sql.DB) *SQLiteStorage {
	return &SQLiteStorage{db: db}
}

func (s *SQLiteStorage) get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM credentials WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get credentials[%s]: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStorage) Load(ctx context.Context) ([]byte, string, error) {
	principal, err := s.get(ctx, keyPrincipal)
	if err != nil {
		return nil, "", err
	}
	token, err := s.get(ctx, keyToken)
	if err != nil {
		return nil, "", err
	}
	return principal, string(token), nil
}

func (s *SQLiteStorage) Save(ctx context.Context, principal []byte, token string) error {
	for key, value := range map[string][]byte{
		keyPrincipal: principal,
		keyToken:     []byte(token),
	} {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO credentials (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, key, value)
		if err != nil {
			return fmt.Errorf("set credentials[%s]: %w", key, err)
		}
	}
	return nil
}

func (s *SQLiteStorage) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM credentials`); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
