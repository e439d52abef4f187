package gitsource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Placeholder styles.
const (
	PlaceholderQuestion = iota
	PlaceholderDollar
)

// SQLStore keeps the cache in three tables. It serves both SQLite and
// Postgres.
type SQLStore struct {
	db          *sql.DB
	placeholder int
}

// NewSQLStore wraps an open database and creates the cache tables.
func NewSQLStore(ctx context.Context, db *sql.DB, placeholder int) (*SQLStore, error) {
	s := &SQLStore{db: db, placeholder: placeholder}
	if err := s.migrate(ctx); err != nil {
		return nil, fmt.Errorf("gitsource: migrate cache: %w", err)
	}
	return s, nil
}

// OpenSQLiteStore opens or creates a SQLite cache file.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	s, err := NewSQLStore(ctx, db, PlaceholderQuestion)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// OpenPostgresStore connects to a Postgres DSN.
func OpenPostgresStore(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("gitsource: connect cache: %w", err)
	}
	s, err := NewSQLStore(ctx, db, PlaceholderDollar)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS gsf_meta (key TEXT PRIMARY KEY, value TEXT NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS gsf_commits (commit_hash TEXT PRIMARY KEY)`,
		`CREATE TABLE IF NOT EXISTS gsf_hashes (file_hash TEXT PRIMARY KEY, commit_hash TEXT NOT NULL)`,
	}
	for _, q := range stmts {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLStore) ph(n int) string {
	if s.placeholder == PlaceholderDollar {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Load reads the cache.
func (s *SQLStore) Load(ctx context.Context) (*Cache, error) {
	var alg string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM gsf_meta WHERE key = `+s.ph(1), "algorithm").Scan(&alg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c := NewCache(alg)

	rows, err := s.db.QueryContext(ctx, `SELECT commit_hash FROM gsf_commits`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			_ = rows.Close()
			return nil, err
		}
		c.CommitHashes[h] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT file_hash, commit_hash FROM gsf_hashes`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var fileHash, commit string
		if err := rows.Scan(&fileHash, &commit); err != nil {
			return nil, err
		}
		c.HashMap[fileHash] = commit
	}
	return c, rows.Err()
}

// Save replaces the stored cache in one transaction.
func (s *SQLStore) Save(ctx context.Context, c *Cache) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{`DELETE FROM gsf_meta`, `DELETE FROM gsf_commits`, `DELETE FROM gsf_hashes`} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO gsf_meta (key, value) VALUES (`+s.ph(1)+`, `+s.ph(2)+`)`, "algorithm", c.Algorithm); err != nil {
		return err
	}
	for h := range c.CommitHashes {
		if _, err := tx.ExecContext(ctx, `INSERT INTO gsf_commits (commit_hash) VALUES (`+s.ph(1)+`)`, h); err != nil {
			return err
		}
	}
	for fileHash, commit := range c.HashMap {
		if _, err := tx.ExecContext(ctx, `INSERT INTO gsf_hashes (file_hash, commit_hash) VALUES (`+s.ph(1)+`, `+s.ph(2)+`)`, fileHash, commit); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
