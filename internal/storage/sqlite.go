package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"

	_ "modernc.org/sqlite"
)

const DefaultSQLiteName = "trackflow.db"

// SQLiteSubstrate stores items in a single kv table. Keys enumerate in the
// order they were first written.
type SQLiteSubstrate struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteSubstrate, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteSubstrate{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteSubstrate) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			key TEXT NOT NULL UNIQUE,
			value TEXT NOT NULL
		)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

func (s *SQLiteSubstrate) GetItem(key string) (string, bool, error) {
	var v string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query item %q: %w", key, err)
	}
	return v, true, nil
}

func (s *SQLiteSubstrate) SetItem(key string, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("upsert item %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteSubstrate) RemoveItem(key string) error {
	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete item %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteSubstrate) Keys() ([]string, error) {
	rows, err := s.db.Query("SELECT key FROM kv ORDER BY seq ASC")
	if err != nil {
		return nil, fmt.Errorf("query keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keys: %w", err)
	}
	return keys, nil
}

func (s *SQLiteSubstrate) ReplaceAll(prefix string, items map[string]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		"DELETE FROM kv WHERE substr(key, 1, ?) = ?",
		utf8.RuneCountInString(prefix), prefix,
	); err != nil {
		return fmt.Errorf("clear namespace: %w", err)
	}

	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := tx.Exec("INSERT INTO kv (key, value) VALUES (?, ?)", k, items[k]); err != nil {
			return fmt.Errorf("insert item %q: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

func (s *SQLiteSubstrate) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
