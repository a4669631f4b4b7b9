package session

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore implements Store using a client-local SQLite file.
type SQLiteStore struct {
	db *sql.DB

	mu      sync.RWMutex
	current Session
}

// NewSQLiteStore opens (or creates) the session database at path, applies
// the migration and hydrates the in-memory session from it.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping session database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate session database: %w", err)
	}

	s.current = s.read()
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS session (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		token TEXT NOT NULL DEFAULT '',
		user TEXT NOT NULL DEFAULT ''
	);
	`
	_, err := s.db.Exec(query)
	return err
}

// read fetches the persisted row. Absent or unreadable rows are treated as
// "no session".
func (s *SQLiteStore) read() Session {
	var sess Session
	row := s.db.QueryRow(`SELECT token, user FROM session WHERE id = 1`)
	if err := row.Scan(&sess.Token, &sess.User); err != nil {
		return Session{}
	}
	return sess
}

// Load returns the current in-memory session.
func (s *SQLiteStore) Load() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Login persists token and user, then updates the in-memory copy so
// subsequent requests use the new token immediately.
func (s *SQLiteStore) Login(token, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `INSERT INTO session (id, token, user) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET token = excluded.token, user = excluded.user`
	if _, err := s.db.Exec(query, token, user); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	s.current = Session{Token: token, User: user}
	return nil
}

// Logout clears the persisted and in-memory session.
func (s *SQLiteStore) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM session WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	s.current = Session{}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
