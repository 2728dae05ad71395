package store

import (
	"database/sql"
	"fmt"
	"net/url"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const (
	busyTimeoutMS   = 5000
	maxOpenConns    = 1
	maxIdleConns    = 1
	connMaxLifetime = 5 * time.Minute
)

// Store wraps the SQLite database holding clipboard entries. Entries are
// append/delete only; the store is the single source of truth all clients
// converge to.
type Store struct {
	db *sql.DB

	// insertMu serializes inserts so created_at can be clamped to stay
	// non-decreasing in id order even across clock steps.
	insertMu    sync.Mutex
	lastCreated time.Time
}

// Open opens the SQLite database and applies pending migrations.
func Open(path string) (*Store, error) {
	dsn, err := sqliteDSN(path)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := configureDB(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	st := &Store{db: db}
	if err := st.seedLastCreated(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return st, nil
}

// seedLastCreated loads the newest stored timestamp so the insert clamp
// holds across restarts: a process started after a backwards clock step
// must not stamp new rows earlier than existing ones.
func (s *Store) seedLastCreated() error {
	var created string
	err := s.db.QueryRow("SELECT created_at FROM content ORDER BY created_at DESC, id DESC LIMIT 1").Scan(&created)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}

	last, err := parseTime(created)
	if err != nil {
		return fmt.Errorf("parse stored created_at: %w", err)
	}
	s.lastCreated = last
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// MigrationPlan reports applied and pending migrations for this store.
func (s *Store) MigrationPlan() (*MigrationStatus, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("store is not open")
	}
	return migrationPlan(s.db)
}

func configureDB(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA foreign_keys = ON;",
		fmt.Sprintf("PRAGMA busy_timeout = %d;", busyTimeoutMS),
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	// Tune connection pool for local usage.
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	return nil
}

func sqliteDSN(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("db path is required")
	}
	u := url.URL{Scheme: "file", Path: path}
	return u.String(), nil
}
