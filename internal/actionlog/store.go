package actionlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS user_actions (
    id         TEXT PRIMARY KEY,
    username   TEXT NOT NULL,
    action     TEXT NOT NULL,
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_user_actions_username ON user_actions (username);
`

// Store manages audit persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Entry is one recorded user action.
type Entry struct {
	ID       string
	Username string
	Action   string
	At       time.Time
}

// Open initializes or connects to the action database inside dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure action log dir: %w", err)
	}
	dbPath := filepath.Join(dir, "actions.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the on-disk database location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Record inserts one audit row.
func (s *Store) Record(ctx context.Context, user, action string) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO user_actions (id, username, action, created_at) VALUES (?, ?, ?, ?)`,
		uuid.NewString(),
		user,
		action,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert action: %w", err)
	}
	return nil
}

// Recent returns the newest entries, most recent first. A limit <= 0
// defaults to 50.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, username, action, created_at FROM user_actions ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query actions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var createdAt string
		if err := rows.Scan(&entry.ID, &entry.Username, &entry.Action, &createdAt); err != nil {
			return nil, fmt.Errorf("scan action row: %w", err)
		}
		if ts, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			entry.At = ts
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate action rows: %w", err)
	}
	return entries, nil
}

// CountByUser returns how many actions the user has recorded.
func (s *Store) CountByUser(ctx context.Context, user string) (int, error) {
	var count int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM user_actions WHERE username = ?`,
		user,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count actions: %w", err)
	}
	return count, nil
}
