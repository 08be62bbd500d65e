// SPDX-License-Identifier: MPL-2.0

// Package journal persists launcher session history in a local SQLite
// database. Every dispatched menu choice is recorded with its program, exit
// code and duration so 'gpskit history' can show what ran and when.
//
// Recording is best-effort from the caller's perspective: the launcher logs
// and continues when a journal write fails, so a broken journal never blocks
// a GPS session.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // database/sql driver

	"github.com/gpskit/gpskit/pkg/types"
)

// DefaultFilename is the journal database file name used when the
// configuration does not name an explicit journal path.
const DefaultFilename = "journal.db"

// ErrClosed is returned when a store is used after Close.
var ErrClosed = errors.New("journal store is closed")

// Session is one recorded launcher dispatch.
type Session struct {
	// ID is assigned by the store and is zero until the session is listed.
	ID int64
	// StartedAt is when the dispatched program began.
	StartedAt time.Time
	// Choice is the menu choice that was dispatched ("test" or "capture").
	Choice string
	// Program is the entry program that ran, as configured.
	Program string
	// ExitCode is the exit code the program finished with.
	ExitCode types.ExitCode
	// Duration is how long the program ran.
	Duration time.Duration
}

// Store records and lists launcher sessions in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the journal database at path and
// applies any pending schema migrations. The parent directory is created
// when missing.
func Open(path string) (*Store, error) {
	cleanPath := filepath.Clean(strings.TrimSpace(path))
	if cleanPath == "" || cleanPath == "." {
		return nil, errors.New("open journal: path is required")
	}

	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", cleanPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open journal database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping journal database: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate journal database: %w", err)
	}

	return &Store{db: db}, nil
}

// Record inserts one session into the journal.
func (s *Store) Record(ctx context.Context, sess Session) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("record session: %w", err)
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("record session: %w", ErrClosed)
	}
	if strings.TrimSpace(sess.Choice) == "" {
		return errors.New("record session: choice is required")
	}
	if strings.TrimSpace(sess.Program) == "" {
		return errors.New("record session: program is required")
	}
	if sess.StartedAt.IsZero() {
		return errors.New("record session: started_at is required")
	}

	const insert = `INSERT INTO sessions (started_at, choice, program, exit_code, duration_ms)
		VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, insert,
		toMillis(sess.StartedAt),
		sess.Choice,
		sess.Program,
		int(sess.ExitCode),
		sess.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("record session: %w", err)
	}
	return nil
}

// List returns up to limit sessions, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("list sessions: %w", ErrClosed)
	}
	if limit <= 0 {
		return nil, errors.New("list sessions: limit must be greater than zero")
	}

	const query = `SELECT id, started_at, choice, program, exit_code, duration_ms
		FROM sessions
		ORDER BY started_at DESC, id DESC
		LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var (
			sess       Session
			startedMS  int64
			exitCode   int64
			durationMS int64
		)
		if err := rows.Scan(&sess.ID, &startedMS, &sess.Choice, &sess.Program, &exitCode, &durationMS); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess.StartedAt = fromMillis(startedMS)
		sess.ExitCode = types.ExitCode(exitCode)
		sess.Duration = time.Duration(durationMS) * time.Millisecond
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// Close closes the underlying database. Close on a nil or already closed
// store is a no-op.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return fmt.Errorf("close journal database: %w", err)
	}
	return nil
}

// Timestamps are stored as UTC milliseconds since the Unix epoch.
func toMillis(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }
