// SPDX-License-Identifier: MPL-2.0

package journal

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gpskit/gpskit/internal/journal/migrations"
)

const (
	upMarker   = "-- +migrate Up"
	downMarker = "-- +migrate Down"
)

// applyMigrations brings the journal schema up to date. Applied migrations
// are tracked by file name in a schema_migrations ledger so reopening an
// existing journal is a no-op.
func applyMigrations(db *sql.DB) error {
	const ledger = `CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at INTEGER NOT NULL
	)`
	if _, err := db.Exec(ledger); err != nil {
		return fmt.Errorf("create migrations ledger: %w", err)
	}

	entries, err := migrations.FS.ReadDir(".")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		applied, err := migrationApplied(db, name)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		raw, err := migrations.FS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		if err := runMigration(db, name, upStatements(string(raw))); err != nil {
			return err
		}
	}
	return nil
}

func migrationApplied(db *sql.DB, name string) (bool, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations WHERE name = ?`, name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check migration %s: %w", name, err)
	}
	return count > 0, nil
}

func runMigration(db *sql.DB, name, statements string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", name, err)
	}

	if _, err := tx.Exec(statements); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("apply migration %s: %w", name, err)
	}
	record := `INSERT OR IGNORE INTO schema_migrations (name, applied_at) VALUES (?, ?)`
	if _, err := tx.Exec(record, name, time.Now().UTC().UnixMilli()); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record migration %s: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", name, err)
	}
	return nil
}

// upStatements extracts the "up" portion of a migration file. Files without
// direction markers are applied whole.
func upStatements(raw string) string {
	up := raw
	if idx := strings.Index(up, downMarker); idx >= 0 {
		up = up[:idx]
	}
	if idx := strings.Index(up, upMarker); idx >= 0 {
		up = up[idx+len(upMarker):]
	}
	return strings.TrimSpace(up)
}
