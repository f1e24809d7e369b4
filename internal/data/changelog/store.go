// # internal/data/changelog/store.go
package changelog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"cinegraph/internal/core/ports"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

// Store persists accepted mutations as an append-only audit trail.
// It records what already happened to the graph; it is never replayed.
type Store struct {
	db   *sql.DB
	path string
}

var _ ports.ChangeStorePort = (*Store)(nil)

func Open(path string) (*Store, error) {
	cleanPath := filepath.Clean(path)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cleanPath)

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open changelog database: %w", err)
	}

	// Single connection avoids SQLITE_BUSY between the worker and readers.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping changelog database: %w", err)
	}

	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure changelog schema: %w", err)
	}

	return &Store{db: db, path: cleanPath}, nil
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Append writes a batch of changes in a single transaction.
func (s *Store) Append(ctx context.Context, batch []ports.Change) error {
	if len(batch) == 0 {
		return nil
	}

	return s.withRetry("append changes", func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO changes (operation, kind, key, detail, at_utc)
VALUES (?, ?, ?, ?, ?)
`)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("prepare insert: %w", err)
		}

		for _, change := range batch {
			at := change.At
			if at.IsZero() {
				at = time.Now().UTC()
			}
			if _, err := stmt.ExecContext(ctx,
				string(change.Operation),
				change.Kind,
				change.Key,
				change.Detail,
				at.UTC().Format(time.RFC3339Nano),
			); err != nil {
				_ = stmt.Close()
				_ = tx.Rollback()
				return fmt.Errorf("insert change: %w", err)
			}
		}

		if err := stmt.Close(); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("close statement: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}
		return nil
	})
}

// Recent returns the newest changes first, at most limit rows.
func (s *Store) Recent(ctx context.Context, limit int) ([]ports.Change, error) {
	if limit < 1 {
		limit = 1
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, operation, kind, key, detail, at_utc
FROM changes
ORDER BY id DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent changes: %w", err)
	}
	defer rows.Close()

	var changes []ports.Change
	for rows.Next() {
		var (
			change ports.Change
			op     string
			atUTC  string
		)
		if err := rows.Scan(&change.ID, &op, &change.Kind, &change.Key, &change.Detail, &atUTC); err != nil {
			return nil, fmt.Errorf("scan change row: %w", err)
		}
		change.Operation = ports.ChangeOperation(op)
		at, err := time.Parse(time.RFC3339Nano, atUTC)
		if err != nil {
			return nil, fmt.Errorf("parse change timestamp %q: %w", atUTC, err)
		}
		change.At = at
		changes = append(changes, change)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate change rows: %w", err)
	}

	return changes, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM changes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count changes: %w", err)
	}
	return count, nil
}

func (s *Store) withRetry(op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !isLockError(err) {
			return fmt.Errorf("%s: %w", op, err)
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s after %d attempts: %w", op, maxAttempts, err)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}

// IsCorruptError reports whether err indicates an unreadable database
// file. Callers may delete the file and reopen to recover.
func IsCorruptError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "malformed") || strings.Contains(msg, "not a database") || errors.Is(err, os.ErrInvalid)
}
