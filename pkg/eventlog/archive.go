// Package eventlog persists pipeline events fetched from the backend into a
// local SQLite archive. The backend keeps only a bounded in-memory window;
// recording the window on every fetch gives operators history that survives
// backend restarts. It also provides filtered read access for the CLI and
// the dashboard.
package eventlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"evodash/pkg/config"
	"evodash/pkg/gateway"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	ts          TEXT NOT NULL,
	stage       TEXT NOT NULL,
	level       TEXT NOT NULL,
	message     TEXT NOT NULL,
	meta        TEXT,
	recorded_at TEXT NOT NULL,
	UNIQUE(ts, stage, message)
);
CREATE INDEX IF NOT EXISTS idx_events_stage ON events(stage);
CREATE INDEX IF NOT EXISTS idx_events_level ON events(level);
`

// Archive owns a local event database opened for writing.
type Archive struct {
	db *sql.DB
}

// Open creates or opens the archive at dbPath, creating parent directories
// and the schema as needed. WAL keeps concurrent CLI reads from blocking the
// recording loop.
func Open(dbPath string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Archive{db: db}, nil
}

// Close releases the database connection.
// Safe to call multiple times.
func (a *Archive) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Append records a fetched event window. Events already present (same
// timestamp, stage and message) are skipped, so recording overlapping
// windows is safe. Returns the number of newly inserted rows.
func (a *Archive) Append(ctx context.Context, events []gateway.Event) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO events (ts, stage, level, message, meta, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare append: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	inserted := 0
	for _, e := range events {
		var meta any
		if len(e.Meta) > 0 {
			buf, err := json.Marshal(e.Meta)
			if err != nil {
				return inserted, fmt.Errorf("encode meta: %w", err)
			}
			meta = string(buf)
		}

		res, err := stmt.ExecContext(ctx, e.TS, e.Stage, e.Level, e.Message, meta, now)
		if err != nil {
			return inserted, fmt.Errorf("insert event: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit append: %w", err)
	}
	return inserted, nil
}

// DefaultDBPath returns the default location of the event archive, honoring
// the same home-directory override as the config file.
func DefaultDBPath() string {
	home, err := config.Home()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "events.db")
}
