package eventlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"evodash/pkg/gateway"
)

// Record is one archived event plus its archive bookkeeping.
type Record struct {
	ID         int64
	Event      gateway.Event
	RecordedAt time.Time
}

// QueryOpts specifies filter criteria for querying archived events.
type QueryOpts struct {
	// Stage filters to a pipeline stage (e.g. "crawl", "index", "evaluate").
	Stage string

	// Level filters to a severity level (e.g. "info", "error").
	Level string

	// Since keeps only events recorded at or after this time.
	Since *time.Time

	// Limit restricts the number of results (0 = no limit).
	Limit int
}

// Reader provides read-only access to the event archive.
type Reader struct {
	db *sql.DB
}

// NewReader opens the archive in read-only mode with WAL so queries never
// block a concurrent recording loop.
func NewReader(dbPath string) (*Reader, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("archive not found: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_journal_mode=WAL", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping archive: %w", err)
	}

	return &Reader{db: db}, nil
}

// Close releases the database connection.
// Safe to call multiple times.
func (r *Reader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Query retrieves archived events matching the filter, newest first.
// Returns an empty slice if nothing matches.
func (r *Reader) Query(ctx context.Context, opts QueryOpts) ([]Record, error) {
	query, args := buildQuery(opts)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var meta sql.NullString
		var recordedAt string

		err := rows.Scan(
			&rec.ID,
			&rec.Event.TS,
			&rec.Event.Stage,
			&rec.Event.Level,
			&rec.Event.Message,
			&meta,
			&recordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}

		if meta.Valid && meta.String != "" {
			if err := json.Unmarshal([]byte(meta.String), &rec.Event.Meta); err != nil {
				return nil, fmt.Errorf("decode meta: %w", err)
			}
		}

		if recordedAt != "" {
			t, err := time.Parse(time.RFC3339, recordedAt)
			if err != nil {
				return nil, fmt.Errorf("parse recorded_at: %w", err)
			}
			rec.RecordedAt = t
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return records, nil
}

// buildQuery constructs the SQL query and arguments from QueryOpts.
func buildQuery(opts QueryOpts) (string, []any) {
	var conditions []string
	var args []any

	query := "SELECT id, ts, stage, level, message, meta, recorded_at FROM events"

	if opts.Stage != "" {
		conditions = append(conditions, "stage = ?")
		args = append(args, opts.Stage)
	}

	if opts.Level != "" {
		conditions = append(conditions, "level = ?")
		args = append(args, opts.Level)
	}

	if opts.Since != nil {
		conditions = append(conditions, "recorded_at >= ?")
		args = append(args, opts.Since.UTC().Format(time.RFC3339))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	// Newest first.
	query += " ORDER BY id DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	return query, args
}
