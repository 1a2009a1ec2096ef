// Package library maintains a local index of completed transcripts so the
// CLI can list past results without scanning the output directory.
package library

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"meetingscribe/internal/logging"
)

// Entry is one recorded transcript.
type Entry struct {
	MeetingID  string    `json:"meetingId"`
	OutputPath string    `json:"outputPath"`
	RecordedAt time.Time `json:"recordedAt"`
}

// Library is a sqlite-backed transcript index. Safe for concurrent use.
type Library struct {
	db     *sql.DB
	logger *slog.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS transcripts (
	meeting_id  TEXT PRIMARY KEY,
	output_path TEXT NOT NULL,
	recorded_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transcripts_recorded_at ON transcripts(recorded_at);
`

// Open creates or opens the index at path and applies the schema.
func Open(path string, logger *slog.Logger) (*Library, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create library directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open transcript library: %w", err)
	}
	// A single writer keeps sqlite lock contention out of the picture.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply library schema: %w", err)
	}

	return &Library{
		db:     db,
		logger: logger.With(slog.String("component", "library")),
	}, nil
}

// Record stores or replaces the transcript entry for a meeting. Re-running
// a meeting points its entry at the new output file.
func (l *Library) Record(ctx context.Context, meetingID, outputPath string) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO transcripts (meeting_id, output_path, recorded_at)
		VALUES (?, ?, ?)
		ON CONFLICT(meeting_id) DO UPDATE SET
			output_path = excluded.output_path,
			recorded_at = excluded.recorded_at`,
		meetingID, outputPath, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("record transcript for %s: %w", meetingID, err)
	}
	l.logger.Info("transcript recorded",
		slog.String("meeting", meetingID),
		slog.String("output", outputPath))
	return nil
}

// List returns all entries, newest first.
func (l *Library) List(ctx context.Context) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT meeting_id, output_path, recorded_at
		FROM transcripts
		ORDER BY recorded_at DESC, meeting_id`)
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var recordedAt string
		if err := rows.Scan(&entry.MeetingID, &entry.OutputPath, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan transcript row: %w", err)
		}
		if ts, parseErr := time.Parse(time.RFC3339Nano, recordedAt); parseErr == nil {
			entry.RecordedAt = ts
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transcripts: %w", err)
	}
	return entries, nil
}

// Close releases the underlying database handle.
func (l *Library) Close() error {
	return l.db.Close()
}
