package usage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const (
	DefaultMaxEntries = 200
	memoryPath        = ":memory:"
)

const schema = `
CREATE TABLE IF NOT EXISTS usage_entries (
    id                     TEXT PRIMARY KEY,
    timestamp              TEXT NOT NULL,
    video_title            TEXT NOT NULL,
    video_url              TEXT NOT NULL,
    transcription_provider TEXT NOT NULL,
    summary_provider       TEXT NOT NULL,
    audio_duration_seconds REAL NOT NULL,
    tokens_used            INTEGER NOT NULL,
    cost_usd               REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_usage_entries_timestamp ON usage_entries(timestamp);
`

type implLedger struct {
	db         *sql.DB
	maxEntries int
}

// openDB opens a SQLite database at the given path
func openDB(path string) (*sql.DB, error) {
	if path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite: single writer, and one shared connection for :memory:
	db.SetMaxOpenConns(1)

	return db, nil
}

// Open opens or creates the usage ledger at path. maxEntries <= 0 means
// DefaultMaxEntries.
func Open(path string, maxEntries int) (Ledger, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	db, err := openDB(path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &implLedger{db: db, maxEntries: maxEntries}, nil
}

func (l *implLedger) Close() error {
	return l.db.Close()
}
