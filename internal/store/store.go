// Package store persists harvest state in SQLite: past runs, the merged
// speaker directory, and the intervention files already generated. The
// database is what lets speaker enrichment survive across runs and lets the
// CLI inspect a harvest after the fact.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"stenograf/internal/speaker"
)

const schema = `
CREATE TABLE IF NOT EXISTS harvest_runs (
    id TEXT PRIMARY KEY,
    year INTEGER NOT NULL,
    started_at TEXT NOT NULL,
    completed_at TEXT NOT NULL DEFAULT '',
    sessions INTEGER NOT NULL DEFAULT 0,
    files INTEGER NOT NULL DEFAULT 0,
    requests INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS speakers (
    key TEXT PRIMARY KEY,
    steno_name TEXT NOT NULL DEFAULT '',
    page_name TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL DEFAULT '',
    titles TEXT NOT NULL DEFAULT '',
    function TEXT NOT NULL DEFAULT '',
    sex TEXT NOT NULL DEFAULT '',
    party TEXT NOT NULL DEFAULT '',
    birthdate TEXT NOT NULL DEFAULT '',
    link TEXT NOT NULL DEFAULT '',
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS intervention_files (
    file_name TEXT PRIMARY KEY,
    run_id TEXT NOT NULL,
    session INTEGER NOT NULL,
    date TEXT NOT NULL,
    topic_id INTEGER NOT NULL,
    topic_title TEXT NOT NULL DEFAULT '',
    ord INTEGER NOT NULL,
    speaker_key TEXT NOT NULL DEFAULT '',
    steno_name TEXT NOT NULL DEFAULT ''
);
`

// Run is one recorded harvest invocation.
type Run struct {
	ID          string
	Year        int
	StartedAt   time.Time
	CompletedAt time.Time
	Sessions    int
	Files       int
	Requests    int
}

// FileRecord is one generated intervention file.
type FileRecord struct {
	FileName   string
	RunID      string
	Session    int
	Date       string
	TopicID    int
	TopicTitle string
	Order      int
	SpeakerKey string
	StenoName  string
}

// Store manages harvest persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the harvest database and applies the
// schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("store: apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// StartRun records the beginning of a harvest.
func (s *Store) StartRun(ctx context.Context, id string, year int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO harvest_runs (id, year, started_at) VALUES (?, ?, ?)`,
		id, year, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("store: insert run: %w", err)
	}
	return nil
}

// CompleteRun stores the final counters for a harvest.
func (s *Store) CompleteRun(ctx context.Context, id string, sessions, files, requests int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE harvest_runs SET completed_at = ?, sessions = ?, files = ?, requests = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), sessions, files, requests, id)
	if err != nil {
		return fmt.Errorf("store: complete run: %w", err)
	}
	return nil
}

// Runs lists recorded harvests, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, year, started_at, completed_at, sessions, files, requests
         FROM harvest_runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var run Run
		var started, completed string
		if err := rows.Scan(&run.ID, &run.Year, &started, &completed, &run.Sessions, &run.Files, &run.Requests); err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		if completed != "" {
			run.CompletedAt, _ = time.Parse(time.RFC3339Nano, completed)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// SaveSpeaker merges one speaker into the table. Existing non-empty fields
// win, so earlier enrichments are never clobbered by later stubs.
func (s *Store) SaveSpeaker(ctx context.Context, key string, sp speaker.Speaker) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO speakers (key, steno_name, page_name, name, titles, function, sex, party, birthdate, link, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET
            steno_name = CASE WHEN speakers.steno_name = '' THEN excluded.steno_name ELSE speakers.steno_name END,
            page_name  = CASE WHEN speakers.page_name  = '' THEN excluded.page_name  ELSE speakers.page_name  END,
            name       = CASE WHEN speakers.name       = '' THEN excluded.name       ELSE speakers.name       END,
            titles     = CASE WHEN speakers.titles     = '' THEN excluded.titles     ELSE speakers.titles     END,
            function   = CASE WHEN speakers.function   = '' THEN excluded.function   ELSE speakers.function   END,
            sex        = CASE WHEN speakers.sex        = '' THEN excluded.sex        ELSE speakers.sex        END,
            party      = CASE WHEN speakers.party      = '' THEN excluded.party      ELSE speakers.party      END,
            birthdate  = CASE WHEN speakers.birthdate  = '' THEN excluded.birthdate  ELSE speakers.birthdate  END,
            link       = CASE WHEN speakers.link       = '' THEN excluded.link       ELSE speakers.link       END,
            updated_at = excluded.updated_at`,
		key, sp.StenoName, sp.PageName, sp.Name, sp.Titles, sp.Function,
		sp.Sex, sp.Party, sp.BirthDate, sp.Link,
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("store: save speaker %s: %w", key, err)
	}
	return nil
}

// SaveDirectory merges every speaker in the directory.
func (s *Store) SaveDirectory(ctx context.Context, dir *speaker.Directory) error {
	for _, key := range dir.Keys() {
		sp, ok := dir.Get(key)
		if !ok {
			continue
		}
		if err := s.SaveSpeaker(ctx, key, sp); err != nil {
			return err
		}
	}
	return nil
}

// LoadDirectory seeds a directory with the persisted speakers so a new run
// starts from the already-enriched table.
func (s *Store) LoadDirectory(ctx context.Context) (*speaker.Directory, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, steno_name, page_name, name, titles, function, sex, party, birthdate, link
         FROM speakers ORDER BY updated_at`)
	if err != nil {
		return nil, fmt.Errorf("store: load speakers: %w", err)
	}
	defer rows.Close()

	dir := speaker.NewDirectory()
	for rows.Next() {
		var key string
		var sp speaker.Speaker
		if err := rows.Scan(&key, &sp.StenoName, &sp.PageName, &sp.Name, &sp.Titles,
			&sp.Function, &sp.Sex, &sp.Party, &sp.BirthDate, &sp.Link); err != nil {
			return nil, fmt.Errorf("store: scan speaker: %w", err)
		}
		dir.Register(key, sp)
	}
	return dir, rows.Err()
}

// Speakers lists the persisted speakers with their keys, in name order.
func (s *Store) Speakers(ctx context.Context) ([]string, []speaker.Speaker, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, steno_name, page_name, name, titles, function, sex, party, birthdate, link
         FROM speakers ORDER BY name, steno_name`)
	if err != nil {
		return nil, nil, fmt.Errorf("store: list speakers: %w", err)
	}
	defer rows.Close()

	var keys []string
	var speakers []speaker.Speaker
	for rows.Next() {
		var key string
		var sp speaker.Speaker
		if err := rows.Scan(&key, &sp.StenoName, &sp.PageName, &sp.Name, &sp.Titles,
			&sp.Function, &sp.Sex, &sp.Party, &sp.BirthDate, &sp.Link); err != nil {
			return nil, nil, fmt.Errorf("store: scan speaker: %w", err)
		}
		keys = append(keys, key)
		speakers = append(speakers, sp)
	}
	return keys, speakers, rows.Err()
}

// SaveFile records one generated intervention file. Re-recording the same
// file name is a no-op.
func (s *Store) SaveFile(ctx context.Context, rec FileRecord) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO intervention_files
            (file_name, run_id, session, date, topic_id, topic_title, ord, speaker_key, steno_name)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.FileName, rec.RunID, rec.Session, rec.Date, rec.TopicID,
		rec.TopicTitle, rec.Order, rec.SpeakerKey, rec.StenoName)
	if err != nil {
		return fmt.Errorf("store: save file %s: %w", rec.FileName, err)
	}
	return nil
}

// FileCount returns the number of recorded intervention files.
func (s *Store) FileCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM intervention_files`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count files: %w", err)
	}
	return n, nil
}
