// Package store persists finished recording results in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	_ "modernc.org/sqlite"

	"github.com/teslashibe/go-speakviz/pkg/session"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNotFound is returned by Get for an unknown report ID.
var ErrNotFound = errors.New("store: report not found")

// DefaultListLimit is used by List when limit is not positive.
const DefaultListLimit = 50

const timeLayout = time.RFC3339Nano

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
}

const schema = `
	CREATE TABLE IF NOT EXISTS reports (
		id                TEXT PRIMARY KEY,
		started_at        TEXT NOT NULL,
		stopped_at        TEXT NOT NULL,
		frames            INTEGER NOT NULL,
		classification    TEXT NOT NULL DEFAULT '',
		report_json       TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_reports_started_at ON reports(started_at);
`

// Summary is the list view of a stored report.
type Summary struct {
	ID             string    `json:"id"`
	StartedAt      time.Time `json:"started_at"`
	StoppedAt      time.Time `json:"stopped_at"`
	Frames         int       `json:"frames"`
	Classification string    `json:"classification"`
}

// Store is a SQLite-backed report repository.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores a result, replacing any previous result with the same ID.
func (s *Store) Save(ctx context.Context, res session.Result) error {
	if res.ID == "" {
		return errors.New("store: result has no id")
	}
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO reports (id, started_at, stopped_at, frames, classification, report_json)
		VALUES (?, ?, ?, ?, ?, ?)`,
		res.ID,
		res.StartedAt.UTC().Format(timeLayout),
		res.StoppedAt.UTC().Format(timeLayout),
		res.Frames,
		res.Classification(),
		string(data),
	)
	if err != nil {
		return fmt.Errorf("insert report %s: %w", res.ID, err)
	}
	return nil
}

// Get loads the full result for id.
func (s *Store) Get(ctx context.Context, id string) (session.Result, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT report_json FROM reports WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Result{}, ErrNotFound
	}
	if err != nil {
		return session.Result{}, fmt.Errorf("query report %s: %w", id, err)
	}

	var res session.Result
	if err := json.Unmarshal([]byte(data), &res); err != nil {
		return session.Result{}, fmt.Errorf("decode report %s: %w", id, err)
	}
	return res, nil
}

// List returns the most recent reports first.
func (s *Store) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, stopped_at, frames, classification
		FROM reports
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var sum Summary
		var started, stopped string
		if err := rows.Scan(&sum.ID, &started, &stopped, &sum.Frames, &sum.Classification); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		if sum.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("parse started_at %q: %w", started, err)
		}
		if sum.StoppedAt, err = time.Parse(timeLayout, stopped); err != nil {
			return nil, fmt.Errorf("parse stopped_at %q: %w", stopped, err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}
