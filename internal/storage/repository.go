package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	_ "modernc.org/sqlite"
)

// FetchRecord is one row of the page fetch log.
type FetchRecord struct {
	ID        int64
	Page      int
	PerPage   int
	ItemCount int
	Duration  time.Duration
	Error     string
	FetchedAt time.Time
}

// MaxColumns is the widest grid a stored preference may ask for.
const MaxColumns = 6

// UIPreferences are the gallery settings persisted between runs.
type UIPreferences struct {
	Columns      int
	ShowCaptions bool
	InlineImages bool
}

type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS ui_preferences (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS fetch_log (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  page INTEGER NOT NULL,
  per_page INTEGER NOT NULL,
  item_count INTEGER NOT NULL,
  duration_ms INTEGER NOT NULL,
  error TEXT NOT NULL DEFAULT '',
  fetched_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_fetch_log_fetched_at ON fetch_log(fetched_at);
`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// CheckWritable verifies the database accepts writes.
func (r *Repository) CheckWritable(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `INSERT INTO ui_preferences (key, value) VALUES ('__write_check', '1')
ON CONFLICT(key) DO UPDATE SET value=excluded.value`); err != nil {
		return fmt.Errorf("write check: %w", err)
	}
	return nil
}

func (r *Repository) SaveFetch(ctx context.Context, rec FetchRecord) error {
	fetchedAt := rec.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO fetch_log (page, per_page, item_count, duration_ms, error, fetched_at)
VALUES (?, ?, ?, ?, ?, ?)
`,
		rec.Page,
		rec.PerPage,
		rec.ItemCount,
		rec.Duration.Milliseconds(),
		rec.Error,
		fetchedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save fetch for page %d: %w", rec.Page, err)
	}
	return nil
}

func (r *Repository) ListFetches(ctx context.Context, limit int) ([]FetchRecord, error) {
	if limit < 1 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT id, page, per_page, item_count, duration_ms, error, fetched_at
FROM fetch_log
ORDER BY id DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query fetch log: %w", err)
	}
	defer rows.Close()

	records := make([]FetchRecord, 0, limit)
	for rows.Next() {
		var rec FetchRecord
		var durationMS int64
		var fetchedAt string
		if err := rows.Scan(
			&rec.ID,
			&rec.Page,
			&rec.PerPage,
			&rec.ItemCount,
			&durationMS,
			&rec.Error,
			&fetchedAt,
		); err != nil {
			return nil, fmt.Errorf("scan fetch record: %w", err)
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		rec.FetchedAt, err = time.Parse(time.RFC3339Nano, fetchedAt)
		if err != nil {
			return nil, fmt.Errorf("parse fetched_at %q: %w", fetchedAt, err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return records, nil
}

// LoadUIPreferences returns defaults merged with the stored values.
func (r *Repository) LoadUIPreferences(ctx context.Context, defaults UIPreferences) (UIPreferences, error) {
	prefs := defaults
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM ui_preferences`)
	if err != nil {
		return prefs, fmt.Errorf("query ui preferences: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return prefs, fmt.Errorf("scan ui preference: %w", err)
		}
		switch key {
		case "columns":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				prefs.Columns = min(n, MaxColumns)
			}
		case "show_captions":
			prefs.ShowCaptions = value == "1"
		case "inline_images":
			prefs.InlineImages = value == "1"
		}
	}
	if err := rows.Err(); err != nil {
		return prefs, fmt.Errorf("rows iteration: %w", err)
	}
	return prefs, nil
}

func (r *Repository) SaveUIPreferences(ctx context.Context, prefs UIPreferences) error {
	if prefs.Columns < 1 {
		return errors.New("columns must be positive")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO ui_preferences (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value
`)
	if err != nil {
		return fmt.Errorf("prepare preference statement: %w", err)
	}
	defer stmt.Close()

	values := map[string]string{
		"columns":       strconv.Itoa(prefs.Columns),
		"show_captions": boolValue(prefs.ShowCaptions),
		"inline_images": boolValue(prefs.InlineImages),
	}
	for key, value := range values {
		if _, err := stmt.ExecContext(ctx, key, value); err != nil {
			return fmt.Errorf("save preference %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func boolValue(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
