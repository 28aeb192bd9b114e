package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/anatolykoptev/go_tube/internal/collector"
)

// SQLite is the local-file destination store.
type SQLite struct {
	db *sql.DB
}

var _ collector.Store = (*SQLite)(nil)

// OpenSQLite opens (or creates) the store database at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS videos (
		video_id         TEXT PRIMARY KEY,
		title            TEXT NOT NULL,
		url              TEXT NOT NULL,
		category         TEXT NOT NULL,
		search_query     TEXT NOT NULL,
		duration_seconds INTEGER NOT NULL DEFAULT 0,
		view_count       INTEGER NOT NULL DEFAULT 0,
		like_count       INTEGER NOT NULL DEFAULT 0,
		comment_count    INTEGER NOT NULL DEFAULT 0,
		published_at     TEXT NOT NULL,
		channel_title    TEXT NOT NULL,
		tags             TEXT NOT NULL DEFAULT '',
		collected_at     TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// LoadIDs returns every video_id currently in the store.
func (s *SQLite) LoadIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT video_id FROM videos`)
	if err != nil {
		return nil, fmt.Errorf("store: load ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("store: scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Append inserts records one by one, skipping rows whose video_id is already
// present (the write-time dup re-check). Returns how many rows were actually
// persisted; on error the count covers everything written before the failure.
func (s *SQLite) Append(ctx context.Context, records []collector.VideoRecord) (int, error) {
	written := 0
	for _, rec := range records {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO videos (video_id, title, url, category, search_query,
				duration_seconds, view_count, like_count, comment_count,
				published_at, channel_title, tags, collected_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(video_id) DO NOTHING`,
			rec.VideoID, rec.Title, rec.URL, string(rec.Category), rec.SearchQuery,
			rec.DurationSeconds, rec.ViewCount, rec.LikeCount, rec.CommentCount,
			rec.PublishedAt, rec.ChannelTitle, rec.Tags, rec.CollectedAt,
		)
		if err != nil {
			return written, fmt.Errorf("store: insert %s: %w", rec.VideoID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			written++
		}
	}
	return written, nil
}
