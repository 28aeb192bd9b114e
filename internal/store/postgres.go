package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anatolykoptev/go_tube/internal/collector"
)

// Postgres is the shared-database destination store.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ collector.Store = (*Postgres)(nil)

// ConnectPostgres creates a pgx pool and ensures the videos table exists.
func ConnectPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("store: parse DATABASE_URL: %w", err)
	}
	config.MaxConns = 4
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("store: create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping postgres: %w", err)
	}

	_, err = pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS videos (
		video_id         TEXT PRIMARY KEY,
		title            TEXT NOT NULL,
		url              TEXT NOT NULL,
		category         TEXT NOT NULL,
		search_query     TEXT NOT NULL,
		duration_seconds BIGINT NOT NULL DEFAULT 0,
		view_count       BIGINT NOT NULL DEFAULT 0,
		like_count       BIGINT NOT NULL DEFAULT 0,
		comment_count    BIGINT NOT NULL DEFAULT 0,
		published_at     TEXT NOT NULL,
		channel_title    TEXT NOT NULL,
		tags             TEXT NOT NULL DEFAULT '',
		collected_at     TEXT NOT NULL
	)`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}

	slog.Info("store: postgres connected", slog.String("host", config.ConnConfig.Host))
	return &Postgres{pool: pool}, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

// LoadIDs returns every video_id currently in the store.
func (p *Postgres) LoadIDs(ctx context.Context) ([]string, error) {
	rows, err := p.pool.Query(ctx, `SELECT video_id FROM videos`)
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

// Append inserts records with ON CONFLICT DO NOTHING as the write-time dup
// re-check. Returns how many rows were actually persisted.
func (p *Postgres) Append(ctx context.Context, records []collector.VideoRecord) (int, error) {
	written := 0
	for _, rec := range records {
		tag, err := p.pool.Exec(ctx,
			`INSERT INTO videos (video_id, title, url, category, search_query,
				duration_seconds, view_count, like_count, comment_count,
				published_at, channel_title, tags, collected_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			 ON CONFLICT (video_id) DO NOTHING`,
			rec.VideoID, rec.Title, rec.URL, string(rec.Category), rec.SearchQuery,
			rec.DurationSeconds, rec.ViewCount, rec.LikeCount, rec.CommentCount,
			rec.PublishedAt, rec.ChannelTitle, rec.Tags, rec.CollectedAt,
		)
		if err != nil {
			return written, fmt.Errorf("store: insert %s: %w", rec.VideoID, err)
		}
		written += int(tag.RowsAffected())
	}
	return written, nil
}
