// go_tube — YouTube video metadata collection pipeline.
//
// Runs category-tagged search queries against the YouTube Data API, filters
// candidates by transcript availability, deduplicates against the destination
// store, and appends accepted records. The store backend is picked from the
// environment: Google Sheets, Postgres, or a local SQLite file.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/joho/godotenv"

	"github.com/anatolykoptev/go_tube/internal/collector"
	"github.com/anatolykoptev/go_tube/internal/collector/youtube"
	"github.com/anatolykoptev/go_tube/internal/store"
	"github.com/anatolykoptev/go_tube/internal/webhook"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	initCollector()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tasks, err := loadTasks(env.Str("TASKS_FILE", "tasks.json"))
	if err != nil {
		slog.Error("load tasks failed", slog.Any("error", err))
		os.Exit(1)
	}

	st, closeStore, err := openStore(ctx)
	if err != nil {
		slog.Error("store init failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeStore()

	var notifier collector.Notifier
	if url := collector.Cfg.WebhookURL; url != "" {
		notifier = webhook.New(url)
		slog.Info("webhook notifier enabled", slog.String("url", url))
	}

	slog.Info("starting go_tube",
		slog.String("version", version),
		slog.Int("tasks", len(tasks)))

	c := collector.New(youtube.NewClient(), youtube.NewGate(), st, notifier)
	report, err := c.Run(ctx, tasks)
	if err != nil {
		slog.Error("run failed", slog.Any("error", err))
		os.Exit(1)
	}

	printReport(report)
	fmt.Print(collector.FormatMetrics())

	if report.Status == collector.StatusAborted {
		os.Exit(1)
	}
}

func initCollector() {
	c := collector.Config{
		APIKey:         env.Str("YOUTUBE_API_KEY", ""),
		APIKeyFallback: env.Str("YOUTUBE_API_KEY_FALLBACK", ""),
		APIDelay:       env.Duration("API_DELAY", 300*time.Millisecond),
		MaxRetries:     env.Int("MAX_RETRIES", 2),
		RetryDelay:     env.Duration("RETRY_DELAY", time.Second),
		BatchSize:      env.Int("BATCH_SIZE", 50),

		MinDurationSeconds: int64(env.Int("MIN_DURATION_SECONDS", 90)),
		MaxAgeDays:         env.Int("MAX_AGE_DAYS", 180),
		MinViewCount:       int64(env.Int("MIN_VIEW_COUNT", 10000)),
		ExcludeShorts:      env.Str("EXCLUDE_SHORTS", "true") == "true",
		ExcludeKeywords:    env.List("EXCLUDE_KEYWORDS", "official music video,lyrics,compilation,best of"),

		TranscriptLanguages: env.List("TRANSCRIPT_LANGUAGES", ""),

		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 5000),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),

		WebhookURL: env.Str("WEBHOOK_URL", ""),

		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}
	for _, extra := range env.List("EXTRA_CATEGORIES", "") {
		c.ExtraCategories = append(c.ExtraCategories, collector.Category(strings.ToLower(extra)))
	}
	collector.Init(c)

	cacheTTL := env.Duration("CACHE_TTL", 24*time.Hour)
	collector.InitCache(env.Str("REDIS_URL", ""), cacheTTL, c.CacheMaxEntries, c.CacheCleanupInterval)
}

// openStore picks the destination store backend from the environment:
// Sheets when a spreadsheet is configured, then Postgres, then local SQLite.
func openStore(ctx context.Context) (collector.Store, func(), error) {
	if spreadsheetID := env.Str("SPREADSHEET_ID", ""); spreadsheetID != "" {
		s, err := store.NewSheets(ctx,
			env.Str("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
			spreadsheetID,
			env.Str("SHEET_NAME", "raw_links"))
		if err != nil {
			return nil, nil, err
		}
		slog.Info("store: sheets backend", slog.String("spreadsheet", spreadsheetID))
		return s, func() {}, nil
	}

	if dbURL := env.Str("DATABASE_URL", ""); dbURL != "" {
		p, err := store.ConnectPostgres(ctx, dbURL)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	}

	path := env.Str("SQLITE_PATH", "go_tube.db")
	s, err := store.OpenSQLite(path)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("store: sqlite backend", slog.String("path", path))
	return s, func() { s.Close() }, nil
}

// loadTasks reads the SearchTask list from a JSON file and validates the
// category labels.
func loadTasks(path string) ([]collector.SearchTask, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var tasks []collector.SearchTask
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i, t := range tasks {
		if t.Query == "" {
			return nil, fmt.Errorf("task %d: empty query", i)
		}
		cat, err := collector.ParseCategory(string(t.Category))
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		tasks[i].Category = cat
	}
	return tasks, nil
}

func printReport(r *collector.RunReport) {
	fmt.Printf("run %s: %s\n", r.RunID, r.Status)
	for _, t := range r.Tasks {
		fmt.Printf("  %-30q %-12s searched=%d dup=%d no_transcript=%d filtered=%d errors=%d accepted=%d written=%d\n",
			t.Query, t.Category, t.Searched, t.RejectedDuplicate, t.RejectedNoTranscript,
			t.RejectedFiltered, t.RejectedError, t.Accepted, t.Written)
	}
	fmt.Printf("total accepted=%d written=%d\n", r.Accepted, r.Written)
}
