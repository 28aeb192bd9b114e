package collector

import (
	"net/http"
	"time"
)

// Config holds all collector configuration, injected from main.
type Config struct {
	APIKey         string
	APIKeyFallback string        // tried once when the primary key hits quota
	APIDelay       time.Duration // minimum delay between external calls
	MaxRetries     int           // per-call transient retry budget
	RetryDelay     time.Duration // fixed wait between transient retries
	BatchSize      int           // detail-fetch batch ceiling (API max: 50)

	ExtraCategories []Category // registered beyond the built-in set

	// Content filters; zero values disable each check.
	MinDurationSeconds int64
	MaxAgeDays         int
	MinViewCount       int64
	ExcludeShorts      bool
	ExcludeKeywords    []string // lowercase, matched against title and tags

	TranscriptLanguages []string // preferred caption languages, checked in order

	CacheMaxEntries      int
	CacheCleanupInterval time.Duration

	WebhookURL string // empty = notifications disabled

	HTTPClient *http.Client
}

var cfg Config

// Cfg exposes the collector configuration for sub-packages (youtube, store).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the collector with the given configuration,
// filling in defaults for unset pacing and batching knobs.
func Init(c Config) {
	if c.APIDelay <= 0 {
		c.APIDelay = 300 * time.Millisecond
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 2
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = time.Second
	}
	if c.BatchSize <= 0 || c.BatchSize > 50 {
		c.BatchSize = 50
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	cfg = c
	Cfg = &cfg
}
