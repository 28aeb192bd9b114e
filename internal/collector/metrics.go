package collector

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across one collector process.
var metrics struct {
	SearchRequests   atomic.Int64
	DetailRequests   atomic.Int64
	TranscriptChecks atomic.Int64
	QuotaErrors      atomic.Int64
	StoreAppends     atomic.Int64
	WebhookPosts     atomic.Int64
}

// Incrementors for the youtube/ and store sub-packages.
func IncrSearchRequests()   { metrics.SearchRequests.Add(1) }
func IncrDetailRequests()   { metrics.DetailRequests.Add(1) }
func IncrTranscriptChecks() { metrics.TranscriptChecks.Add(1) }
func IncrQuotaErrors()      { metrics.QuotaErrors.Add(1) }
func IncrStoreAppends()     { metrics.StoreAppends.Add(1) }
func IncrWebhookPosts()     { metrics.WebhookPosts.Add(1) }

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"search_requests":   metrics.SearchRequests.Load(),
		"detail_requests":   metrics.DetailRequests.Load(),
		"transcript_checks": metrics.TranscriptChecks.Load(),
		"quota_errors":      metrics.QuotaErrors.Load(),
		"store_appends":     metrics.StoreAppends.Load(),
		"webhook_posts":     metrics.WebhookPosts.Load(),
		"cache_hits":        hits,
		"cache_misses":      misses,
	}
}

// FormatMetrics returns metrics as a simple text block for end-of-run logging.
func FormatMetrics() string {
	m := GetMetrics()
	keys := []string{
		"search_requests", "detail_requests", "transcript_checks",
		"quota_errors", "store_appends", "webhook_posts",
		"cache_hits", "cache_misses",
	}
	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}
