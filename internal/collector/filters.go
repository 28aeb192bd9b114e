package collector

import (
	"fmt"
	"strings"
	"time"
)

// shortsMarkers flag vertical-format uploads by title/tag convention.
var shortsMarkers = []string{"#shorts", "#short", "#youtubeshorts", "#ytshorts"}

// FilterReason applies the configured content filters to fetched metadata.
// Returns a non-empty rejection reason on the first failed check, "" when the
// candidate passes. Each filter is disabled by its zero config value.
func FilterReason(raw RawVideo, now time.Time) string {
	durationSec := ParseDurationSeconds(raw.Duration)
	titleLower := strings.ToLower(raw.Title)

	if cfg.ExcludeShorts {
		if durationSec > 0 && durationSec <= 60 {
			return fmt.Sprintf("short-form video (%ds)", durationSec)
		}
		for _, marker := range shortsMarkers {
			if strings.Contains(titleLower, marker) || tagsContain(raw.Tags, marker) {
				return "short-form video (marker " + marker + ")"
			}
		}
	}

	if cfg.MinDurationSeconds > 0 && durationSec < cfg.MinDurationSeconds {
		return fmt.Sprintf("too short (%ds < %ds)", durationSec, cfg.MinDurationSeconds)
	}

	if cfg.MaxAgeDays > 0 && raw.PublishedAt != "" {
		// Unparseable timestamps skip the age check rather than reject.
		if published, err := time.Parse(time.RFC3339, raw.PublishedAt); err == nil {
			limit := now.AddDate(0, 0, -cfg.MaxAgeDays)
			if published.Before(limit) {
				return fmt.Sprintf("older than %d days", cfg.MaxAgeDays)
			}
		}
	}

	if cfg.MinViewCount > 0 && parseCount(raw.ViewCount) < cfg.MinViewCount {
		return fmt.Sprintf("view count below %d", cfg.MinViewCount)
	}

	for _, kw := range cfg.ExcludeKeywords {
		if strings.Contains(titleLower, kw) || tagsContain(raw.Tags, kw) {
			return "excluded keyword " + kw
		}
	}

	return ""
}

func tagsContain(tags []string, needle string) bool {
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}
