package collector

import (
	"strings"
	"testing"
	"time"
)

func TestFilterReason(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	base := RawVideo{
		ID:          "vid",
		Title:       "Dramatic rescue caught on camera",
		Duration:    "PT5M",
		PublishedAt: "2026-07-01T00:00:00Z",
		ViewCount:   "50000",
	}

	tests := []struct {
		name   string
		cfg    Config
		mutate func(*RawVideo)
		reject string // substring of expected reason, "" = pass
	}{
		{"all disabled passes", Config{}, nil, ""},
		{
			"too short",
			Config{MinDurationSeconds: 90},
			func(r *RawVideo) { r.Duration = "PT45S" },
			"too short",
		},
		{
			"long enough",
			Config{MinDurationSeconds: 90},
			nil,
			"",
		},
		{
			"shorts by duration",
			Config{ExcludeShorts: true},
			func(r *RawVideo) { r.Duration = "PT30S" },
			"short-form",
		},
		{
			"shorts by title marker",
			Config{ExcludeShorts: true},
			func(r *RawVideo) { r.Title = "Epic fail #shorts" },
			"short-form",
		},
		{
			"too old",
			Config{MaxAgeDays: 30},
			func(r *RawVideo) { r.PublishedAt = "2026-01-01T00:00:00Z" },
			"older than",
		},
		{
			"unparseable timestamp skips age check",
			Config{MaxAgeDays: 30},
			func(r *RawVideo) { r.PublishedAt = "last tuesday" },
			"",
		},
		{
			"view count below threshold",
			Config{MinViewCount: 100000},
			nil,
			"view count",
		},
		{
			"excluded keyword in title",
			Config{ExcludeKeywords: []string{"compilation"}},
			func(r *RawVideo) { r.Title = "Best fails COMPILATION 2026" },
			"excluded keyword",
		},
		{
			"excluded keyword in tags",
			Config{ExcludeKeywords: []string{"lyrics"}},
			func(r *RawVideo) { r.Tags = []string{"music", "Lyrics Video"} },
			"excluded keyword",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Init(tt.cfg)
			raw := base
			if tt.mutate != nil {
				tt.mutate(&raw)
			}
			got := FilterReason(raw, now)
			if tt.reject == "" && got != "" {
				t.Errorf("expected pass, got rejection %q", got)
			}
			if tt.reject != "" && !strings.Contains(got, tt.reject) {
				t.Errorf("reason %q does not contain %q", got, tt.reject)
			}
		})
	}
}
