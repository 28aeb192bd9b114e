package collector

import (
	"fmt"
	"strings"
)

// Category is one of the fixed content categories videos are collected under.
// The built-in set matches the collection sheets; extra categories can be
// registered via Config.ExtraCategories.
type Category string

const (
	CategoryHeartwarming Category = "heartwarming"
	CategoryFunny        Category = "funny"
	CategoryTraumatic    Category = "traumatic"
)

// builtinCategories is the always-valid category set.
var builtinCategories = []Category{CategoryHeartwarming, CategoryFunny, CategoryTraumatic}

// ParseCategory validates a category label against the built-in set plus
// any extras registered in config.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range builtinCategories {
		if c == known {
			return c, nil
		}
	}
	for _, extra := range cfg.ExtraCategories {
		if c == extra {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q (valid: heartwarming, funny, traumatic)", s)
}

// SearchTask is one unit of collection input: run this query, file accepted
// videos under this category. Produced by the caller, consumed read-only.
type SearchTask struct {
	Query      string   `json:"query"`
	Category   Category `json:"category"`
	MaxResults int      `json:"max_results"`
}

// Candidate is a video ID surfaced by a search call, not yet validated
// against dedup or the transcript gate.
type Candidate struct {
	ID           string
	Title        string
	ChannelTitle string
}

// RawVideo is the unparsed per-video metadata returned by the details API.
// Statistics come back as decimal strings and may be absent entirely when
// the uploader disabled counts.
type RawVideo struct {
	ID           string
	Title        string
	Description  string
	ChannelTitle string
	PublishedAt  string // RFC3339, source-provided
	Duration     string // ISO-8601, e.g. "PT4M13S"
	Tags         []string
	ViewCount    string
	LikeCount    string
	CommentCount string
}

// VideoRecord is the canonical unit of collected data, one row in the
// destination store. Field order mirrors the store columns.
type VideoRecord struct {
	VideoID         string   `json:"video_id"`
	Title           string   `json:"title"`
	URL             string   `json:"url"`
	Category        Category `json:"category"`
	SearchQuery     string   `json:"search_query"`
	DurationSeconds int64    `json:"duration_seconds"`
	ViewCount       int64    `json:"view_count"`
	LikeCount       int64    `json:"like_count"`
	CommentCount    int64    `json:"comment_count"`
	PublishedAt     string   `json:"published_at"`
	ChannelTitle    string   `json:"channel_title"`
	Tags            string   `json:"tags"` // comma-joined
	CollectedAt     string   `json:"collected_at"`
}

// RunStatus is the terminal state of a collection run.
type RunStatus string

const (
	StatusCompleted RunStatus = "completed"
	StatusAborted   RunStatus = "aborted"
)

// TaskReport holds per-task rejection/acceptance counters.
type TaskReport struct {
	Query                string   `json:"query"`
	Category             Category `json:"category"`
	Searched             int      `json:"searched"`
	RejectedDuplicate    int      `json:"rejected_duplicate"`
	RejectedNoTranscript int      `json:"rejected_no_transcript"`
	RejectedFiltered     int      `json:"rejected_filtered"`
	RejectedError        int      `json:"rejected_error"`
	Accepted             int      `json:"accepted"`
	Written              int      `json:"written"`
	Error                string   `json:"error,omitempty"`
}

// RunReport is the overall outcome of one collection run.
type RunReport struct {
	RunID    string       `json:"run_id"`
	Status   RunStatus    `json:"status"`
	Tasks    []TaskReport `json:"tasks"`
	Accepted int          `json:"accepted"`
	Written  int          `json:"written"`
}
