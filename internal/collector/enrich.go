package collector

import (
	"strconv"
	"strings"
	"time"
)

// WatchURL derives the canonical watch URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// parseCount converts an API statistics string to int64. The API omits
// counters the uploader disabled and serializes the rest as decimal strings;
// both absence and garbage default to 0 to keep store column typing uniform.
func parseCount(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// BuildRecord maps raw API metadata into the canonical video record.
// collected_at is stamped here, at acceptance time, never backdated.
func BuildRecord(raw RawVideo, query string, category Category) VideoRecord {
	return VideoRecord{
		VideoID:         raw.ID,
		Title:           raw.Title,
		URL:             WatchURL(raw.ID),
		Category:        category,
		SearchQuery:     query,
		DurationSeconds: ParseDurationSeconds(raw.Duration),
		ViewCount:       parseCount(raw.ViewCount),
		LikeCount:       parseCount(raw.LikeCount),
		CommentCount:    parseCount(raw.CommentCount),
		PublishedAt:     raw.PublishedAt,
		ChannelTitle:    raw.ChannelTitle,
		Tags:            strings.Join(raw.Tags, ","),
		CollectedAt:     time.Now().UTC().Format(time.RFC3339),
	}
}
