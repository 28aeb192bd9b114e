// Package store provides destination-store backends for accepted video
// records. Every backend implements collector.Store: load the current
// video-ID set, append new rows. Writes are append-only and re-check for
// duplicates at write time — the store may be shared with writers outside
// this process.
package store

import (
	"strconv"

	"github.com/anatolykoptev/go_tube/internal/collector"
)

// Columns is the destination store header, in append order.
var Columns = []string{
	"video_id", "title", "url", "category", "search_query",
	"duration_seconds", "view_count", "like_count", "comment_count",
	"published_at", "channel_title", "tags", "collected_at",
}

// rowValues flattens a record into column order for tabular backends.
func rowValues(r collector.VideoRecord) []any {
	return []any{
		r.VideoID, r.Title, r.URL, string(r.Category), r.SearchQuery,
		strconv.FormatInt(r.DurationSeconds, 10),
		strconv.FormatInt(r.ViewCount, 10),
		strconv.FormatInt(r.LikeCount, 10),
		strconv.FormatInt(r.CommentCount, 10),
		r.PublishedAt, r.ChannelTitle, r.Tags, r.CollectedAt,
	}
}
