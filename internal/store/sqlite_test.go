package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_tube/internal/collector"
)

func testRecord(id string) collector.VideoRecord {
	return collector.VideoRecord{
		VideoID:         id,
		Title:           "Title " + id,
		URL:             "https://www.youtube.com/watch?v=" + id,
		Category:        collector.CategoryFunny,
		SearchQuery:     "funny cats",
		DurationSeconds: 253,
		ViewCount:       12345,
		LikeCount:       67,
		PublishedAt:     "2026-07-01T10:00:00Z",
		ChannelTitle:    "Chan A",
		Tags:            "one,two",
		CollectedAt:     "2026-08-26T12:00:00Z",
	}
}

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	st, err := OpenSQLite(filepath.Join(t.TempDir(), "videos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSQLiteAppendAndLoad(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	ids, err := st.LoadIDs(ctx)
	require.NoError(t, err)
	require.Empty(t, ids)

	written, err := st.Append(ctx, []collector.VideoRecord{testRecord("vid00000001"), testRecord("vid00000002")})
	require.NoError(t, err)
	require.Equal(t, 2, written)

	ids, err = st.LoadIDs(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"vid00000001", "vid00000002"}, ids)
}

func TestSQLiteAppendSkipsExisting(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	_, err := st.Append(ctx, []collector.VideoRecord{testRecord("vid00000001")})
	require.NoError(t, err)

	// Re-appending the same row plus a new one persists only the new one.
	written, err := st.Append(ctx, []collector.VideoRecord{testRecord("vid00000001"), testRecord("vid00000002")})
	require.NoError(t, err)
	require.Equal(t, 1, written)

	ids, err := st.LoadIDs(ctx)
	require.NoError(t, err)
	require.Len(t, ids, 2)
}

func TestSQLiteAppendDuplicateWithinBatch(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	written, err := st.Append(ctx, []collector.VideoRecord{
		testRecord("vid00000001"),
		testRecord("vid00000001"),
	})
	require.NoError(t, err)
	require.Equal(t, 1, written)
}

func TestSQLiteRoundTripFields(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	rec := testRecord("vid00000001")
	_, err := st.Append(ctx, []collector.VideoRecord{rec})
	require.NoError(t, err)

	var title, category, tags string
	var duration, views int64
	err = st.db.QueryRowContext(ctx,
		`SELECT title, category, tags, duration_seconds, view_count FROM videos WHERE video_id = ?`,
		rec.VideoID,
	).Scan(&title, &category, &tags, &duration, &views)
	require.NoError(t, err)
	require.Equal(t, rec.Title, title)
	require.Equal(t, string(rec.Category), category)
	require.Equal(t, rec.Tags, tags)
	require.Equal(t, rec.DurationSeconds, duration)
	require.Equal(t, rec.ViewCount, views)
}
