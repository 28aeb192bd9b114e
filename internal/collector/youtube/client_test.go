package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anatolykoptev/go_tube/internal/collector"
)

const searchFixture = `{
	"items": [
		{"id": {"videoId": "vid00000001"}, "snippet": {"title": "First", "channelTitle": "Chan A"}},
		{"id": {"videoId": "vid00000002"}, "snippet": {"title": "Second", "channelTitle": "Chan B"}},
		{"id": {}, "snippet": {"title": "Channel result, no video id"}}
	]
}`

const videosFixture = `{
	"items": [
		{
			"id": "vid00000001",
			"snippet": {
				"title": "First",
				"channelTitle": "Chan A",
				"publishedAt": "2026-07-01T10:00:00Z",
				"tags": ["one", "two"]
			},
			"contentDetails": {"duration": "PT4M13S", "caption": "true"},
			"statistics": {"viewCount": "12345", "likeCount": "67"}
		}
	]
}`

const quotaFixture = `{
	"error": {
		"code": 403,
		"message": "The request cannot be completed because you have exceeded your quota.",
		"errors": [{"reason": "quotaExceeded"}]
	}
}`

func testClient(t *testing.T, handler http.Handler, keys ...string) (*Client, *httptest.Server) {
	t.Helper()
	collector.Init(collector.Config{MaxRetries: 1, RetryDelay: time.Millisecond})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	if len(keys) == 0 {
		keys = []string{"test-key"}
	}
	return &Client{
		keys:    keys,
		baseURL: srv.URL,
		httpc:   srv.Client(),
		pacer:   collector.NewPacer(0),
	}, srv
}

func TestSearch(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("type") != "video" {
			t.Error("search must be restricted to videos")
		}
		fmt.Fprint(w, searchFixture)
	}))

	got, err := client.Search(context.Background(), "baby laughing", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("candidates = %d, want 2 (entries without video id dropped)", len(got))
	}
	if got[0].ID != "vid00000001" || got[0].Title != "First" {
		t.Errorf("first candidate = %+v", got[0])
	}
}

func TestDetails(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/videos" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, videosFixture)
	}))

	got, err := client.Details(context.Background(), []string{"vid00000001", "gone0000001"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, ok := got["vid00000001"]
	if !ok {
		t.Fatal("vid00000001 missing from response")
	}
	if raw.Duration != "PT4M13S" || raw.ViewCount != "12345" || raw.CommentCount != "" {
		t.Errorf("raw = %+v", raw)
	}
	if _, ok := got["gone0000001"]; ok {
		t.Error("deleted video must be absent, not zero-valued")
	}
}

func TestDetailsEmptyIDs(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no API call expected for an empty ID batch")
	}))

	got, err := client.Details(context.Background(), nil)
	if err != nil || len(got) != 0 {
		t.Errorf("got (%v, %v), want empty map", got, err)
	}
}

func TestQuotaExhaustion(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, quotaFixture)
	}))

	_, err := client.Search(context.Background(), "q", 5)
	if !collector.IsQuota(err) {
		t.Fatalf("expected quota error, got %v", err)
	}
}

func TestQuotaFallbackKey(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") == "dead-key" {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, quotaFixture)
			return
		}
		fmt.Fprint(w, searchFixture)
	}), "dead-key", "live-key")

	got, err := client.Search(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("fallback key should have succeeded: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("candidates = %d, want 2", len(got))
	}
}

func TestTransientRetryThenSuccess(t *testing.T) {
	calls := 0
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, searchFixture)
	}))

	_, err := client.Search(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("expected retry to recover: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestNonQuota403IsPlainError(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error": {"code": 403, "errors": [{"reason": "forbidden"}]}}`)
	}))

	_, err := client.Search(context.Background(), "q", 5)
	if err == nil {
		t.Fatal("expected error")
	}
	if collector.IsQuota(err) {
		t.Error("plain 403 must not classify as quota exhaustion")
	}
}
