package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/anatolykoptev/go_tube/internal/collector"
)

const (
	dataAPIBase = "https://www.googleapis.com/youtube/v3"

	// UserAgent identifies the collector to external services.
	UserAgent = "GoTube/1.0"
)

// quotaReasons are Data API error reasons that mean the daily quota is gone
// for good (as opposed to per-minute throttling, which is transient).
var quotaReasons = map[string]bool{
	"quotaExceeded":      true,
	"dailyLimitExceeded": true,
}

// Client is the quota-aware Data API v3 client. All calls go through a shared
// pacer enforcing the configured minimum inter-call delay; daily-quota errors
// surface as *collector.QuotaError after the fallback key (when configured)
// has been tried.
type Client struct {
	keys    []string
	baseURL string
	httpc   *http.Client
	pacer   *collector.Pacer
}

// NewClient builds a client from the collector configuration.
func NewClient() *Client {
	keys := []string{collector.Cfg.APIKey}
	if collector.Cfg.APIKeyFallback != "" {
		keys = append(keys, collector.Cfg.APIKeyFallback)
	}
	return &Client{
		keys:    keys,
		baseURL: dataAPIBase,
		httpc:   collector.Cfg.HTTPClient,
		pacer:   collector.NewPacer(collector.Cfg.APIDelay),
	}
}

// Search returns candidate video IDs for a query via /search.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]collector.Candidate, error) {
	collector.IncrSearchRequests()
	if maxResults <= 0 || maxResults > 50 {
		maxResults = 25
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("maxResults", fmt.Sprintf("%d", maxResults))

	var result searchResp
	if err := c.call(ctx, "/search", params, &result); err != nil {
		return nil, err
	}

	candidates := make([]collector.Candidate, 0, len(result.Items))
	for _, item := range result.Items {
		if item.ID.VideoID == "" {
			continue
		}
		candidates = append(candidates, collector.Candidate{
			ID:           item.ID.VideoID,
			Title:        item.Snippet.Title,
			ChannelTitle: item.Snippet.ChannelTitle,
		})
	}
	return candidates, nil
}

// Details fetches metadata for up to 50 video IDs in one /videos call.
// IDs absent from the response (deleted/private videos) are simply missing
// from the returned map.
func (c *Client) Details(ctx context.Context, ids []string) (map[string]collector.RawVideo, error) {
	if len(ids) == 0 {
		return map[string]collector.RawVideo{}, nil
	}
	collector.IncrDetailRequests()

	params := url.Values{}
	params.Set("part", "snippet,contentDetails,statistics")
	params.Set("id", strings.Join(ids, ","))

	var result videosResp
	if err := c.call(ctx, "/videos", params, &result); err != nil {
		return nil, err
	}

	videos := make(map[string]collector.RawVideo, len(result.Items))
	for _, item := range result.Items {
		if item.ID == "" {
			continue
		}
		videos[item.ID] = collector.RawVideo{
			ID:           item.ID,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
			Duration:     item.ContentDetails.Duration,
			Tags:         item.Snippet.Tags,
			ViewCount:    item.Statistics.ViewCount,
			LikeCount:    item.Statistics.LikeCount,
			CommentCount: item.Statistics.CommentCount,
		}
	}
	return videos, nil
}

// call runs one Data API request, trying the fallback key when the primary
// reports quota exhaustion. Non-quota errors return immediately.
func (c *Client) call(ctx context.Context, endpoint string, params url.Values, out any) error {
	var lastErr error
	for i, key := range c.keys {
		err := c.doCall(ctx, endpoint, params, key, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !collector.IsQuota(err) {
			return err
		}
		if i < len(c.keys)-1 {
			slog.Warn("api key quota exhausted, trying fallback key", slog.Any("error", err))
		}
	}
	return lastErr
}

func (c *Client) doCall(ctx context.Context, endpoint string, params url.Values, apiKey string, out any) error {
	if err := c.pacer.Wait(ctx); err != nil {
		return err
	}

	p := url.Values{}
	for k, v := range params {
		p[k] = v
	}
	p.Set("key", apiKey)
	apiURL := c.baseURL + endpoint + "?" + p.Encode()

	resp, err := collector.RetryHTTP(ctx, collector.APIRetryConfig(), func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", UserAgent)
		return c.httpc.Do(req)
	})
	if err != nil {
		return fmt.Errorf("youtube data API %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if reason := quotaReason(body); reason != "" {
			return &collector.QuotaError{Reason: reason}
		}
		return fmt.Errorf("youtube data API %s: HTTP %d: %s", endpoint, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode youtube data API %s: %w", endpoint, err)
	}
	return nil
}

// quotaReason extracts the daily-quota error reason from an API error body,
// or "" when the error is something else.
func quotaReason(body []byte) string {
	var apiErr apiErrorResp
	if err := json.Unmarshal(body, &apiErr); err != nil {
		return ""
	}
	for _, e := range apiErr.Error.Errors {
		if quotaReasons[e.Reason] {
			return e.Reason
		}
	}
	return ""
}
