// Package webhook delivers accepted batches to a downstream consumer.
// Delivery is best-effort notification: the store write is the durable path,
// so failures are logged, never retried, and never affect persistence.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/anatolykoptev/go_tube/internal/collector"
)

// Notifier posts batch payloads to a configured endpoint.
type Notifier struct {
	url   string
	httpc *http.Client
}

var _ collector.Notifier = (*Notifier)(nil)

// New returns a notifier for the given endpoint URL.
func New(url string) *Notifier {
	return &Notifier{
		url:   url,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

// batchPayload is the webhook body: one accepted batch per task.
type batchPayload struct {
	RunID    string                  `json:"run_id"`
	Query    string                  `json:"query"`
	Category collector.Category      `json:"category"`
	Count    int                     `json:"count"`
	Records  []collector.VideoRecord `json:"records"`
	SentAt   string                  `json:"sent_at"`
}

// NotifyBatch posts the batch as JSON. A non-2xx response is an error for
// the caller to log; there is exactly one delivery attempt.
func (n *Notifier) NotifyBatch(ctx context.Context, runID string, task collector.SearchTask, records []collector.VideoRecord) error {
	collector.IncrWebhookPosts()

	body, err := json.Marshal(batchPayload{
		RunID:    runID,
		Query:    task.Query,
		Category: task.Category,
		Count:    len(records),
		Records:  records,
		SentAt:   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("webhook: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("webhook: HTTP %d: %s", resp.StatusCode, snippet)
	}
	return nil
}
