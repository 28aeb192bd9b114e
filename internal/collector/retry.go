package collector

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// RetryConfig controls retry behavior.
type RetryConfig struct {
	MaxRetries int
	Wait       time.Duration // fixed wait between attempts
}

// APIRetryConfig builds the retry policy for external API calls from config.
// Waits are fixed, not exponential: quota pressure comes from call volume,
// and the pacer already spaces calls out.
func APIRetryConfig() RetryConfig {
	return RetryConfig{MaxRetries: cfg.MaxRetries, Wait: cfg.RetryDelay}
}

// RetryDo retries fn up to MaxRetries times with a fixed delay.
// Retries only on retryable errors; returns immediately on non-retryable
// errors (quota exhaustion included) or context cancellation.
func RetryDo[T any](ctx context.Context, rc RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= rc.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryable(err) {
			return zero, err
		}

		if attempt < rc.MaxRetries {
			slog.Debug("retrying", slog.Int("attempt", attempt+1), slog.Duration("wait", rc.Wait), slog.Any("error", err))
			select {
			case <-time.After(rc.Wait):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}
	}
	return zero, lastErr
}

// RetryHTTP executes an HTTP request function with retry logic.
// The function should build and send the request; RetryHTTP handles response status checks.
func RetryHTTP(ctx context.Context, rc RetryConfig, fn func() (*http.Response, error)) (*http.Response, error) {
	return RetryDo(ctx, rc, func() (*http.Response, error) {
		resp, err := fn()
		if err != nil {
			return nil, err
		}
		if isRetryableStatus(resp.StatusCode) {
			resp.Body.Close()
			return nil, &httpStatusError{StatusCode: resp.StatusCode}
		}
		return resp, nil
	})
}
