package httpclient

import (
	"context"
	"io"
	"net/http"
	"slices"
	"time"

	log "github.com/sirupsen/logrus"
)

// Doer sends a request. Providers depend on it so tests can substitute a fake.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// RetryConfig controls exponential backoff on transient failures
type RetryConfig struct {
	MaxRetries    uint
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	RetryOnStatus []int
}

// DefaultRetry retries throttling and gateway errors a handful of times
var DefaultRetry = RetryConfig{
	MaxRetries:    4,
	BaseDelay:     200 * time.Millisecond,
	MaxDelay:      5 * time.Second,
	RetryOnStatus: []int{http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable},
}

// Client is an http.Client that retries with exponential backoff
type Client struct {
	httpClient *http.Client
	retry      RetryConfig
}

// NewClient wraps httpClient (or a 30s-timeout default) with retries
func NewClient(httpClient *http.Client, retry RetryConfig) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{httpClient: httpClient, retry: retry}
}

// Do sends req, retrying on transport errors and the configured statuses.
// The last response is returned as-is once retries are exhausted.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	var lastErr error

	for attempt := uint(0); attempt <= c.retry.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		retryable := err != nil || slices.Contains(c.retry.RetryOnStatus, resp.StatusCode)
		if !retryable || attempt == c.retry.MaxRetries {
			return resp, err
		}
		if err != nil {
			lastErr = err
		} else {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		delay := c.backoff(attempt)
		log.Debugf("retrying %s in %s (attempt %d)", req.URL.Path, delay, attempt+1)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func (c *Client) backoff(attempt uint) time.Duration {
	delay := c.retry.BaseDelay * (1 << attempt)
	return min(delay, c.retry.MaxDelay)
}
