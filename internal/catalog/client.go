// Package catalog implements the client side of the Azure Retail Prices API:
// query construction, the HTTP fetch with rate-limit retries, and the wire
// types of the response envelope.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the public retail prices endpoint. The API is
	// unauthenticated; no credentials are ever attached.
	DefaultBaseURL = "https://prices.azure.com/api/retail/prices"

	// APIVersion is the fixed preview version string sent with every request.
	APIVersion = "2023-01-01-preview"

	// DefaultCurrency is used when a query does not name a currency.
	DefaultCurrency = "USD"

	// DefaultLimit is the result cap used when a query does not set one.
	DefaultLimit = 50

	// MaxPageSize is the upstream hard cap on $top. Requests at or above it
	// omit the parameter and let the catalog pick its own page size.
	MaxPageSize = 1000

	// maxRetries is the number of additional attempts after a rate-limited
	// response. With the linear backoff below, the worst case adds 30s
	// (5 + 10 + 15) before the failure surfaces.
	maxRetries = 3

	// backoffUnit is the linear backoff base: attempt n waits n × backoffUnit.
	backoffUnit = 5 * time.Second

	defaultTimeout = 60 * time.Second
)

// ErrRateLimited reports that the catalog kept answering HTTP 429 after all
// retries were spent.
var ErrRateLimited = errors.New("catalog rate limited")

// StatusError is returned for any non-2xx response other than 429. These are
// never retried.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog returned status %d", e.StatusCode)
}

// Client fetches pricing pages from the retail price catalog. One Client is
// scoped to a single top-level invocation: create it when the operation
// starts and Close it on every exit path. It holds no mutable state beyond
// the underlying HTTP connection pool.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  zerolog.Logger
	backoff time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different catalog endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// WithBackoffUnit overrides the linear backoff base. Tests use this to avoid
// multi-second sleeps.
func WithBackoffUnit(d time.Duration) Option {
	return func(c *Client) { c.backoff = d }
}

// NewClient creates a catalog client. The logger is used for retry warnings
// and per-fetch diagnostics.
func NewClient(logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpc:   &http.Client{Timeout: defaultTimeout},
		logger:  logger,
		backoff: backoffUnit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases idle connections held by the client.
func (c *Client) Close() {
	c.httpc.CloseIdleConnections()
}

// Fetch issues one catalog query and decodes the response envelope.
//
// A 429 response is retried up to maxRetries additional times with linear
// backoff (5s, 10s, 15s); every other failure, HTTP or transport, propagates
// immediately. At most maxRetries+1 requests are sent.
func (c *Client) Fetch(ctx context.Context, q Query) (*Page, error) {
	for attempt := 0; ; attempt++ {
		page, retryable, err := c.fetchOnce(ctx, q)
		if err == nil {
			return page, nil
		}
		if !retryable || attempt >= maxRetries {
			return nil, err
		}

		wait := time.Duration(attempt+1) * c.backoff
		c.logger.Warn().
			Int("attempt", attempt+1).
			Dur("backoff", wait).
			Msg("catalog rate limited, backing off")

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// fetchOnce performs a single request. The second return value reports
// whether the failure is a rate limit and therefore worth retrying.
func (c *Client) fetchOnce(ctx context.Context, q Query) (*Page, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("building catalog request: %w", err)
	}
	req.URL.RawQuery = q.Params().Encode()

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("fetching catalog page: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, true, ErrRateLimited
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, false, &StatusError{StatusCode: resp.StatusCode}
	}

	var page Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, false, fmt.Errorf("decoding catalog response: %w", err)
	}

	c.logger.Debug().
		Str("filter", q.Params().Get("$filter")).
		Int("items", len(page.Items)).
		Bool("has_more", page.NextPageLink != "").
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("catalog page fetched")

	return &page, false, nil
}
