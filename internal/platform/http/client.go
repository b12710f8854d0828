package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// ErrNoData marks a request that failed in a way the pipeline treats as
// "no data for this ticker": transport failure after retries, or a non-2xx
// response other than 429. Callers discard and move on, never abort.
var ErrNoData = errors.New("no data available")

// ErrRateLimitBudget is returned when the cumulative wait demanded by 429
// responses exceeds the configured budget.
var ErrRateLimitBudget = errors.New("rate limit wait budget exhausted")

// Client is a wrapper for HTTP client with rate limiting and retries.
type Client struct {
	httpClient        *http.Client
	limiter           *rate.Limiter
	defaultRetryAfter time.Duration
	maxRateLimitWait  time.Duration
	transportRetry    time.Duration
	sleep             func(ctx context.Context, d time.Duration) error
	logger            zerolog.Logger
}

// ClientOptions holds options for creating a new Client.
type ClientOptions struct {
	Timeout           time.Duration
	RequestsPerSec    int
	DefaultRetryAfter time.Duration
	MaxRateLimitWait  time.Duration
	TransportRetry    time.Duration
	// Sleep performs rate-limit waits; tests inject a fake clock here.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a new HTTP client with rate limiting.
func NewClient(opts ClientOptions) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerSec == 0 {
		opts.RequestsPerSec = 5
	}
	if opts.DefaultRetryAfter == 0 {
		opts.DefaultRetryAfter = 5 * time.Second
	}
	if opts.MaxRateLimitWait == 0 {
		opts.MaxRateLimitWait = 5 * time.Minute
	}
	if opts.TransportRetry == 0 {
		opts.TransportRetry = 15 * time.Second
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		limiter:           rate.NewLimiter(rate.Every(time.Second), opts.RequestsPerSec),
		defaultRetryAfter: opts.DefaultRetryAfter,
		maxRateLimitWait:  opts.MaxRateLimitWait,
		transportRetry:    opts.TransportRetry,
		sleep:             opts.Sleep,
		logger:            log.With().Str("component", "http_client").Logger(),
	}
}

// GetJSON performs a GET request and decodes the JSON response into out.
//
// 429 responses are retried after the wait the provider asks for, taken
// from the Retry-After header or a retryAfter body field depending on the
// provider version. Cumulative 429 waiting is capped by MaxRateLimitWait.
// Any other failure degrades to ErrNoData after transport-level retries.
func (c *Client) GetJSON(ctx context.Context, url string, out interface{}) error {
	var waited time.Duration

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doWithRetry(ctx, url)
		if err != nil {
			c.logger.Warn().Err(err).Str("url", url).Msg("Request failed after retries")
			return fmt.Errorf("%w: %v", ErrNoData, err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			c.logger.Warn().Err(err).Str("url", url).Msg("Reading response body failed")
			return fmt.Errorf("%w: reading body: %v", ErrNoData, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			wait := retryAfterHint(resp.Header, body, c.defaultRetryAfter)
			if waited+wait > c.maxRateLimitWait {
				return fmt.Errorf("%w: waited %s, next wait %s exceeds budget %s",
					ErrRateLimitBudget, waited, wait, c.maxRateLimitWait)
			}
			c.logger.Info().Dur("wait", wait).Str("url", url).Msg("Rate limited, waiting")
			if err := c.sleep(ctx, wait); err != nil {
				return err
			}
			waited += wait
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			c.logger.Warn().
				Int("status", resp.StatusCode).
				Str("url", url).
				Str("body", truncate(body, 256)).
				Msg("Non-2xx response")
			return fmt.Errorf("%w: status %d", ErrNoData, resp.StatusCode)
		}

		if err := json.Unmarshal(body, out); err != nil {
			c.logger.Warn().Err(err).Str("url", url).Msg("Error parsing JSON")
			return fmt.Errorf("%w: parsing JSON: %v", ErrNoData, err)
		}
		return nil
	}
}

// doWithRetry issues the request, retrying transient transport errors with
// exponential backoff. Non-transport failures are judged by the caller.
func (c *Client) doWithRetry(ctx context.Context, url string) (*http.Response, error) {
	var resp *http.Response
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		resp, err = c.httpClient.Do(req)
		return err
	}

	backoffStrategy := backoff.NewExponentialBackOff()
	backoffStrategy.MaxElapsedTime = c.transportRetry

	if err := backoff.Retry(operation, backoff.WithContext(backoffStrategy, ctx)); err != nil {
		return nil, err
	}
	return resp, nil
}

// retryAfterHint reads the provider-specified wait for a 429 response.
// Older provider versions send a Retry-After header in seconds, newer ones
// a retryAfter field in the JSON body; both are supported.
func retryAfterHint(header http.Header, body []byte, fallback time.Duration) time.Duration {
	if v := header.Get("Retry-After"); v != "" {
		if sec, err := strconv.Atoi(v); err == nil && sec > 0 {
			return time.Duration(sec) * time.Second
		}
	}

	var payload struct {
		RetryAfter float64 `json:"retryAfter"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.RetryAfter > 0 {
		return time.Duration(payload.RetryAfter * float64(time.Second))
	}

	return fallback
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
