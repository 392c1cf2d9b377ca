// Package marketdata fetches live token market data and keeps the record
// store current.
package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pokelaunch/internal/observability"
)

// Default configuration values.
const (
	DefaultDexScreenerURL = "https://api.dexscreener.com/latest/dex"
	DefaultSolscanURL     = "https://api.solscan.io"
	DefaultSolscanMetaURL = "https://public-api.solscan.io"

	DefaultTimeout     = 15 * time.Second
	DefaultMaxRetries  = 2
	DefaultRetryDelay  = 500 * time.Millisecond
	DefaultMaxDelay    = 5 * time.Second
	DefaultBackoffMult = 2.0

	// MaxBatchSize is the most addresses DexScreener accepts per request.
	MaxBatchSize = 30
)

// errNotFoundStatus marks a 404 response. It is not retried.
var errNotFoundStatus = errors.New("not found")

// Client talks to DexScreener for prices and Solscan for holder counts.
type Client struct {
	dexURL      string
	solscanURL  string
	metaURL     string
	client      *http.Client
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// WithMaxDelay sets maximum retry delay.
func WithMaxDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.maxDelay = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithBaseURLs overrides the API endpoints. Empty values keep the default.
func WithBaseURLs(dexScreener, solscan, solscanMeta string) ClientOption {
	return func(c *Client) {
		if dexScreener != "" {
			c.dexURL = strings.TrimRight(dexScreener, "/")
		}
		if solscan != "" {
			c.solscanURL = strings.TrimRight(solscan, "/")
		}
		if solscanMeta != "" {
			c.metaURL = strings.TrimRight(solscanMeta, "/")
		}
	}
}

// NewClient creates a new market data client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		dexURL:      DefaultDexScreenerURL,
		solscanURL:  DefaultSolscanURL,
		metaURL:     DefaultSolscanMetaURL,
		client:      &http.Client{Timeout: DefaultTimeout},
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxDelay:    DefaultMaxDelay,
		backoffMult: DefaultBackoffMult,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Quotes fetches market data for mints, MaxBatchSize addresses per request.
// Mints without pairs are absent from the result. A failed batch is skipped
// and reported in the returned error while the other batches still count.
func (c *Client) Quotes(ctx context.Context, mints []string) (map[string]Quote, error) {
	result := make(map[string]Quote, len(mints))
	var errs []error

	for _, batch := range Batches(mints, MaxBatchSize) {
		var resp dexResponse
		endpoint := c.dexURL + "/tokens/" + strings.Join(batch, ",")

		start := time.Now()
		err := c.getJSON(ctx, endpoint, &resp)
		observability.RecordUpstreamCall("dexscreener", time.Since(start).Seconds(), err)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			errs = append(errs, fmt.Errorf("dexscreener batch of %d: %w", len(batch), err))
			continue
		}

		for mint, q := range quotesFromPairs(resp.Pairs) {
			result[mint] = q
		}
	}

	return result, errors.Join(errs...)
}

// Holders returns the holder count for mint from Solscan, trying the
// holders endpoint first and the token meta endpoint second. ok is false
// when neither reports a positive count.
func (c *Client) Holders(ctx context.Context, mint string) (count int64, ok bool, err error) {
	start := time.Now()
	defer func() {
		observability.RecordUpstreamCall("solscan", time.Since(start).Seconds(), err)
	}()

	var holders solscanHolders
	primary := c.solscanURL + "/token/holders?" + url.Values{
		"token":  {mint},
		"offset": {"0"},
		"size":   {"1"},
	}.Encode()
	if perr := c.getJSON(ctx, primary, &holders); perr == nil && holders.Data.Total > 0 {
		return holders.Data.Total, true, nil
	} else if ctx.Err() != nil {
		return 0, false, ctx.Err()
	}

	var meta solscanMeta
	fallback := c.metaURL + "/token/meta?" + url.Values{"tokenAddress": {mint}}.Encode()
	if ferr := c.getJSON(ctx, fallback, &meta); ferr != nil {
		if errors.Is(ferr, errNotFoundStatus) {
			return 0, false, nil
		}
		return 0, false, ferr
	}
	if meta.Holder > 0 {
		return meta.Holder, true, nil
	}
	return 0, false, nil
}

// getJSON performs a GET with retries and exponential backoff.
func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return errNotFoundStatus
		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = fmt.Errorf("rate limited (429)")
			continue
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("unexpected status %d", resp.StatusCode)
			continue
		case resp.StatusCode != http.StatusOK:
			return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(body, 200))
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// Batches splits items into consecutive chunks of at most size.
func Batches(items []string, size int) [][]string {
	if size <= 0 {
		size = MaxBatchSize
	}
	var out [][]string
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[i:end])
	}
	return out
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
