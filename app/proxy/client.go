// Package proxy fetches raw feed markup through an allorigins-style proxy
// that wraps the upstream response in a JSON envelope.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/lysyi3m/rss-reader/app/feed"
	"github.com/lysyi3m/rss-reader/app/metrics"
	"github.com/sony/gobreaker"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const maxEnvelopeSize = 10 << 20

type Config struct {
	ProxyURL  string
	UserAgent string
	Timeout   time.Duration
	RateLimit float64 // requests per second, <= 0 disables limiting
}

// upstreamError means the proxy answered but the target resource did not.
// It does not count against the proxy's circuit breaker.
type upstreamError struct {
	msg string
}

func (e *upstreamError) Error() string {
	return e.msg
}

type Client struct {
	httpClient *http.Client
	proxyURL   *url.URL
	userAgent  string
	timeout    time.Duration
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
}

func NewClient(httpClient *http.Client, cfg Config) (*Client, error) {
	proxyURL, err := url.Parse(cfg.ProxyURL)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL: %w", err)
	}
	if proxyURL.Scheme == "" || proxyURL.Host == "" {
		return nil, fmt.Errorf("proxy URL must be absolute: %s", cfg.ProxyURL)
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(1, int(cfg.RateLimit)))
	}

	return &Client{
		httpClient: httpClient,
		proxyURL:   proxyURL,
		userAgent:  cfg.UserAgent,
		timeout:    timeout,
		limiter:    limiter,
		breaker:    newBreaker(),
	}, nil
}

func newBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "feed-proxy",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.7
		},
		IsSuccessful: func(err error) bool {
			var upstream *upstreamError
			return err == nil || errors.As(err, &upstream)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed", "circuit", name, "from", from.String(), "to", to.String())
		},
	})
}

// Fetch returns the raw markup of target. Every failure is a network_error;
// the client never retries.
func (c *Client) Fetch(ctx context.Context, target string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		metrics.RecordFetchError("rate_limit")
		return nil, feed.NewError(feed.KindNetwork, fmt.Errorf("rate limiter: %w", err))
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doFetch(ctx, target)
	})
	if err != nil {
		reason := "transport"
		var upstream *upstreamError
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			reason = "circuit_open"
			slog.Warn("Proxy circuit breaker open, request rejected", "url", target, "state", c.breaker.State().String())
		case errors.As(err, &upstream):
			reason = "upstream"
		}
		metrics.RecordFetchError(reason)
		return nil, feed.NewError(feed.KindNetwork, err)
	}

	return result.([]byte), nil
}

func (c *Client) doFetch(ctx context.Context, target string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, c.buildURL(target), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxEnvelopeSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) > maxEnvelopeSize {
		return nil, fmt.Errorf("proxy envelope too large: exceeds %d bytes", maxEnvelopeSize)
	}

	return c.unwrapEnvelope(body)
}

func (c *Client) buildURL(target string) string {
	u := *c.proxyURL
	query := u.Query()
	query.Set("disableCache", "true")
	query.Set("url", target)
	u.RawQuery = query.Encode()
	return u.String()
}

// unwrapEnvelope extracts contents from {"contents": "...", "status": {...}}.
func (c *Client) unwrapEnvelope(body []byte) ([]byte, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("proxy returned an invalid JSON envelope")
	}

	envelope := gjson.ParseBytes(body)

	if status := envelope.Get("status.error"); status.Exists() && status.Type != gjson.Null {
		return nil, &upstreamError{msg: fmt.Sprintf("upstream error: %s", status.String())}
	}

	if code := envelope.Get("status.http_code"); code.Exists() && code.Type == gjson.Number {
		if code.Int() < 200 || code.Int() > 299 {
			return nil, &upstreamError{msg: fmt.Sprintf("upstream HTTP error: %d", code.Int())}
		}
	}

	contents := envelope.Get("contents")
	if contents.Type != gjson.String {
		return nil, &upstreamError{msg: "proxy envelope has no contents"}
	}

	return []byte(contents.String()), nil
}
