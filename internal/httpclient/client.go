package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/cesargomez89/menusync/internal/constants"
)

// HTTPError reports an unexpected response status.
type HTTPError struct {
	StatusCode int
	Status     string
}

func (e HTTPError) Error() string {
	return fmt.Sprintf("unexpected status: %s", e.Status)
}

// Client wraps an http.Client to provide request pacing and automatic
// retries of throttled or unavailable responses.
type Client struct {
	httpClient *http.Client

	minRequestInterval time.Duration
	retryCount         int
	retryBase          time.Duration
	lastRequest        time.Time
	mu                 sync.Mutex
}

type Option func(*Client)

// WithRetry sets how many attempts are made and the linear backoff step.
func WithRetry(attempts int, base time.Duration) Option {
	return func(c *Client) {
		c.retryCount = attempts
		c.retryBase = base
	}
}

// NewClient creates a new paced, retrying HTTP client.
func NewClient(httpClient *http.Client, minRequestInterval time.Duration, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: constants.LLMHTTPTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		}
	}
	c := &Client{
		httpClient:         httpClient,
		minRequestInterval: minRequestInterval,
		retryCount:         constants.DefaultRetryCount,
		retryBase:          constants.DefaultRetryBase,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.retryCount < 1 {
		c.retryCount = 1
	}
	return c
}

// Do executes an HTTP request with pacing and retries. Request bodies are
// replayed through req.GetBody between attempts.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)

	var lastErr error
	for attempt := 0; attempt < c.retryCount; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("failed to rewind request body: %w", err)
			}
			req.Body = body
		}

		if err := sleep(ctx, c.reserve()); err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
		} else if resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := ParseRetryAfter(resp)
			io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			lastErr = HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}

			if retryAfter > 0 {
				c.mu.Lock()
				next := time.Now().Add(retryAfter)
				if c.lastRequest.Before(next) {
					c.lastRequest = next
				}
				c.mu.Unlock()
			}

			backoffWait := time.Duration(attempt+1) * c.retryBase
			if retryAfter > backoffWait {
				backoffWait = retryAfter
			}
			if attempt+1 < c.retryCount {
				if err := sleep(ctx, backoffWait); err != nil {
					return nil, err
				}
			}
			continue
		} else {
			return resp, nil
		}

		if attempt+1 < c.retryCount {
			if err := sleep(ctx, time.Duration(attempt+1)*c.retryBase); err != nil {
				return nil, err
			}
		}
	}
	return nil, lastErr
}

// reserve claims the next request slot and returns how long to wait for it.
func (c *Client) reserve() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	nextAllowed := c.lastRequest.Add(c.minRequestInterval)
	if now.Before(nextAllowed) {
		c.lastRequest = nextAllowed
		return nextAllowed.Sub(now)
	}
	c.lastRequest = now
	return 0
}

// GetUnderlyingClient returns the underlying *http.Client.
func (c *Client) GetUnderlyingClient() *http.Client {
	return c.httpClient
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ParseRetryAfter reads a Retry-After header and returns the duration to
// wait. It accepts delta-seconds or an HTTP date; zero means no hint.
func ParseRetryAfter(resp *http.Response) time.Duration {
	ra := resp.Header.Get(constants.HeaderRetryAfter)
	if ra == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(ra); err == nil {
		if seconds <= 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(ra); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// HasRetryAfter reports whether the response carries a parseable hint,
// including an explicit zero.
func HasRetryAfter(resp *http.Response) bool {
	ra := resp.Header.Get(constants.HeaderRetryAfter)
	if ra == "" {
		return false
	}
	if _, err := strconv.Atoi(ra); err == nil {
		return true
	}
	_, err := http.ParseTime(ra)
	return err == nil
}
