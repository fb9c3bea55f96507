// Package source retrieves a location's published menu document and turns it
// into plain text for parsing.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/cesargomez89/menusync/internal/constants"
	"github.com/cesargomez89/menusync/internal/logger"
)

var (
	ErrEmptySource = errors.New("source document is empty")
	ErrTooLarge    = errors.New("source document too large")
)

// StatusError is returned when the source server answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e StatusError) Error() string {
	return fmt.Sprintf("failed to fetch source: %s", e.Status)
}

type Option func(*retryablehttp.Client)

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(c *http.Client) Option {
	return func(rc *retryablehttp.Client) {
		rc.HTTPClient = c
	}
}

func WithRetry(retries int, waitMin, waitMax time.Duration) Option {
	return func(rc *retryablehttp.Client) {
		rc.RetryMax = retries
		rc.RetryWaitMin = waitMin
		rc.RetryWaitMax = waitMax
	}
}

// Fetcher downloads source documents. Responses are never cached.
type Fetcher struct {
	client *retryablehttp.Client
	logger *logger.Logger
}

func NewFetcher(log *logger.Logger, opts ...Option) *Fetcher {
	if log == nil {
		log = logger.Default()
	}
	log = log.WithComponent("source")

	rc := retryablehttp.NewClient()
	rc.Logger = log.Logger
	rc.RetryMax = constants.SourceRetryMax
	rc.RetryWaitMin = constants.SourceRetryWaitMin
	rc.RetryWaitMax = constants.SourceRetryWaitMax
	rc.HTTPClient.Timeout = constants.SourceHTTPTimeout
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.ResponseLogHook = func(_ retryablehttp.Logger, r *http.Response) {
		if r.StatusCode >= 400 {
			log.Warn("Source responded with error", "url", r.Request.URL.String(), "status", r.Status)
		}
	}
	for _, opt := range opts {
		opt(rc)
	}

	return &Fetcher{client: rc, logger: log}
}

// Fetch returns the raw bytes of the document at url.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build source request: %w", err)
	}
	req.Header.Set("User-Agent", constants.UserAgent)
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, constants.MaxSourceBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptySource
	}
	if len(data) > constants.MaxSourceBytes {
		return nil, ErrTooLarge
	}

	f.logger.Debug("Source fetched", "url", url, "bytes", len(data))
	return data, nil
}
