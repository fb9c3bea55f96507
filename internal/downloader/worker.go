package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/cesargomez89/menusync/internal/constants"
	"github.com/cesargomez89/menusync/internal/httpclient"
	"github.com/cesargomez89/menusync/internal/logger"
	"github.com/cesargomez89/menusync/internal/metrics"
	"github.com/cesargomez89/menusync/internal/storage"
)

var (
	ErrPayloadTooSmall = errors.New("image payload too small")
	ErrPayloadTooLarge = errors.New("image payload too large")
	errRequeueLimit    = errors.New("rate limit requeue limit reached")
)

// Result is delivered exactly once per enqueued task. Reference is empty only
// when even the fallback asset could not be produced.
type Result struct {
	Reference string
	Fallback  bool
}

type Options struct {
	ImagesDir         string
	URLPrefix         string
	MinDelay          time.Duration
	MaxDelay          time.Duration
	DefaultRetryAfter time.Duration
	RetryAfterPadding time.Duration
	RetryCount        int
	RetryBase         time.Duration
	RequestTimeout    time.Duration
	MinBytes          int
	MaxBytes          int64
	MaxRequeues       int
}

func DefaultOptions(imagesDir, urlPrefix string) Options {
	return Options{
		ImagesDir:         imagesDir,
		URLPrefix:         urlPrefix,
		MinDelay:          constants.MinQueueDelay,
		MaxDelay:          constants.MaxQueueDelay,
		DefaultRetryAfter: constants.DefaultRetryAfter,
		RetryAfterPadding: constants.RetryAfterPadding,
		RetryCount:        constants.DefaultRetryCount,
		RetryBase:         constants.DefaultRetryBase,
		RequestTimeout:    constants.ImageRequestTimeout,
		MinBytes:          constants.MinImageBytes,
		MaxBytes:          constants.MaxImageBytes,
		MaxRequeues:       constants.MaxRateLimitRequeues,
	}
}

type task struct {
	sourceURL  string
	targetName string
	label      string
	retryCount int
	requeues   int
	result     chan Result
}

type outcome int

const (
	outcomeDone outcome = iota
	outcomeRequeued
	outcomeFailed
	outcomeAbandoned
)

// Queue downloads generated images one at a time in FIFO order. The worker
// goroutine exists only while tasks are pending.
type Queue struct {
	client  *http.Client
	opts    Options
	logger  *logger.Logger
	metrics *metrics.Metrics
	limiter *rate.Limiter

	mu      sync.Mutex
	pending []*task
	running bool
	delay   time.Duration

	fallbackGroup singleflight.Group
	fallbackMu    sync.Mutex
	fallbackRef   string
}

func NewQueue(client *http.Client, opts Options, log *logger.Logger, m *metrics.Metrics) *Queue {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = logger.Default()
	}
	if opts.MinDelay <= 0 {
		opts.MinDelay = constants.MinQueueDelay
	}
	if opts.MaxDelay < opts.MinDelay {
		opts.MaxDelay = opts.MinDelay
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = constants.MaxImageBytes
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = constants.ImageRequestTimeout
	}

	q := &Queue{
		client:  client,
		opts:    opts,
		logger:  log.WithComponent("image_queue"),
		metrics: m,
		limiter: rate.NewLimiter(rate.Every(opts.MinDelay), 1),
		delay:   opts.MinDelay,
	}
	m.Delay(q.delay)
	return q
}

// Enqueue appends a download task and returns a channel that receives its
// single result.
func (q *Queue) Enqueue(sourceURL, targetName, label string) <-chan Result {
	t := &task{
		sourceURL:  sourceURL,
		targetName: targetName,
		label:      label,
		result:     make(chan Result, 1),
	}

	q.mu.Lock()
	q.pending = append(q.pending, t)
	depth := len(q.pending)
	start := !q.running
	q.running = true
	q.mu.Unlock()

	q.metrics.QueueDepth(depth)
	q.logger.Debug("Image queued", "label", label, "target", targetName, "depth", depth)

	if start {
		go q.run()
	}
	return t.result
}

// Len returns the number of tasks waiting, excluding the one in flight.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Delay returns the current pause between provider requests.
func (q *Queue) Delay() time.Duration {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.delay
}

func (q *Queue) run() {
	ctx := context.Background()
	for t := q.next(); t != nil; t = q.next() {
		q.process(ctx, t)
	}
	q.logger.Debug("Image queue drained")
}

func (q *Queue) next() *task {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		q.running = false
		return nil
	}
	t := q.pending[0]
	q.pending[0] = nil
	q.pending = q.pending[1:]
	q.metrics.QueueDepth(len(q.pending))
	return t
}

func (q *Queue) requeue(t *task) {
	q.mu.Lock()
	q.pending = append(q.pending, t)
	depth := len(q.pending)
	q.mu.Unlock()
	q.metrics.QueueDepth(depth)
}

func (q *Queue) process(ctx context.Context, t *task) {
	log := q.logger.With("label", t.label, "target", t.targetName)

	for {
		ref, out, err := q.attempt(ctx, t)
		switch out {
		case outcomeDone:
			q.metrics.Download("success")
			log.Info("Image saved", "reference", ref)
			t.result <- Result{Reference: ref}
			return
		case outcomeRequeued:
			q.metrics.Download("rate_limited")
			return
		case outcomeAbandoned:
			q.metrics.Download("fallback")
			log.Warn("Image abandoned after repeated rate limits", "requeues", t.requeues)
			t.result <- q.fallback(ctx)
			return
		}

		if t.retryCount >= q.opts.RetryCount {
			q.metrics.Download("fallback")
			log.Warn("Image download failed, using fallback", "attempts", t.retryCount+1, "error", err)
			t.result <- q.fallback(ctx)
			return
		}

		t.retryCount++
		q.metrics.Download("retry")
		log.Debug("Retrying image download", "retry", t.retryCount, "error", err)
		if err := sleep(ctx, time.Duration(t.retryCount)*q.opts.RetryBase); err != nil {
			t.result <- q.fallback(ctx)
			return
		}
		t.sourceURL = RotateSeed(t.sourceURL)
	}
}

func (q *Queue) attempt(ctx context.Context, t *task) (string, outcome, error) {
	if err := q.limiter.Wait(ctx); err != nil {
		return "", outcomeFailed, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, q.opts.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, t.sourceURL, nil)
	if err != nil {
		return "", outcomeFailed, err
	}
	req.Header.Set("User-Agent", constants.UserAgent)

	resp, err := q.client.Do(req)
	if err != nil {
		return "", outcomeFailed, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		t.requeues++
		if q.opts.MaxRequeues > 0 && t.requeues > q.opts.MaxRequeues {
			return "", outcomeAbandoned, errRequeueLimit
		}

		wait := q.opts.DefaultRetryAfter
		if httpclient.HasRetryAfter(resp) {
			wait = httpclient.ParseRetryAfter(resp)
		}
		wait += q.opts.RetryAfterPadding

		q.throttle()
		q.requeue(t)
		q.logger.Warn("Image provider rate limited, requeued task",
			"label", t.label, "wait", wait, "delay", q.Delay())

		_ = sleep(ctx, wait)
		return "", outcomeRequeued, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", outcomeFailed, httpclient.HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	q.adapt(resp.Header)

	data, err := io.ReadAll(io.LimitReader(resp.Body, q.opts.MaxBytes+1))
	if err != nil {
		return "", outcomeFailed, fmt.Errorf("read body: %w", err)
	}
	if len(data) < q.opts.MinBytes {
		return "", outcomeFailed, fmt.Errorf("%w: %d bytes", ErrPayloadTooSmall, len(data))
	}
	if int64(len(data)) > q.opts.MaxBytes {
		return "", outcomeFailed, ErrPayloadTooLarge
	}

	path, err := storage.ResolveUnder(q.opts.ImagesDir, t.targetName)
	if err != nil {
		return "", outcomeFailed, err
	}
	if err := storage.WriteFileAtomic(path, data); err != nil {
		return "", outcomeFailed, err
	}
	return q.opts.URLPrefix + t.targetName, outcomeDone, nil
}

// throttle doubles the request delay up to the configured ceiling.
func (q *Queue) throttle() {
	q.mu.Lock()
	d := min(q.delay*2, q.opts.MaxDelay)
	q.mu.Unlock()
	q.setDelay(d)
}

// adapt tunes the request delay from the provider's remaining quota, or
// decays it toward the floor when no quota header is present.
func (q *Queue) adapt(h http.Header) {
	if raw := h.Get(constants.HeaderRateLimitRemaining); raw != "" {
		remaining, err := strconv.Atoi(raw)
		if err != nil {
			return
		}
		switch {
		case remaining < constants.QuotaLowThreshold:
			q.setDelay(constants.QuotaLowDelay)
		case remaining < constants.QuotaMediumThreshold:
			q.setDelay(constants.QuotaMediumDelay)
		default:
			q.setDelay(q.opts.MinDelay)
		}
		return
	}

	q.mu.Lock()
	d := max(q.opts.MinDelay, time.Duration(float64(q.delay)*constants.DelayDecayFactor))
	q.mu.Unlock()
	q.setDelay(d)
}

func (q *Queue) setDelay(d time.Duration) {
	q.mu.Lock()
	changed := d != q.delay
	q.delay = d
	q.mu.Unlock()

	if changed {
		q.limiter.SetLimit(rate.Every(d))
		q.metrics.Delay(d)
	}
}

// RotateSeed replaces the seed query parameter with a random value so a retry
// asks the provider for a different rendering. URLs without a seed are
// returned unchanged.
func RotateSeed(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	query := u.Query()
	if !query.Has("seed") {
		return raw
	}
	query.Set("seed", strconv.FormatInt(rand.Int64N(1<<31), 10))
	u.RawQuery = query.Encode()
	return u.String()
}

// ImageURL builds the provider URL for a prompt.
func ImageURL(base, prompt string, seed uint32) string {
	query := url.Values{}
	query.Set("width", strconv.Itoa(constants.ImageWidth))
	query.Set("height", strconv.Itoa(constants.ImageHeight))
	query.Set("seed", strconv.FormatUint(uint64(seed), 10))
	query.Set("nologo", "true")
	return base + url.PathEscape(prompt) + "?" + query.Encode()
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
