// Package state owns the per-location refresh record. Reads go straight to
// the store; every mutation is funneled through one in-order write queue so
// partial updates from concurrent callers never interleave.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cesargomez89/menusync/internal/constants"
	"github.com/cesargomez89/menusync/internal/domain"
	"github.com/cesargomez89/menusync/internal/logger"
	"github.com/cesargomez89/menusync/internal/store"
)

var ErrClosed = errors.New("state service closed")

type writeResult struct {
	state   domain.LocationState
	applied bool
	err     error
}

type writeOp struct {
	ctx      context.Context
	location string
	mutate   func(*domain.LocationState) bool
	reply    chan writeResult
}

type Service struct {
	store  store.Store
	logger *logger.Logger
	now    func() time.Time

	writes    chan writeOp
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

type Option func(*Service)

// WithClock overrides the time source used for UpdatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(st store.Store, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.Default()
	}
	s := &Service{
		store:  st,
		logger: log.WithComponent("state"),
		now:    time.Now,
		writes: make(chan writeOp),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.wg.Add(1)
	go s.drain()
	return s
}

func key(location string) string {
	return constants.StateKeyPrefix + location
}

// Get returns the location's record, or the idle default when none exists
// or the stored blob cannot be decoded.
func (s *Service) Get(ctx context.Context, location string) (domain.LocationState, error) {
	data, err := s.store.Get(ctx, key(location))
	if errors.Is(err, store.ErrNotFound) {
		return domain.DefaultLocationState(), nil
	}
	if err != nil {
		return domain.LocationState{}, fmt.Errorf("failed to read state for %s: %w", location, err)
	}

	st := domain.DefaultLocationState()
	if err := json.Unmarshal(data, &st); err != nil {
		s.logger.Warn("Discarding unreadable state", "location", location, "error", err)
		return domain.DefaultLocationState(), nil
	}
	if st.Sections == nil {
		st.Sections = []domain.MenuSection{}
	}
	return st, nil
}

// UpdateIf enqueues a test-and-update. mutate sees the current record and
// returns false to leave it untouched. Applied writes stamp UpdatedAt. An
// operation whose ctx is done by the time the queue reaches it is dropped
// unapplied; one already applied is not rolled back.
func (s *Service) UpdateIf(ctx context.Context, location string, mutate func(*domain.LocationState) bool) (domain.LocationState, bool, error) {
	op := writeOp{ctx: ctx, location: location, mutate: mutate, reply: make(chan writeResult, 1)}

	select {
	case s.writes <- op:
	case <-s.done:
		return domain.LocationState{}, false, ErrClosed
	case <-ctx.Done():
		return domain.LocationState{}, false, ctx.Err()
	}

	select {
	case res := <-op.reply:
		return res.state, res.applied, res.err
	case <-ctx.Done():
		return domain.LocationState{}, false, ctx.Err()
	}
}

// Update merges a partial update into the record.
func (s *Service) Update(ctx context.Context, location string, mutate func(*domain.LocationState)) (domain.LocationState, error) {
	st, _, err := s.UpdateIf(ctx, location, func(st *domain.LocationState) bool {
		mutate(st)
		return true
	})
	return st, err
}

// UpdateItemImage points every item with itemID at image. It reports whether
// any item was found.
func (s *Service) UpdateItemImage(ctx context.Context, location, itemID, image string) (bool, error) {
	_, applied, err := s.UpdateIf(ctx, location, func(st *domain.LocationState) bool {
		found := false
		for i := range st.Sections {
			for j := range st.Sections[i].Items {
				if st.Sections[i].Items[j].ID == itemID {
					st.Sections[i].Items[j].Image = image
					found = true
				}
			}
		}
		return found
	})
	return applied, err
}

// Reset overwrites the location with the idle, empty default.
func (s *Service) Reset(ctx context.Context, location string) (domain.LocationState, error) {
	return s.Update(ctx, location, func(st *domain.LocationState) {
		*st = domain.DefaultLocationState()
	})
}

// Close stops the write queue after in-flight writes finish.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.wg.Wait()
	})
}

func (s *Service) drain() {
	defer s.wg.Done()
	for {
		select {
		case op := <-s.writes:
			op.reply <- s.apply(op)
		case <-s.done:
			return
		}
	}
}

func (s *Service) apply(op writeOp) writeResult {
	if err := op.ctx.Err(); err != nil {
		return writeResult{err: err}
	}
	ctx := context.WithoutCancel(op.ctx)
	current, err := s.Get(ctx, op.location)
	if err != nil {
		return writeResult{err: err}
	}

	next := current.Clone()
	if !op.mutate(&next) {
		return writeResult{state: current}
	}
	next.UpdatedAt = s.now()

	data, err := json.Marshal(next)
	if err != nil {
		return writeResult{state: current, err: fmt.Errorf("failed to encode state: %w", err)}
	}
	if err := s.store.Put(ctx, key(op.location), data); err != nil {
		s.logger.Error("Failed to write state", "location", op.location, "error", err)
		return writeResult{state: current, err: fmt.Errorf("failed to write state for %s: %w", op.location, err)}
	}
	return writeResult{state: next, applied: true}
}
