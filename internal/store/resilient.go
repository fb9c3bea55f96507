package store

import (
	"context"
	"errors"
	"sync"

	"github.com/cesargomez89/menusync/internal/logger"
)

// ResilientStore fronts a durable store with process memory. A key whose
// durable write fails is served from memory until a later write succeeds.
// Memory mirrors every write, so a failed durable read falls back to the
// last value this process wrote; keys it never wrote surface the read error.
type ResilientStore struct {
	primary  Store
	memory   *MemoryStore
	logger   *logger.Logger
	mu       sync.Mutex
	degraded map[string]bool
}

func NewResilientStore(primary Store, log *logger.Logger) *ResilientStore {
	if log == nil {
		log = logger.Default()
	}
	return &ResilientStore{
		primary:  primary,
		memory:   NewMemoryStore(),
		logger:   log,
		degraded: make(map[string]bool),
	}
}

func (r *ResilientStore) isDegraded(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.degraded[key]
}

func (r *ResilientStore) Get(ctx context.Context, key string) ([]byte, error) {
	if r.isDegraded(key) {
		return r.memory.Get(ctx, key)
	}
	data, err := r.primary.Get(ctx, key)
	if err == nil || errors.Is(err, ErrNotFound) {
		return data, err
	}
	cached, memErr := r.memory.Get(ctx, key)
	if memErr != nil {
		return nil, err
	}
	r.logger.Warn("Durable store unreadable, serving from memory", "key", key, "error", err)
	return cached, nil
}

func (r *ResilientStore) Put(ctx context.Context, key string, data []byte) error {
	if err := r.memory.Put(ctx, key, data); err != nil {
		return err
	}
	if err := r.primary.Put(ctx, key, data); err != nil {
		r.logger.Warn("Durable store unwritable, keeping value in memory", "key", key, "error", err)
		r.mu.Lock()
		r.degraded[key] = true
		r.mu.Unlock()
		return nil
	}

	r.mu.Lock()
	wasDegraded := r.degraded[key]
	delete(r.degraded, key)
	r.mu.Unlock()
	if wasDegraded {
		r.logger.Info("Durable store writable again", "key", key)
	}
	return nil
}

// Degraded reports whether any key is currently served from memory only.
func (r *ResilientStore) Degraded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.degraded) > 0
}

func (r *ResilientStore) Close() error {
	return r.primary.Close()
}
