package cache

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

type blob struct {
	Items map[string]*domain.CacheEntry `json:"items"`
}

// Manager loads and saves the whole cache as one blob.
type Manager struct {
	store  store.Store
	cfg    Config
	now    func() time.Time
	logger *logger.Logger
	mu     sync.Mutex
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(st store.Store, cfg Config, log *logger.Logger, opts ...Option) *Manager {
	if log == nil {
		log = logger.Default()
	}
	m := &Manager{
		store:  st,
		cfg:    cfg.withDefaults(),
		now:    time.Now,
		logger: log.WithComponent("cache"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load reads the full cache. A missing or unreadable blob yields an empty cache.
func (m *Manager) Load(ctx context.Context) (*Cache, error) {
	data, err := m.store.Get(ctx, constants.CacheKey)
	if errors.Is(err, store.ErrNotFound) {
		return newCache(nil, m.cfg, m.now, m.logger), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}

	var b blob
	if err := json.Unmarshal(data, &b); err != nil {
		m.logger.Warn("Discarding unreadable cache", "error", err)
		return newCache(nil, m.cfg, m.now, m.logger), nil
	}
	return newCache(b.Items, m.cfg, m.now, m.logger), nil
}

// Save writes the snapshot back in a single put.
func (m *Manager) Save(ctx context.Context, c *Cache) error {
	data, err := json.Marshal(blob{Items: c.entries})
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}
	if err := m.store.Put(ctx, constants.CacheKey, data); err != nil {
		return fmt.Errorf("failed to save cache: %w", err)
	}
	c.dirty = false
	clear(c.changed)
	return nil
}

// Apply runs a load-modify-save cycle, serialized against other Apply calls.
func (m *Manager) Apply(ctx context.Context, fn func(*Cache)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, err := m.Load(ctx)
	if err != nil {
		return err
	}
	fn(c)
	if !c.Dirty() {
		return nil
	}
	return m.Save(ctx, c)
}

// Empty returns a blank snapshot, used when the stored cache cannot be read.
func (m *Manager) Empty() *Cache {
	return newCache(nil, m.cfg, m.now, m.logger)
}

// Clear empties the cache.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Save(ctx, m.Empty())
}
