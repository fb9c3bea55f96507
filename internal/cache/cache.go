// Package cache implements the enrichment cache: reusable descriptions and
// image references keyed by normalized dish name, with a sliding TTL and
// validation of locally stored images on read.
package cache

import (
	"strings"
	"time"

	"github.com/cesargomez89/menusync/internal/constants"
	"github.com/cesargomez89/menusync/internal/domain"
	"github.com/cesargomez89/menusync/internal/logger"
	"github.com/cesargomez89/menusync/internal/storage"
)

// Config controls TTL and local asset validation.
type Config struct {
	TTL          time.Duration
	ImagesDir    string
	ImagesPrefix string
	MinBytes     int64
}

func (c Config) withDefaults() Config {
	if c.TTL <= 0 {
		c.TTL = constants.DefaultCacheTTL
	}
	if c.ImagesPrefix == "" {
		c.ImagesPrefix = constants.DefaultImagesURLPrefix
	}
	if c.MinBytes <= 0 {
		c.MinBytes = constants.MinImageBytes
	}
	return c
}

// Cache is an in-memory snapshot loaded for one run. It is not safe for
// concurrent use; a run owns its snapshot until it is saved.
type Cache struct {
	entries map[string]*domain.CacheEntry
	cfg     Config
	now     func() time.Time
	logger  *logger.Logger
	dirty   bool

	// keys changed since load; false marks a deletion
	changed map[string]bool
}

func newCache(entries map[string]*domain.CacheEntry, cfg Config, now func() time.Time, log *logger.Logger) *Cache {
	if entries == nil {
		entries = make(map[string]*domain.CacheEntry)
	}
	return &Cache{entries: entries, cfg: cfg, now: now, logger: log, changed: make(map[string]bool)}
}

// Get looks up name. A hit slides the entry's expiry forward, even when it
// had already expired: a dish still on the menu is fresh by definition. An
// entry whose local image is missing or undersized is deleted and reported
// as a miss.
func (c *Cache) Get(name string) (domain.CacheEntry, bool) {
	k := domain.CacheKey(name)
	e, ok := c.entries[k]
	if !ok {
		return domain.CacheEntry{}, false
	}

	if reason := c.invalidImage(e.ImageReference); reason != "" {
		c.logger.Warn("Invalidating cached entry", "name", name, "image", e.ImageReference, "reason", reason)
		delete(c.entries, k)
		c.mark(k, false)
		return domain.CacheEntry{}, false
	}

	now := c.now()
	if next := now.Add(c.cfg.TTL); next.After(e.ExpiresAt) {
		e.ExpiresAt = next
	}
	e.LastSeenAt = now
	c.mark(k, true)
	return *e, true
}

// Put records a freshly generated enrichment for name.
func (c *Cache) Put(name, description, imageReference string) {
	now := c.now()
	k := domain.CacheKey(name)
	c.entries[k] = &domain.CacheEntry{
		Name:           name,
		Description:    description,
		ImageReference: imageReference,
		LastSeenAt:     now,
		ExpiresAt:      now.Add(c.cfg.TTL),
	}
	c.mark(k, true)
}

// SetImage updates the image reference of an existing entry.
func (c *Cache) SetImage(name, imageReference string) bool {
	k := domain.CacheKey(name)
	e, ok := c.entries[k]
	if !ok {
		return false
	}
	e.ImageReference = imageReference
	c.mark(k, true)
	return true
}

func (c *Cache) mark(k string, present bool) {
	c.changed[k] = present
	c.dirty = true
}

// Merge replays the entries other changed since it was loaded onto c. An
// image reference already stored in c survives when other has none.
func (c *Cache) Merge(other *Cache) {
	for k, present := range other.changed {
		if !present {
			if _, ok := c.entries[k]; ok {
				delete(c.entries, k)
				c.mark(k, false)
			}
			continue
		}
		e, ok := other.entries[k]
		if !ok {
			continue
		}
		cp := *e
		if cur, ok := c.entries[k]; ok && cp.ImageReference == "" {
			cp.ImageReference = cur.ImageReference
		}
		c.entries[k] = &cp
		c.mark(k, true)
	}
}

func (c *Cache) Len() int {
	return len(c.entries)
}

// Dirty reports whether the snapshot changed since it was loaded.
func (c *Cache) Dirty() bool {
	return c.dirty
}

// IsLocal reports whether ref points at an image managed under ImagesDir.
func (c *Cache) IsLocal(ref string) bool {
	return strings.HasPrefix(ref, c.cfg.ImagesPrefix)
}

func (c *Cache) invalidImage(ref string) string {
	if ref == "" || !c.IsLocal(ref) {
		return ""
	}
	path, err := storage.ResolveUnder(c.cfg.ImagesDir, strings.TrimPrefix(ref, c.cfg.ImagesPrefix))
	if err != nil {
		return "outside images dir"
	}
	size, err := storage.FileSize(path)
	if err != nil {
		return "missing on disk"
	}
	if size < c.cfg.MinBytes {
		return "too small"
	}
	return ""
}
