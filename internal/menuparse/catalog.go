package menuparse

import (
	"slices"
	"strings"
)

// Catalog maps lower-cased dish names to curated image URLs.
type Catalog struct {
	entries map[string]string
	keys    []string
}

func NewCatalog(entries map[string]string) *Catalog {
	c := &Catalog{entries: make(map[string]string, len(entries))}
	for k, v := range entries {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || v == "" {
			continue
		}
		c.entries[k] = v
		c.keys = append(c.keys, k)
	}
	// Longest key first so "butter chicken (kids)" beats "butter chicken".
	slices.SortFunc(c.keys, func(a, b string) int {
		if d := len(b) - len(a); d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})
	return c
}

// Lookup tries an exact match, then any key contained in the name or
// containing it.
func (c *Catalog) Lookup(name string) (string, bool) {
	if c == nil || len(c.entries) == 0 {
		return "", false
	}
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return "", false
	}
	if url, ok := c.entries[normalized]; ok {
		return url, true
	}
	for _, k := range c.keys {
		if strings.Contains(normalized, k) || strings.Contains(k, normalized) {
			return c.entries[k], true
		}
	}
	return "", false
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}
