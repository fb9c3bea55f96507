package domain

import (
	"encoding/base64"
	"strings"
	"time"
)

type MenuStatus string

const (
	StatusIdle              MenuStatus = "idle"
	StatusFetchingSource    MenuStatus = "fetching-source"
	StatusParsingSource     MenuStatus = "parsing-source"
	StatusGeneratingContent MenuStatus = "generating-content"
	StatusComplete          MenuStatus = "complete"
	StatusError             MenuStatus = "error"
)

// IsActive reports whether a run is (or was, if it crashed) working on the location.
func (s MenuStatus) IsActive() bool {
	switch s {
	case StatusFetchingSource, StatusParsingSource, StatusGeneratingContent:
		return true
	}
	return false
}

// MenuItem is a single dish. Image is a local asset path or a remote URL.
type MenuItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

type MenuSection struct {
	Title string     `json:"title"`
	Items []MenuItem `json:"items"`
}

type Progress struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Stage   string `json:"stage"`
}

// LocationState is the persisted record of one location's refresh.
type LocationState struct {
	Status        MenuStatus    `json:"status"`
	Sections      []MenuSection `json:"sections"`
	CompletedAt   time.Time     `json:"completedAt,omitzero"`
	UpdatedAt     time.Time     `json:"updatedAt,omitzero"`
	SourceDate    string        `json:"sourceDate,omitempty"`
	Error         string        `json:"error,omitempty"`
	Progress      *Progress     `json:"progress,omitempty"`
	IsPlaceholder bool          `json:"isPlaceholder,omitempty"`
	RunID         string        `json:"runId,omitempty"`
}

// DefaultLocationState is the idle, empty record returned for unseen locations.
func DefaultLocationState() LocationState {
	return LocationState{
		Status:   StatusIdle,
		Sections: []MenuSection{},
	}
}

func (s *LocationState) ItemCount() int {
	n := 0
	for _, sec := range s.Sections {
		n += len(sec.Items)
	}
	return n
}

// IsStale reports whether the record has not been written for longer than timeout.
// A record that was never written is stale.
func (s *LocationState) IsStale(now time.Time, timeout time.Duration) bool {
	return s.UpdatedAt.IsZero() || now.Sub(s.UpdatedAt) > timeout
}

// Clone returns a deep copy so callers can mutate sections freely.
func (s LocationState) Clone() LocationState {
	out := s
	out.Sections = make([]MenuSection, len(s.Sections))
	for i, sec := range s.Sections {
		out.Sections[i] = MenuSection{Title: sec.Title, Items: append([]MenuItem(nil), sec.Items...)}
		if out.Sections[i].Items == nil {
			out.Sections[i].Items = []MenuItem{}
		}
	}
	if s.Progress != nil {
		p := *s.Progress
		out.Progress = &p
	}
	return out
}

// MenuData is what callers polling a location receive.
type MenuData struct {
	Sections      []MenuSection `json:"sections"`
	IsProcessing  bool          `json:"isProcessing"`
	Progress      *Progress     `json:"progress,omitempty"`
	SourceDate    string        `json:"sourceDate,omitempty"`
	Error         string        `json:"error,omitempty"`
	IsPlaceholder bool          `json:"isPlaceholder,omitempty"`
}

// CacheEntry holds the reusable enrichment for one dish name.
type CacheEntry struct {
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	ImageReference string    `json:"imageReference"`
	LastSeenAt     time.Time `json:"lastSeenAt"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

// CacheKey normalizes a dish name into its cache key.
func CacheKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ItemID derives the stable identifier of a dish from its name.
func ItemID(name string) string {
	return base64.StdEncoding.EncodeToString([]byte(name))
}
