package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestMenuStatus_IsActive(t *testing.T) {
	tests := []struct {
		status   MenuStatus
		expected bool
	}{
		{StatusIdle, false},
		{StatusFetchingSource, true},
		{StatusParsingSource, true},
		{StatusGeneratingContent, true},
		{StatusComplete, false},
		{StatusError, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsActive(); got != tt.expected {
				t.Errorf("%s.IsActive() = %v, want %v", tt.status, got, tt.expected)
			}
		})
	}
}

func TestLocationState_IsStale(t *testing.T) {
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	timeout := 2 * time.Minute

	tests := []struct {
		name      string
		updatedAt time.Time
		expected  bool
	}{
		{"never written", time.Time{}, true},
		{"just written", now.Add(-time.Second), false},
		{"at the boundary", now.Add(-timeout), false},
		{"past the timeout", now.Add(-timeout - time.Second), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := LocationState{UpdatedAt: tt.updatedAt}
			if got := st.IsStale(now, timeout); got != tt.expected {
				t.Errorf("IsStale() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLocationState_Clone(t *testing.T) {
	orig := LocationState{
		Status: StatusComplete,
		Sections: []MenuSection{
			{Title: "Mains", Items: []MenuItem{{ID: "a", Name: "Korma"}}},
		},
		Progress: &Progress{Current: 100, Total: 100},
	}

	cp := orig.Clone()
	cp.Sections[0].Items[0].Image = "/menu-images/korma.jpg"
	cp.Progress.Current = 5

	if orig.Sections[0].Items[0].Image != "" {
		t.Error("Clone shares item storage with the original")
	}
	if orig.Progress.Current != 100 {
		t.Error("Clone shares progress with the original")
	}
	if cp.ItemCount() != 1 {
		t.Errorf("ItemCount() = %d, want 1", cp.ItemCount())
	}
}

func TestDefaultLocationState_EncodesEmptySections(t *testing.T) {
	data, err := json.Marshal(DefaultLocationState())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"status":"idle","sections":[]}` {
		t.Errorf("unexpected encoding: %s", data)
	}
}

func TestItemID(t *testing.T) {
	if got := ItemID("Samosa"); got != "U2Ftb3Nh" {
		t.Errorf("ItemID(Samosa) = %q, want U2Ftb3Nh", got)
	}
	if ItemID("Roti") == ItemID("roti") {
		t.Error("ItemID should be case sensitive")
	}
}

func TestCacheKey(t *testing.T) {
	if got := CacheKey("  Butter Chicken "); got != "butter chicken" {
		t.Errorf("CacheKey() = %q", got)
	}
}
