package dto

import (
	"testing"

	"github.com/cesargomez89/menusync/internal/config"
	"github.com/cesargomez89/menusync/internal/domain"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{Field: "location", Message: "is required"}
	if err.Error() != "location: is required" {
		t.Errorf("Error() = %q, want %q", err.Error(), "location: is required")
	}
}

func TestValidationError_ToMap(t *testing.T) {
	err := ValidationError{Field: "force", Message: "must be true or false"}
	m := err.ToMap()
	if m["force"] != "must be true or false" {
		t.Errorf("ToMap() = %v, want {force: must be true or false}", m)
	}
}

func TestToResponse(t *testing.T) {
	errs := []ValidationError{
		{Field: "location", Message: "is required"},
		{Field: "force", Message: "invalid"},
	}
	resp := ToResponse(errs)
	expected := "location: is required; force: invalid"
	if resp != expected {
		t.Errorf("ToResponse() = %q, want %q", resp, expected)
	}
	if m := ToMap(errs); len(m) != 2 {
		t.Errorf("ToMap() returned %d items, want 2", len(m))
	}
}

func TestMenuRequest_Validate(t *testing.T) {
	tests := []struct {
		name     string
		location string
		wantErrs int
	}{
		{"simple", "norwest", 0},
		{"with dash", "castle-hill", 0},
		{"with digits", "store_2", 0},
		{"empty", "", 1},
		{"upper case", "Norwest", 1},
		{"path traversal", "../etc", 1},
		{"space", "nor west", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := MenuRequest{Location: tt.location}.Validate()
			if len(errs) != tt.wantErrs {
				t.Errorf("Validate() returned %d errors, want %d: %v", len(errs), tt.wantErrs, errs)
			}
		})
	}
}

func TestNewRefreshRequest(t *testing.T) {
	tests := []struct {
		name      string
		location  string
		force     string
		wantLoc   string
		wantForce bool
		wantErrs  int
	}{
		{"default force", "norwest", "", "norwest", false, 0},
		{"force true", "norwest", "true", "norwest", true, 0},
		{"force numeric", "dural", "1", "dural", true, 0},
		{"force false", "dural", "false", "dural", false, 0},
		{"normalizes location", " Dural ", "", "dural", false, 0},
		{"bad force", "norwest", "maybe", "norwest", false, 1},
		{"bad location and force", "", "maybe", "", false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, errs := NewRefreshRequest(tt.location, tt.force)
			if len(errs) != tt.wantErrs {
				t.Fatalf("NewRefreshRequest() returned %d errors, want %d: %v", len(errs), tt.wantErrs, errs)
			}
			if req.Location != tt.wantLoc {
				t.Errorf("Location = %q, want %q", req.Location, tt.wantLoc)
			}
			if req.Force != tt.wantForce {
				t.Errorf("Force = %v, want %v", req.Force, tt.wantForce)
			}
		})
	}
}

func TestNewMenuResponse_NeverNullSections(t *testing.T) {
	resp := NewMenuResponse("norwest", domain.MenuData{IsProcessing: true})
	if resp.Sections == nil {
		t.Fatal("Sections is nil, want empty slice")
	}
	if resp.Location != "norwest" || !resp.IsProcessing {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestNewLocationResponses(t *testing.T) {
	locs := []config.Location{
		{Name: "norwest", SourceURL: "https://a.test/menu.pdf"},
		{Name: "dural", SourceURL: "https://b.test/menu.pdf"},
	}
	out := NewLocationResponses(locs, "dural")
	if len(out) != 2 {
		t.Fatalf("got %d locations, want 2", len(out))
	}
	if out[0].Default || !out[1].Default {
		t.Errorf("default flags = %v, %v; want false, true", out[0].Default, out[1].Default)
	}
}
