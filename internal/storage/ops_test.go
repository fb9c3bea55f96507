package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Normal Name", "Normal Name"},
		{"Slash/Name", "SlashName"},
		{"Colon:Name", "ColonName"},
		{"Trailing Dot.", "Trailing Dot"},
		{"<Invalid>", "Invalid"},
	}

	for _, tt := range tests {
		got := Sanitize(tt.input)
		if got != tt.expected {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "naan.jpg")

	if err := WriteFileAtomic(path, []byte("first")); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}
	if err := WriteFileAtomic(path, []byte("second")); err != nil {
		t.Fatalf("WriteFileAtomic overwrite failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want second", data)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected only the target file, found %d entries", len(entries))
	}
}

func TestFileSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roti.jpg")
	if err := os.WriteFile(path, make([]byte, 1500), 0o644); err != nil {
		t.Fatal(err)
	}

	size, err := FileSize(path)
	if err != nil || size != 1500 {
		t.Errorf("FileSize() = %d, %v; want 1500, nil", size, err)
	}

	if _, err := FileSize(filepath.Join(dir, "missing.jpg")); !IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}

	if _, err := FileSize(dir); err == nil {
		t.Error("expected an error for a directory")
	}
}

func TestResolveUnder(t *testing.T) {
	root := t.TempDir()

	if got, err := ResolveUnder(root, "samosa.jpg"); err != nil || got != filepath.Join(root, "samosa.jpg") {
		t.Errorf("ResolveUnder() = %q, %v", got, err)
	}
	if _, err := ResolveUnder(root, "../etc/passwd"); err == nil {
		t.Error("expected traversal to be rejected")
	}
}
