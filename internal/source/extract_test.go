package source

import (
	"errors"
	"testing"
)

func TestExtractText(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    string
		wantErr error
	}{
		{"plain text", []byte("MAINS\nButter Chicken $22.00"), "MAINS\nButter Chicken $22.00", nil},
		{"binary", []byte{0xff, 0xfe, 0x00, 0x81}, "", ErrUnsupported},
		{"corrupt pdf", []byte("%PDF-1.4\nnot really a pdf"), "", ErrExtract},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractText(tt.data)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ExtractText() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractText() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsPDF(t *testing.T) {
	if !IsPDF([]byte("\n%PDF-1.7 ...")) {
		t.Error("IsPDF() = false for leading newline document")
	}
	if IsPDF([]byte("PDF menu")) {
		t.Error("IsPDF() = true for text")
	}
}
