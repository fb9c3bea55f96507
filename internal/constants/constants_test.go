package constants

import (
	"testing"
	"time"
)

func TestDefaultValues(t *testing.T) {
	if DefaultPort != "8080" {
		t.Errorf("Expected DefaultPort to be '8080', got '%s'", DefaultPort)
	}

	if DefaultImagesURLPrefix != "/menu-images/" {
		t.Errorf("Expected DefaultImagesURLPrefix to be '/menu-images/', got '%s'", DefaultImagesURLPrefix)
	}

	if DefaultStoreType != StoreTypeFile {
		t.Errorf("Expected DefaultStoreType to be %q, got %q", StoreTypeFile, DefaultStoreType)
	}
}

func TestTimeouts(t *testing.T) {
	if DefaultStaleTimeout != 2*time.Minute {
		t.Errorf("Expected DefaultStaleTimeout to be 2 minutes, got %v", DefaultStaleTimeout)
	}

	if ImageRequestTimeout != 60*time.Second {
		t.Errorf("Expected ImageRequestTimeout to be 60 seconds, got %v", ImageRequestTimeout)
	}

	if DefaultCacheTTL != 30*24*time.Hour {
		t.Errorf("Expected DefaultCacheTTL to be 30 days, got %v", DefaultCacheTTL)
	}
}

func TestQueueDelays(t *testing.T) {
	if MinQueueDelay >= MaxQueueDelay {
		t.Errorf("MinQueueDelay %v must be below MaxQueueDelay %v", MinQueueDelay, MaxQueueDelay)
	}
	if QuotaLowDelay <= QuotaMediumDelay {
		t.Errorf("QuotaLowDelay %v must exceed QuotaMediumDelay %v", QuotaLowDelay, QuotaMediumDelay)
	}
	if DelayDecayFactor <= 0 || DelayDecayFactor >= 1 {
		t.Errorf("DelayDecayFactor must be in (0,1), got %v", DelayDecayFactor)
	}
}

func TestRetryCount(t *testing.T) {
	if DefaultRetryCount != 3 {
		t.Errorf("Expected DefaultRetryCount to be 3, got %d", DefaultRetryCount)
	}
}

func TestProgressMarks(t *testing.T) {
	marks := []int{ProgressFetch, ProgressParse, ProgressGenerate, ProgressEnrichStart, ProgressEnrichStart + ProgressEnrichSpan, ProgressTotal}
	for i := 1; i < len(marks); i++ {
		if marks[i] <= marks[i-1] {
			t.Errorf("progress marks must increase: %v", marks)
		}
	}
}

func TestFileExtensions(t *testing.T) {
	extensions := []string{
		ExtJPG,
		ExtPNG,
		ExtJSON,
	}

	for _, ext := range extensions {
		if ext == "" {
			t.Error("File extension constant should not be empty")
		}
		if ext[0] != '.' {
			t.Errorf("File extension %s should start with .", ext)
		}
	}
}

func TestInvalidPathChars(t *testing.T) {
	if InvalidPathChars == "" {
		t.Error("InvalidPathChars should not be empty")
	}
}
