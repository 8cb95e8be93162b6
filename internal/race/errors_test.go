package race

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestExhaustionError(t *testing.T) {
	q, err := NewQuery("20250501", "京都", "11R")
	if err != nil {
		t.Fatal(err)
	}

	var err2 error = fmt.Errorf("resolving: %w", &ExhaustionError{Query: q, Attempts: 42})

	if !errors.Is(err2, ErrExhausted) {
		t.Error("errors.Is(err, ErrExhausted) = false, want true")
	}
	if !strings.Contains(err2.Error(), "42 attempts") {
		t.Errorf("error message %q should mention the attempt count", err2.Error())
	}
	if IsExtraction(err2) {
		t.Error("exhaustion error classified as extraction error")
	}
}

func TestExtractionError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &ExtractionError{URL: "https://example.com/x", Reason: "no rows"})

	if !IsExtraction(err) {
		t.Error("IsExtraction() = false, want true")
	}
	if errors.Is(err, ErrExhausted) {
		t.Error("extraction error matched ErrExhausted")
	}
	if !strings.Contains(err.Error(), "https://example.com/x") {
		t.Errorf("error message %q should include the URL", err.Error())
	}
}
