package race

import (
	"errors"
	"fmt"
)

// ErrExhausted is matched (via errors.Is) by every ExhaustionError.
var ErrExhausted = errors.New("race card page not found")

// ExhaustionError means every address strategy ran out of candidates without
// finding a race card page. The caller should ask for a manual address.
type ExhaustionError struct {
	Query    Query
	Attempts int
}

func (e *ExhaustionError) Error() string {
	return fmt.Sprintf("%s: %v after %d attempts", e.Query, ErrExhausted, e.Attempts)
}

func (e *ExhaustionError) Unwrap() error {
	return ErrExhausted
}

// ExtractionError means a page was fetched but the entrant table could not be
// read from it. This usually points at a change in the page layout.
type ExtractionError struct {
	URL    string
	Reason string
}

func (e *ExtractionError) Error() string {
	if e.URL == "" {
		return "extracting race card: " + e.Reason
	}
	return fmt.Sprintf("extracting race card from %s: %s", e.URL, e.Reason)
}

// IsExtraction reports whether err is or wraps an ExtractionError.
func IsExtraction(err error) bool {
	var ee *ExtractionError
	return errors.As(err, &ee)
}
