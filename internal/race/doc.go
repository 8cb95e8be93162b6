// Package race provides the data model shared by the resolver, the extractor
// and the output writers.
//
// A Query names a race by date, venue and race number. A Card is what comes
// back: the address the race card was found at, its entrants in card order,
// and metadata mined from the page. The package also defines the terminal
// error types (ExtractionError, ExhaustionError) and compares two cards of the
// same race to report scratches and jockey changes between runs.
package race
