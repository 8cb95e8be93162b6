// Package resolver finds the address of a JRA race card page.
//
// The site addresses race cards through an opaque CNAME parameter of the form
//
//	pw01dde<venue code><race date><race number><access date>/<suffix>
//
// whose two-character suffix is not derivable from anything public. The
// resolver therefore guesses: three Generators produce candidate addresses
// (pattern analysis around observed suffixes, a brute-force sweep of the
// suffix space around the race date, and links harvested from index pages),
// and the Orchestrator fetches and validates them one at a time, in strategy
// order, stopping at the first page that is a race card.
//
// Everything that knows the identifier scheme lives in the generators, so a
// learned lookup table can replace any of them without touching the
// Orchestrator or the extractor.
package resolver
