// Package cli implements the command-line interface for racecard.
//
// The cli package provides the Cobra-based CLI with a fetch command that
// resolves a race card (from a manual address, a remembered one, or the
// resolver's strategy chain), writes the spreadsheet and reports changes since
// the last fetch, and a venues command that lists venue codes. Output is text
// or JSON; progress and logs go to stderr.
package cli
