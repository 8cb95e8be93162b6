package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pfrederiksen/racecard/internal/race"
	"github.com/pfrederiksen/racecard/internal/venue"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

func parseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// Source records how the race card address was obtained
type Source string

const (
	SourceManual     Source = "manual"
	SourceRemembered Source = "remembered"
	SourceResolved   Source = "resolved"
)

// OutputResult contains data to be output
type OutputResult struct {
	FetchedAt   time.Time             `json:"fetched_at"`
	Query       string                `json:"query,omitempty"`
	Source      Source                `json:"source"`
	URL         string                `json:"url"`
	Title       string                `json:"title"`
	Metadata    race.Metadata         `json:"metadata"`
	Entrants    []race.Entrant        `json:"entrants"`
	Changes     []*race.EntrantChange `json:"changes,omitempty"`
	Spreadsheet string                `json:"spreadsheet,omitempty"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	md := result.Metadata
	fmt.Fprintf(w, "%s  (%s %s %s)\n", result.Title, md.Date, md.Venue, md.RaceLabel)

	if len(result.Entrants) == 0 {
		fmt.Fprintln(w, "No entrants found.")
	}
	for _, e := range result.Entrants {
		number := e.Number
		if number == "" {
			number = "-"
		}
		fmt.Fprintf(w, "%3s  %s  %s\n", number, e.Name, e.Jockey)
	}

	if len(result.Changes) > 0 {
		fmt.Fprintf(w, "\nChanges since last fetch (%d):\n", len(result.Changes))
		for _, c := range result.Changes {
			fmt.Fprintf(w, "  %s\n", describeChange(c))
		}
	}

	fmt.Fprintf(w, "\nAddress (memo this for next time): %s\n", result.URL)
	if result.Spreadsheet != "" {
		fmt.Fprintf(w, "Saved: %s\n", result.Spreadsheet)
	}
	if verbose {
		fmt.Fprintf(w, "Source: %s\n", result.Source)
		fmt.Fprintf(w, "Fetched: %s\n", result.FetchedAt.Format(time.RFC3339))
	}
	return nil
}

func describeChange(c *race.EntrantChange) string {
	switch c.Type {
	case race.ChangeAdded:
		return fmt.Sprintf("ADDED: %s (%s)", c.Name, c.NewValue)
	case race.ChangeScratched:
		return fmt.Sprintf("SCRATCHED: %s", c.Name)
	case race.ChangeJockey:
		return fmt.Sprintf("JOCKEY: %s %s -> %s", c.Name, c.OldValue, c.NewValue)
	case race.ChangeNumber:
		return fmt.Sprintf("NUMBER: %s %s -> %s", c.Name, c.OldValue, c.NewValue)
	default:
		return fmt.Sprintf("%s: %s", strings.ToUpper(string(c.Type)), c.Name)
	}
}

// writeVenues lists the venues and their codes
func writeVenues(w io.Writer, venues []venue.Venue, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, venues)
	}
	for _, v := range venues {
		fmt.Fprintf(w, "%s  %s\n", v.Code, v.Name)
	}
	return nil
}
