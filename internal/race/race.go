package race

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/racecard/internal/venue"
)

const (
	MinRace = 1
	MaxRace = 12
)

// Query identifies a single race
type Query struct {
	Date  time.Time   `json:"date"`
	Venue venue.Venue `json:"venue"`
	Race  int         `json:"race"`
}

// NewQuery builds a Query from user input such as ("20250501", "京都", "11R").
func NewQuery(dateText, venueText, raceText string) (Query, error) {
	date := ParseDate(dateText)
	if date.IsZero() {
		return Query{}, fmt.Errorf("invalid date %q (want YYYYMMDD)", dateText)
	}

	v, ok := venue.Lookup(venueText)
	if !ok {
		return Query{}, fmt.Errorf("unknown venue %q (one of %s)", venueText, strings.Join(venue.Names(), ", "))
	}

	n, err := ParseRaceNumber(raceText)
	if err != nil {
		return Query{}, err
	}

	q := Query{Date: date, Venue: v, Race: n}
	return q, q.Validate()
}

// ParseRaceNumber accepts "11", "11R" or "11レース".
func ParseRaceNumber(s string) (int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "レース")
	s = strings.TrimSuffix(strings.TrimSuffix(s, "R"), "r")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid race number %q", s)
	}
	if n < MinRace || n > MaxRace {
		return 0, fmt.Errorf("race number %d out of range %d-%d", n, MinRace, MaxRace)
	}
	return n, nil
}

// Validate reports whether the query can be resolved at all
func (q Query) Validate() error {
	if q.Date.IsZero() {
		return fmt.Errorf("query has no date")
	}
	if v, ok := venue.Lookup(q.Venue.Code); !ok || v != q.Venue {
		return fmt.Errorf("unknown venue %q", q.Venue.Name)
	}
	if q.Race < MinRace || q.Race > MaxRace {
		return fmt.Errorf("race number %d out of range %d-%d", q.Race, MinRace, MaxRace)
	}
	return nil
}

// YMD returns the race date as YYYYMMDD
func (q Query) YMD() string {
	return FormatDate(q.Date)
}

// RacePadded returns the race number zero-padded to two digits.
func (q Query) RacePadded() string {
	return fmt.Sprintf("%02d", q.Race)
}

// RaceBare returns the race number without padding.
func (q Query) RaceBare() string {
	return strconv.Itoa(q.Race)
}

// RaceLabel returns the race number as printed on cards, e.g. "11R".
func (q Query) RaceLabel() string {
	return q.RaceBare() + "R"
}

// Key is a stable identifier for the race, used to index stored addresses
// and cards.
func (q Query) Key() string {
	return fmt.Sprintf("%s_%s_%s", q.YMD(), q.Venue.Code, q.RacePadded())
}

func (q Query) String() string {
	return fmt.Sprintf("%s %s %s", q.YMD(), q.Venue.Name, q.RaceLabel())
}

// Entrant is one row of a race card
type Entrant struct {
	Number string `json:"number"` // 馬番, may be empty
	Name   string `json:"name"`   // 馬名
	Jockey string `json:"jockey"` // 騎手名
}

// Metadata is what can be mined from a race card page besides the table
type Metadata struct {
	Date      string `json:"date"`       // YYYYMMDD
	Venue     string `json:"venue"`      // venue name or venue.Unknown
	RaceLabel string `json:"race_label"` // e.g. "11R", or "R" when unknown
	Title     string `json:"title"`
}

// Card is a resolved race card
type Card struct {
	URL       string    `json:"url"`
	Entrants  []Entrant `json:"entrants"`
	Metadata  Metadata  `json:"metadata"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Filename returns the spreadsheet name for the card:
// <YYYYMMDD>_<venue>_<raceLabel>.xlsx
func (c *Card) Filename() string {
	return fmt.Sprintf("%s_%s_%s.xlsx", c.Metadata.Date, c.Metadata.Venue, c.Metadata.RaceLabel)
}
