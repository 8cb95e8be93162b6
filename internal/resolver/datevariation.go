package resolver

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/pfrederiksen/racecard/internal/race"
)

// DateVariationGenerator sweeps the two-hex-digit suffix space for the race
// date and the days either side of it, with today as the access date. The
// sweep of each date stops after PerDate candidates.
//
// The hex sweep assumes the suffix is a single byte. Nothing documents that;
// if the site changes scheme this is the generator to replace.
type DateVariationGenerator struct {
	BaseURL     string
	Endpoint    string
	SuffixSpace int
	PerDate     int
	Now         func() time.Time
}

func (g *DateVariationGenerator) Name() string {
	return "日付バリエーション"
}

// Budget is zero: the per-date cap already bounds the sequence.
func (g *DateVariationGenerator) Budget() int {
	return 0
}

func (g *DateVariationGenerator) Candidates(_ context.Context, q race.Query) iter.Seq[Candidate] {
	access := race.FormatDate(today(g.Now))
	raceDates := []string{
		q.YMD(),
		race.FormatDate(race.ShiftDays(q.Date, -1)),
		race.FormatDate(race.ShiftDays(q.Date, 1)),
	}

	return func(yield func(Candidate) bool) {
		for _, raceDate := range raceDates {
			tried := 0
		sweep:
			for i := 0; i < g.SuffixSpace; i++ {
				suffix := fmt.Sprintf("%02X", i)
				for _, rn := range raceRenderings(q) {
					if g.PerDate > 0 && tried >= g.PerDate {
						break sweep
					}
					tried++
					cname := CNAME(q.Venue.Code, raceDate, rn, access, suffix)
					if !yield(Candidate{URL: AccessURL(g.BaseURL, g.Endpoint, cname), Source: g.Name()}) {
						return
					}
				}
			}
		}
	}
}
