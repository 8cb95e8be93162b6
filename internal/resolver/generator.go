package resolver

import (
	"context"
	"iter"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/racecard/internal/extract"
	"github.com/pfrederiksen/racecard/internal/race"
)

// Candidate is one address to probe
type Candidate struct {
	URL    string
	Source string // name of the generator that produced it
}

// Generator produces candidate addresses for a query. The sequence is finite
// and is iterated at most once per resolution.
type Generator interface {
	Name() string

	// Budget caps how many candidates the Orchestrator probes before giving
	// up on this generator. Zero means no cap.
	Budget() int

	Candidates(ctx context.Context, q race.Query) iter.Seq[Candidate]
}

// Confirmer is implemented by generators whose candidates are loosely
// targeted and need a stricter check than Validate before being accepted.
type Confirmer interface {
	Confirm(q race.Query, page *extract.Page) bool
}

// Fetcher downloads and parses a page
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

const cnamePrefix = "pw01dde"

// CNAME builds the opaque document identifier.
func CNAME(venueCode, raceDate, raceNumber, accessDate, suffix string) string {
	return cnamePrefix + venueCode + raceDate + raceNumber + accessDate + "/" + suffix
}

// AccessURL builds a document address for the given endpoint and CNAME.
func AccessURL(baseURL, endpoint, cname string) string {
	return strings.TrimRight(baseURL, "/") + "/JRADB/" + endpoint + "?CNAME=" + cname
}

// raceRenderings returns the zero-padded and bare race numbers, once each.
func raceRenderings(q race.Query) []string {
	padded, bare := q.RacePadded(), q.RaceBare()
	if padded == bare {
		return []string{padded}
	}
	return []string{padded, bare}
}

func resolveReference(base *url.URL, ref string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", false
	}
	if base == nil {
		return u.String(), u.IsAbs()
	}
	return base.ResolveReference(u).String(), true
}

func today(now func() time.Time) time.Time {
	if now == nil {
		return time.Now()
	}
	return now()
}
