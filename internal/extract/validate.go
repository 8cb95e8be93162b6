package extract

import (
	"errors"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/racecard/internal/race"
)

// Page is a fetched document known to be a race card
type Page struct {
	URL   string
	Doc   *goquery.Document
	Table *Table
}

// Validate reports whether doc is a race card page: it must carry an entrant
// table (horse and jockey headers) and a race-name marker. Listing pages often
// have one without the other, so both are required.
func Validate(url string, doc *goquery.Document) (*Page, bool) {
	if doc == nil {
		return nil, false
	}
	table, ok := LocateTable(doc)
	if !ok {
		return nil, false
	}
	if !hasRaceName(doc) {
		return nil, false
	}
	return &Page{URL: url, Doc: doc, Table: table}, true
}

func hasRaceName(doc *goquery.Document) bool {
	if doc.Find(RaceNameSelector).Length() > 0 {
		return true
	}
	return meetingPattern.MatchString(PageText(doc))
}

// Card extracts the entrants and metadata of a validated page.
func (p *Page) Card(now time.Time) (*race.Card, error) {
	return buildCard(p.URL, p.Doc, p.Table, now)
}

// Extract reads a race card from a document that has not been through
// Validate, as when the user supplies the address by hand.
func Extract(url string, doc *goquery.Document, now time.Time) (*race.Card, error) {
	table, ok := LocateTable(doc)
	if !ok {
		return nil, &race.ExtractionError{URL: url, Reason: "no table with 馬名 and 騎手 headers"}
	}
	return buildCard(url, doc, table, now)
}

func buildCard(url string, doc *goquery.Document, table *Table, now time.Time) (*race.Card, error) {
	entrants, err := Rows(table)
	if err != nil {
		var ee *race.ExtractionError
		if errors.As(err, &ee) && ee.URL == "" {
			ee.URL = url
		}
		return nil, err
	}

	return &race.Card{
		URL:       url,
		Entrants:  entrants,
		Metadata:  Mine(doc, now),
		FetchedAt: now.UTC(),
	}, nil
}
