package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/racecard/internal/race"
	"github.com/pfrederiksen/racecard/internal/venue"
)

// RaceNameSelector is the element JRA pages put the race title in.
const RaceNameSelector = ".race_name"

var (
	datePattern     = regexp.MustCompile(`(\d{4})年(\d{1,2})月(\d{1,2})日`)
	meetingPattern  = regexp.MustCompile(`\d+\s*回\s*` + venue.Alternation() + `\s*\d+\s*日`)
	raceKanaPattern = regexp.MustCompile(`(\d{1,2})\s*レース`)
	raceRPattern    = regexp.MustCompile(`(\d{1,2})\s*R`)
)

// Mine extracts race metadata from a page. Each field is mined independently
// and falls back on its own: the date to now, the venue to venue.Unknown, the
// race label to "R", and the title to venue plus race label.
func Mine(doc *goquery.Document, now time.Time) race.Metadata {
	return mineText(PageText(doc), raceTitle(doc), now)
}

func mineText(text, title string, now time.Time) race.Metadata {
	meta := race.Metadata{
		Date:      race.FormatDate(now),
		Venue:     venue.Unknown,
		RaceLabel: "R",
	}

	if m := datePattern.FindStringSubmatch(text); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		meta.Date = fmt.Sprintf("%04d%02d%02d", y, mo, d)
	}

	if m := meetingPattern.FindStringSubmatch(text); m != nil {
		meta.Venue = m[1]
	}

	m := raceKanaPattern.FindStringSubmatch(text)
	if m == nil {
		m = raceRPattern.FindStringSubmatch(text)
	}
	if m != nil {
		n, _ := strconv.Atoi(m[1])
		meta.RaceLabel = strconv.Itoa(n) + "R"
	}

	meta.Title = title
	if meta.Title == "" {
		meta.Title = meta.Venue + meta.RaceLabel
	}
	return meta
}

// raceTitle reads the dedicated title element, dropping anything after the
// first "|" (the site appends the page name there).
func raceTitle(doc *goquery.Document) string {
	el := doc.Find(RaceNameSelector).First()
	if el.Length() == 0 {
		return ""
	}
	title, _, _ := strings.Cut(strippedText(el), "|")
	return strings.TrimSpace(title)
}
