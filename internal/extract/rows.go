package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/racecard/internal/race"
)

var (
	// \p{Nd} so full-width digits (１６) count as numbers too.
	numberPattern        = regexp.MustCompile(`\p{Nd}{1,2}`)
	leadingNumberPattern = regexp.MustCompile(`^\P{Nd}*(\p{Nd}{1,2})`)
)

// Rows reads the entrants of a located table in row order.
//
// Rows too short to reach the horse and jockey columns are skipped, as are
// rows whose horse name is empty or numeric (a sign the columns were
// mis-detected for that row) and rows whose jockey is empty or "-".
func Rows(t *Table) ([]race.Entrant, error) {
	nameCol, ok := t.Headers.Column(NameLabels...)
	if !ok {
		return nil, &race.ExtractionError{Reason: "no 馬名 column"}
	}
	jockeyCol, ok := t.Headers.Column(JockeyLabels...)
	if !ok {
		return nil, &race.ExtractionError{Reason: "no 騎手 column"}
	}
	numberCol, hasNumber := t.Headers.Column(NumberLabels...)

	minCells := max(nameCol, jockeyCol) + 1

	trs := t.Sel.Find("tr")
	start := 0
	if trs.First().Find("th").Length() > 0 {
		start = 1
	}

	var entrants []race.Entrant
	trs.Each(func(i int, tr *goquery.Selection) {
		if i < start {
			return
		}

		cells := tr.Find("td, th")
		if cells.Length() < minCells {
			return
		}

		name := CleanName(cellText(cells.Eq(nameCol)))
		jockey := CleanName(cellText(cells.Eq(jockeyCol)))
		if name == "" || isDigits(name) {
			return
		}
		if jockey == "" || jockey == "-" {
			return
		}

		var number string
		if hasNumber && cells.Length() > numberCol {
			number = numberPattern.FindString(strings.TrimSpace(cellText(cells.Eq(numberCol))))
		} else if m := leadingNumberPattern.FindStringSubmatch(cellText(cells.First())); m != nil {
			number = m[1]
		}

		entrants = append(entrants, race.Entrant{
			Number: number,
			Name:   name,
			Jockey: jockey,
		})
	})

	if len(entrants) == 0 {
		return nil, &race.ExtractionError{Reason: "no entrant rows survived filtering"}
	}
	return entrants, nil
}
