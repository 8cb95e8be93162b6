package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Accepted header labels per semantic column, most specific first.
var (
	NumberLabels = []string{"馬番", "馬番号"}
	NameLabels   = []string{"馬名"}
	JockeyLabels = []string{"騎手", "騎手名"}
)

const (
	nameMarker   = "馬名"
	jockeyMarker = "騎手"
)

// Header is one normalized header label and its column position
type Header struct {
	Label string
	Index int
}

// HeaderMap maps normalized header labels to column positions, in document
// order. When a label repeats, the first occurrence wins.
type HeaderMap struct {
	headers []Header
}

// NewHeaderMap normalizes raw header texts and indexes them by position.
func NewHeaderMap(raw []string) HeaderMap {
	seen := make(map[string]bool, len(raw))
	headers := make([]Header, 0, len(raw))
	for i, r := range raw {
		label := normalizeHeader(r)
		if seen[label] {
			continue
		}
		seen[label] = true
		headers = append(headers, Header{Label: label, Index: i})
	}
	return HeaderMap{headers: headers}
}

// Headers returns the labels in document order.
func (m HeaderMap) Headers() []Header {
	out := make([]Header, len(m.headers))
	copy(out, m.headers)
	return out
}

// Column resolves a semantic column from a prioritized label list. Every
// exact match is tried before any substring match, so a header that merely
// contains a label can never shadow one that equals it.
func (m HeaderMap) Column(labels ...string) (int, bool) {
	for _, label := range labels {
		for _, h := range m.headers {
			if h.Label == label {
				return h.Index, true
			}
		}
	}
	for _, label := range labels {
		for _, h := range m.headers {
			if strings.Contains(h.Label, label) {
				return h.Index, true
			}
		}
	}
	return -1, false
}

func (m HeaderMap) hasMarker(marker string) bool {
	for _, h := range m.headers {
		if strings.Contains(h.Label, marker) {
			return true
		}
	}
	return false
}

// Table is a located entrant table
type Table struct {
	Sel     *goquery.Selection
	Headers HeaderMap
}

// headerCells returns the header cells of a table: the cells of its first
// thead if it has one, otherwise the cells of its first row.
func headerCells(table *goquery.Selection) *goquery.Selection {
	if thead := table.Find("thead").First(); thead.Length() > 0 {
		return thead.Find("th, td")
	}
	return table.Find("tr").First().Find("th, td")
}

// LocateTable returns the first table in document order whose headers name
// both a horse column and a jockey column.
func LocateTable(doc *goquery.Document) (*Table, bool) {
	var found *Table
	doc.Find("table").EachWithBreak(func(_ int, t *goquery.Selection) bool {
		cells := headerCells(t)
		if cells.Length() == 0 {
			return true
		}

		raw := make([]string, 0, cells.Length())
		cells.Each(func(_ int, c *goquery.Selection) {
			raw = append(raw, strippedText(c))
		})

		headers := NewHeaderMap(raw)
		if headers.hasMarker(nameMarker) && headers.hasMarker(jockeyMarker) {
			found = &Table{Sel: t, Headers: headers}
			return false
		}
		return true
	})
	return found, found != nil
}
