package extract

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// walkText calls fn for every text node below n in document order, skipping
// script and style bodies.
func walkText(n *html.Node, fn func(string)) {
	switch n.Type {
	case html.TextNode:
		fn(n.Data)
		return
	case html.ElementNode:
		if n.Data == "script" || n.Data == "style" {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkText(c, fn)
	}
}

// strippedText concatenates the trimmed text nodes of sel with no separator.
func strippedText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		walkText(n, func(s string) {
			b.WriteString(strings.TrimSpace(s))
		})
	}
	return b.String()
}

// flatText joins the non-empty trimmed text nodes of sel with single spaces.
func flatText(sel *goquery.Selection) string {
	var parts []string
	for _, n := range sel.Nodes {
		walkText(n, func(s string) {
			if s = strings.TrimSpace(s); s != "" {
				parts = append(parts, s)
			}
		})
	}
	return strings.Join(parts, " ")
}

// PageText returns the document's visible text flattened to one line.
func PageText(doc *goquery.Document) string {
	return flatText(doc.Selection)
}

// JoinedText returns the document's visible text with text nodes trimmed and
// concatenated without separators, so "<span>11</span>R" reads as "11R".
func JoinedText(doc *goquery.Document) string {
	return strippedText(doc.Selection)
}

// cellText prefers the text of the first link in the cell, since horse and
// jockey names are usually rendered as links with decoration around them.
func cellText(cell *goquery.Selection) string {
	if a := cell.Find("a").First(); a.Length() > 0 {
		if t := strippedText(a); t != "" {
			return t
		}
	}
	return strippedText(cell)
}

// normalizeHeader removes all whitespace, including full-width spaces.
func normalizeHeader(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// CleanName drops annotations such as blinker marks, which the site appends
// in parentheses: "ウマA（B）" -> "ウマA".
func CleanName(s string) string {
	if i := strings.IndexAny(s, "（("); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
