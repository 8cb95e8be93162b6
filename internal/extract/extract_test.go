package extract

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/racecard/internal/race"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing HTML: %v", err)
	}
	return doc
}

var fixedNow = time.Date(2025, 11, 8, 10, 0, 0, 0, time.Local)

const raceCardHTML = `
<html><body>
<div class="race_name">天皇賞（秋）|出馬表</div>
<p>2025年5月1日（木曜） 4回京都1日 11レース</p>
<table class="nav"><tr><th>メニュー</th><th>リンク</th></tr></table>
<table class="basic">
  <thead><tr><th>枠</th><th>馬番</th><th>馬名</th><th>性齢</th><th>騎手名</th></tr></thead>
  <tbody>
    <tr><td>1</td><td>1</td><td><a href="#">ウマA</a>（B）</td><td>牡3</td><td><a href="#">騎手X</a></td></tr>
    <tr><td>1</td><td>2</td><td><a href="#">ウマB</a></td><td>牝4</td><td>騎手Y(52)</td></tr>
    <tr><td>2</td><td>3</td><td>ウマC</td><td>牡5</td><td>騎手Z</td></tr>
  </tbody>
</table>
</body></html>`

func TestExtract_EndToEnd(t *testing.T) {
	html := `<html><body><table>
		<tr><th>馬番</th><th>馬名</th><th>騎手名</th></tr>
		<tr><td>1</td><td>ウマA</td><td>騎手X</td></tr>
		<tr><td>2</td><td>ウマB</td><td>-</td></tr>
	</table></body></html>`

	card, err := Extract("https://example.com/card", mustDoc(t, html), fixedNow)
	if err != nil {
		t.Fatalf("Extract() unexpected error: %v", err)
	}

	if len(card.Entrants) != 1 {
		t.Fatalf("Extract() returned %d entrants, want 1", len(card.Entrants))
	}
	want := race.Entrant{Number: "1", Name: "ウマA", Jockey: "騎手X"}
	if card.Entrants[0] != want {
		t.Errorf("entrant = %+v, want %+v", card.Entrants[0], want)
	}
	if card.URL != "https://example.com/card" {
		t.Errorf("card URL = %q", card.URL)
	}
}

func TestValidate(t *testing.T) {
	tableOnly := `<table><tr><th>馬名</th><th>騎手</th></tr><tr><td>ウマA</td><td>騎手X</td></tr></table>`

	tests := []struct {
		name string
		html string
		want bool
	}{
		{
			name: "table and race_name element",
			html: `<div class="race_name">メインレース</div>` + tableOnly,
			want: true,
		},
		{
			name: "table and meeting text",
			html: `<p>3回 阪神 8日</p>` + tableOnly,
			want: true,
		},
		{
			name: "table only",
			html: tableOnly,
			want: false,
		},
		{
			name: "race name only",
			html: `<div class="race_name">メインレース</div><p>4回京都1日</p><table><tr><th>馬名</th><th>調教師</th></tr></table>`,
			want: false,
		},
		{
			name: "meeting text for unknown venue",
			html: `<p>4回大井1日</p>` + tableOnly,
			want: false,
		},
		{
			name: "empty page",
			html: `<html><body></body></html>`,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, ok := Validate("https://example.com", mustDoc(t, tt.html))
			if ok != tt.want {
				t.Fatalf("Validate() = %v, want %v", ok, tt.want)
			}
			if ok && (page.Table == nil || page.URL != "https://example.com") {
				t.Errorf("Validate() returned incomplete page: %+v", page)
			}
		})
	}

	t.Run("nil document", func(t *testing.T) {
		if _, ok := Validate("x", nil); ok {
			t.Error("Validate(nil) = true")
		}
	})
}

func TestPage_Card(t *testing.T) {
	page, ok := Validate("https://example.com/JRADB/accessD.html", mustDoc(t, raceCardHTML))
	if !ok {
		t.Fatal("Validate() rejected a race card page")
	}

	card, err := page.Card(fixedNow)
	if err != nil {
		t.Fatalf("Card() error: %v", err)
	}

	want := []race.Entrant{
		{Number: "1", Name: "ウマA", Jockey: "騎手X"},
		{Number: "2", Name: "ウマB", Jockey: "騎手Y"},
		{Number: "3", Name: "ウマC", Jockey: "騎手Z"},
	}
	if len(card.Entrants) != len(want) {
		t.Fatalf("got %d entrants, want %d", len(card.Entrants), len(want))
	}
	for i := range want {
		if card.Entrants[i] != want[i] {
			t.Errorf("entrant %d = %+v, want %+v", i, card.Entrants[i], want[i])
		}
	}

	meta := card.Metadata
	if meta.Date != "20250501" || meta.Venue != "京都" || meta.RaceLabel != "11R" {
		t.Errorf("metadata = %+v", meta)
	}
	if meta.Title != "天皇賞（秋）" {
		t.Errorf("title = %q, want 天皇賞（秋）", meta.Title)
	}
	if card.Filename() != "20250501_京都_11R.xlsx" {
		t.Errorf("Filename() = %q", card.Filename())
	}
}

func TestExtract_Errors(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{
			name: "no qualifying table",
			html: `<table><tr><th>馬名</th><th>調教師</th></tr><tr><td>ウマA</td><td>X</td></tr></table>`,
		},
		{
			name: "every row filtered",
			html: `<table><tr><th>馬名</th><th>騎手</th></tr>
				<tr><td>12</td><td>騎手X</td></tr>
				<tr><td>ウマB</td><td>-</td></tr>
				<tr><td></td><td>騎手Z</td></tr></table>`,
		},
		{
			name: "header only",
			html: `<table><tr><th>馬名</th><th>騎手</th></tr></table>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract("https://example.com/x", mustDoc(t, tt.html), fixedNow)
			if err == nil {
				t.Fatal("Extract() expected error, got nil")
			}
			var ee *race.ExtractionError
			if !errors.As(err, &ee) {
				t.Fatalf("error %v is not an ExtractionError", err)
			}
			if ee.URL != "https://example.com/x" {
				t.Errorf("ExtractionError.URL = %q", ee.URL)
			}
		})
	}
}
