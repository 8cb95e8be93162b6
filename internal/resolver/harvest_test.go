package resolver

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/racecard/internal/extract"
	"github.com/pfrederiksen/racecard/internal/progress"
)

const thisWeekHTML = `<html><body>
<a href="/JRADB/accessD.html?CNAME=pw01dde08202505011120251108/EB">京都11R</a>
<a href="/JRADB/accessD.html?CNAME=pw01dde09202505011120251108/EB">阪神11R</a>
<a href="/JRADB/accessD.html?CNAME=pw01dde08202505011120251108/EB">重複</a>
<a href="/keiba/">トップ</a>
<span onclick="return doAction('/JRADB/accessS.html', 'pw01dde08202505010420251108/1A');">京都4R</span>
<button onclick="location.href='?CNAME=pw01dde05202505010320251108/39'">東京3R</button>
</body></html>`

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing HTML: %v", err)
	}
	return doc
}

func newTestHarvester(f Fetcher, rec progress.Reporter) *HarvestGenerator {
	return &HarvestGenerator{
		BaseURL:  testBase,
		Pages:    []string{"keiba/thisweek/", "keiba/thisweek/{date}/", "/"},
		Endpoint: "accessD.html",
		Timeout:  time.Second,
		Fetcher:  f,
		Reporter: rec,
	}
}

func TestHarvestGenerator_ExtractLinks(t *testing.T) {
	html := thisWeekHTML
	g := newTestHarvester(nil, nil)

	links := g.extractLinks(mustDoc(t, html), testBase+"/keiba/thisweek/")
	want := []string{
		testBase + "/JRADB/accessD.html?CNAME=pw01dde08202505011120251108/EB",
		testBase + "/JRADB/accessD.html?CNAME=pw01dde09202505011120251108/EB",
		testBase + "/JRADB/accessD.html?CNAME=pw01dde08202505011120251108/EB",
		testBase + "/JRADB/accessS.html?CNAME=pw01dde08202505010420251108/1A",
		testBase + "/JRADB/accessD.html?CNAME=pw01dde05202505010320251108/39",
	}
	if strings.Join(links, "\n") != strings.Join(want, "\n") {
		t.Errorf("extractLinks() =\n%s\nwant\n%s", strings.Join(links, "\n"), strings.Join(want, "\n"))
	}
}

func TestHarvestGenerator_Candidates(t *testing.T) {
	html := thisWeekHTML
	f := newFakeFetcher(map[string]string{
		testBase + "/keiba/thisweek/": html,
		testBase + "/":                html,
	})
	rec := &progress.Recorder{}
	g := newTestHarvester(f, rec)

	got := collect(g.Candidates(context.Background(), testQuery(t, 11)))

	// The relevance filter is loose: every link here carries "08" or "11"
	// somewhere, so only the duplicate drops out.
	want := []string{
		testBase + "/JRADB/accessD.html?CNAME=pw01dde08202505011120251108/EB",
		testBase + "/JRADB/accessD.html?CNAME=pw01dde09202505011120251108/EB",
		testBase + "/JRADB/accessS.html?CNAME=pw01dde08202505010420251108/1A",
		testBase + "/JRADB/accessD.html?CNAME=pw01dde05202505010320251108/39",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("Candidates() =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}

	calls := f.Calls()
	wantCalls := []string{
		testBase + "/keiba/thisweek/",
		testBase + "/keiba/thisweek/20250501/",
		testBase + "/",
	}
	if strings.Join(calls, " ") != strings.Join(wantCalls, " ") {
		t.Errorf("fetched %v, want %v", calls, wantCalls)
	}

	var sawError bool
	for _, msg := range rec.Messages() {
		if strings.HasPrefix(msg, "ページ取得エラー") {
			sawError = true
		}
	}
	if !sawError {
		t.Error("failed index page was not reported")
	}
}

func TestRelevant(t *testing.T) {
	q := testQuery(t, 5)

	tests := []struct {
		link string
		want bool
	}{
		{link: testBase + "/JRADB/accessD.html?CNAME=pw01dde08", want: true},
		{link: testBase + "/race/5", want: true},
		{link: testBase + "/race/05", want: true},
		{link: testBase + "/JRADB/accessD.html?CNAME=xyz", want: false},
	}

	for _, tt := range tests {
		if got := relevant(tt.link, q); got != tt.want {
			t.Errorf("relevant(%q) = %v, want %v", tt.link, got, tt.want)
		}
	}
}

func TestHarvestGenerator_Confirm(t *testing.T) {
	g := newTestHarvester(nil, nil)
	q := testQuery(t, 11)

	tests := []struct {
		name string
		html string
		want bool
	}{
		{name: "venue and race label", html: `<p>4回京都1日 11R</p>`, want: true},
		{name: "venue and race word", html: `<p>京都 11レース</p>`, want: true},
		{name: "race label split across nodes", html: `<p>4回京都1日</p><span>11</span>R`, want: true},
		{name: "race word split across nodes", html: `<p>京都</p><b>11</b><span>レース</span>`, want: true},
		{name: "other venue", html: `<p>4回阪神1日 11R</p>`, want: false},
		{name: "other race", html: `<p>4回京都1日 10R</p>`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := &extract.Page{URL: testBase, Doc: mustDoc(t, tt.html)}
			if got := g.Confirm(q, page); got != tt.want {
				t.Errorf("Confirm() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHarvestGenerator_PageURL(t *testing.T) {
	g := newTestHarvester(nil, nil)
	q := testQuery(t, 11)

	tests := []struct {
		page string
		want string
	}{
		{page: "keiba/thisweek/", want: testBase + "/keiba/thisweek/"},
		{page: "/keiba/thisweek/{date}/", want: testBase + "/keiba/thisweek/20250501/"},
		{page: "/", want: testBase + "/"},
		{page: "https://other.test/{date}", want: "https://other.test/20250501"},
	}

	for _, tt := range tests {
		if got := g.pageURL(tt.page, q); got != tt.want {
			t.Errorf("pageURL(%q) = %q, want %q", tt.page, got, tt.want)
		}
	}
}
