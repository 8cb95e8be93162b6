package resolver

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/racecard/internal/extract"
	"github.com/pfrederiksen/racecard/internal/logger"
	"github.com/pfrederiksen/racecard/internal/progress"
	"github.com/pfrederiksen/racecard/internal/race"
)

var (
	onclickCNAMEPattern    = regexp.MustCompile(`CNAME=([^'"&\s]+)`)
	onclickDoActionPattern = regexp.MustCompile(`doAction\(\s*['"]([^'"]+)['"]\s*,\s*['"]([^'"]+)['"]\s*\)`)
)

// HarvestGenerator collects race card links from the site's own index pages.
// Pages may contain "{date}", which is replaced with the race date.
type HarvestGenerator struct {
	BaseURL  string
	Pages    []string
	Endpoint string // endpoint for bare CNAME tokens found in click handlers
	Timeout  time.Duration
	Fetcher  Fetcher
	Reporter progress.Reporter
	Logger   *logger.Logger
}

func (g *HarvestGenerator) Name() string {
	return "ページスクレイピング"
}

func (g *HarvestGenerator) Budget() int {
	return 0
}

// Confirm requires the page to name the venue and the race, since a harvested
// link can point at any race card on the index page.
func (g *HarvestGenerator) Confirm(q race.Query, page *extract.Page) bool {
	text := extract.JoinedText(page.Doc)
	if !strings.Contains(text, q.Venue.Name) {
		return false
	}
	return strings.Contains(text, q.RaceBare()+"R") || strings.Contains(text, q.RaceBare()+"レース")
}

func (g *HarvestGenerator) Candidates(ctx context.Context, q race.Query) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		links := g.harvest(ctx, q)
		for _, link := range links {
			if !relevant(link, q) {
				continue
			}
			if !yield(Candidate{URL: link, Source: g.Name()}) {
				return
			}
		}
	}
}

// relevant keeps links that mention the venue code or either race number
// rendering.
func relevant(link string, q race.Query) bool {
	return strings.Contains(link, q.Venue.Code) ||
		strings.Contains(link, q.RaceBare()) ||
		strings.Contains(link, q.RacePadded())
}

// harvest fetches every index page and returns the race card links found, in
// first-seen order without duplicates. Pages that fail to load are skipped.
func (g *HarvestGenerator) harvest(ctx context.Context, q race.Query) []string {
	seen := make(map[string]bool)
	var links []string
	add := func(link string) {
		if link != "" && !seen[link] {
			seen[link] = true
			links = append(links, link)
		}
	}

	for _, page := range g.Pages {
		if ctx.Err() != nil {
			break
		}

		pageURL := g.pageURL(page, q)
		g.report("ページ取得: %s", pageURL)

		doc, err := g.fetch(ctx, pageURL)
		if err != nil {
			g.report("ページ取得エラー: %v", err)
			g.log().Debug("index page fetch failed", logger.Fields{"url": pageURL, "error": err.Error()})
			continue
		}

		for _, link := range g.extractLinks(doc, pageURL) {
			add(link)
		}
		g.report("  %d個のJRADBリンクを発見", len(links))
	}

	return links
}

func (g *HarvestGenerator) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}
	return g.Fetcher.Fetch(ctx, pageURL)
}

func (g *HarvestGenerator) pageURL(page string, q race.Query) string {
	page = strings.ReplaceAll(page, "{date}", q.YMD())
	if strings.HasPrefix(page, "http://") || strings.HasPrefix(page, "https://") {
		return page
	}
	return strings.TrimRight(g.BaseURL, "/") + "/" + strings.TrimLeft(page, "/")
}

// extractLinks finds document links in hrefs and in inline click handlers.
func (g *HarvestGenerator) extractLinks(doc *goquery.Document, pageURL string) []string {
	pageBase, _ := url.Parse(pageURL)
	siteBase, _ := url.Parse(strings.TrimRight(g.BaseURL, "/") + "/")

	var links []string
	doc.Find("a, button, div, span").Each(func(_ int, el *goquery.Selection) {
		if href, ok := el.Attr("href"); ok && strings.Contains(href, "JRADB") && strings.Contains(href, "CNAME") {
			if link, ok := resolveReference(pageBase, href); ok {
				links = append(links, link)
			}
		}

		onclick, ok := el.Attr("onclick")
		if !ok {
			return
		}
		if m := onclickDoActionPattern.FindStringSubmatch(onclick); m != nil {
			if endpoint, ok := resolveReference(siteBase, m[1]); ok {
				links = append(links, endpoint+"?CNAME="+m[2])
			}
			return
		}
		if m := onclickCNAMEPattern.FindStringSubmatch(onclick); m != nil {
			links = append(links, AccessURL(g.BaseURL, g.Endpoint, m[1]))
		}
	})
	return links
}

func (g *HarvestGenerator) report(format string, args ...interface{}) {
	if g.Reporter != nil {
		g.Reporter.Report(fmt.Sprintf(format, args...))
	}
}

func (g *HarvestGenerator) log() *logger.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return logger.Default()
}
