package resolver

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pfrederiksen/racecard/internal/extract"
	"github.com/pfrederiksen/racecard/internal/logger"
	"github.com/pfrederiksen/racecard/internal/progress"
	"github.com/pfrederiksen/racecard/internal/race"
	"github.com/pfrederiksen/racecard/internal/scraper"
)

const (
	DefaultProbeTimeout = 8 * time.Second
	DefaultIndexTimeout = 10 * time.Second
	DefaultPageTimeout  = 15 * time.Second
)

// Settings holds the identifier-scheme knobs of the three strategies
type Settings struct {
	BaseURL string

	Endpoints     []string // pattern analysis endpoints, in probe order
	Suffixes      []string // curated suffixes, in probe order
	PatternBudget int

	SweepEndpoint string
	SuffixSpace   int
	PerDate       int

	IndexPages []string

	ProbeTimeout time.Duration
	IndexTimeout time.Duration
	PageTimeout  time.Duration
}

// DefaultSettings returns the settings that match the site as last observed.
func DefaultSettings() Settings {
	return Settings{
		BaseURL:       scraper.BaseURL,
		Endpoints:     []string{"accessD.html", "accessS.html"},
		Suffixes:      []string{"EB", "39", "1B", "E9", "EA", "EC", "37", "38", "3A", "19", "1A", "1C", "1D"},
		PatternBudget: 50,
		SweepEndpoint: "accessD.html",
		SuffixSpace:   256,
		PerDate:       20,
		IndexPages:    []string{"keiba/thisweek/", "keiba/thisweek/{date}/", "/"},
		ProbeTimeout:  DefaultProbeTimeout,
		IndexTimeout:  DefaultIndexTimeout,
		PageTimeout:   DefaultPageTimeout,
	}
}

// Options carries the collaborators of a Resolver. Zero values select
// defaults.
type Options struct {
	Reporter progress.Reporter
	Logger   *logger.Logger
	Metrics  *logger.Metrics
	Now      func() time.Time

	// Strategies replaces the default strategy chain when non-empty.
	Strategies []Generator
}

// Resolver turns a race query into an extracted race card
type Resolver struct {
	fetcher      Fetcher
	settings     Settings
	orchestrator *Orchestrator
	reporter     progress.Reporter
	log          *logger.Logger
	metrics      *logger.Metrics
	now          func() time.Time
}

// New creates a Resolver. The default strategy chain is pattern analysis,
// then the date sweep, then index-page harvesting.
func New(fetcher Fetcher, settings Settings, opts Options) *Resolver {
	if opts.Reporter == nil {
		opts.Reporter = progress.Discard
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = logger.NewMetrics()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if settings.ProbeTimeout <= 0 {
		settings.ProbeTimeout = DefaultProbeTimeout
	}
	if settings.IndexTimeout <= 0 {
		settings.IndexTimeout = DefaultIndexTimeout
	}
	if settings.PageTimeout <= 0 {
		settings.PageTimeout = DefaultPageTimeout
	}

	strategies := opts.Strategies
	if len(strategies) == 0 {
		strategies = DefaultStrategies(fetcher, settings, opts)
	}

	return &Resolver{
		fetcher:  fetcher,
		settings: settings,
		orchestrator: NewOrchestrator(fetcher, strategies, OrchestratorOptions{
			ProbeTimeout: settings.ProbeTimeout,
			Reporter:     opts.Reporter,
			Logger:       opts.Logger,
			Metrics:      opts.Metrics,
		}),
		reporter: opts.Reporter,
		log:      opts.Logger,
		metrics:  opts.Metrics,
		now:      opts.Now,
	}
}

// DefaultStrategies builds the three strategies from settings.
func DefaultStrategies(fetcher Fetcher, settings Settings, opts Options) []Generator {
	return []Generator{
		&PatternGenerator{
			BaseURL:   settings.BaseURL,
			Endpoints: settings.Endpoints,
			Suffixes:  settings.Suffixes,
			MaxProbes: settings.PatternBudget,
			Now:       opts.Now,
		},
		&DateVariationGenerator{
			BaseURL:     settings.BaseURL,
			Endpoint:    settings.SweepEndpoint,
			SuffixSpace: settings.SuffixSpace,
			PerDate:     settings.PerDate,
			Now:         opts.Now,
		},
		&HarvestGenerator{
			BaseURL:  settings.BaseURL,
			Pages:    settings.IndexPages,
			Endpoint: settings.SweepEndpoint,
			Timeout:  settings.IndexTimeout,
			Fetcher:  fetcher,
			Reporter: opts.Reporter,
			Logger:   opts.Logger,
		},
	}
}

// Resolve finds the race card page for q and extracts it.
func (r *Resolver) Resolve(ctx context.Context, q race.Query) (*race.Card, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	runID := uuid.NewString()
	start := time.Now()
	r.log.Info("resolving race card", logger.Fields{"run_id": runID, "query": q.String()})
	r.reporter.Report(fmt.Sprintf("検索開始: %s", q))

	result, err := r.orchestrator.Resolve(ctx, q)
	r.metrics.RecordTiming("resolve.duration", time.Since(start))
	if err != nil {
		r.log.Warn("resolution failed", logger.Fields{"run_id": runID, "error": err.Error()})
		return nil, err
	}

	r.log.Info("resolved race card", logger.Fields{
		"run_id":   runID,
		"url":      result.Page.URL,
		"strategy": result.Strategy,
		"attempts": result.Attempts,
	})

	card, err := result.Page.Card(r.now())
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", result.Page.URL, err)
	}
	return card, nil
}

// ResolveURL extracts the race card at a known address, skipping the
// strategy chain and the validation it applies.
func (r *Resolver) ResolveURL(ctx context.Context, url string) (*race.Card, error) {
	ctx, cancel := context.WithTimeout(ctx, r.settings.PageTimeout)
	defer cancel()

	r.reporter.Report(fmt.Sprintf("指定URLを取得: %s", url))
	doc, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}

	card, err := extract.Extract(url, doc, r.now())
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", url, err)
	}
	r.log.Info("extracted race card", logger.Fields{"url": url, "entrants": len(card.Entrants)})
	return card, nil
}

// Validated reports whether the page at url is a race card, without
// extracting it. The address book uses it to check remembered addresses.
func (r *Resolver) Validated(ctx context.Context, url string) (*extract.Page, bool) {
	ctx, cancel := context.WithTimeout(ctx, r.settings.ProbeTimeout)
	defer cancel()

	doc, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		r.log.Debug("remembered address failed", logger.Fields{"url": url, "error": err.Error()})
		return nil, false
	}
	return extract.Validate(url, doc)
}

// Metrics returns the resolver's metrics tracker.
func (r *Resolver) Metrics() *logger.Metrics {
	return r.metrics
}
