package resolver

import (
	"context"
	"fmt"
	"time"

	"github.com/pfrederiksen/racecard/internal/extract"
	"github.com/pfrederiksen/racecard/internal/logger"
	"github.com/pfrederiksen/racecard/internal/progress"
	"github.com/pfrederiksen/racecard/internal/race"
)

// State is the Orchestrator's position in a resolution
type State string

const (
	StateIdle      State = "idle"
	StateProbing   State = "probing"
	StateResolved  State = "resolved"
	StateExhausted State = "exhausted"
)

// Result describes a successful resolution
type Result struct {
	Page     *extract.Page
	Strategy string
	Attempts int // candidates probed across all strategies
}

// Orchestrator runs generators in order and probes their candidates one at a
// time. It never returns to a generator once it has moved past it, and the
// first validated page ends the whole resolution.
type Orchestrator struct {
	fetcher      Fetcher
	strategies   []Generator
	probeTimeout time.Duration
	reporter     progress.Reporter
	log          *logger.Logger
	metrics      *logger.Metrics
}

// OrchestratorOptions configures an Orchestrator. Zero values select defaults.
type OrchestratorOptions struct {
	ProbeTimeout time.Duration
	Reporter     progress.Reporter
	Logger       *logger.Logger
	Metrics      *logger.Metrics
}

// NewOrchestrator creates an Orchestrator over the given strategies.
func NewOrchestrator(fetcher Fetcher, strategies []Generator, opts OrchestratorOptions) *Orchestrator {
	if opts.ProbeTimeout == 0 {
		opts.ProbeTimeout = DefaultProbeTimeout
	}
	if opts.Reporter == nil {
		opts.Reporter = progress.Discard
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = logger.NewMetrics()
	}
	return &Orchestrator{
		fetcher:      fetcher,
		strategies:   strategies,
		probeTimeout: opts.ProbeTimeout,
		reporter:     opts.Reporter,
		log:          opts.Logger,
		metrics:      opts.Metrics,
	}
}

// Resolve probes candidates until one validates. It returns an
// *race.ExhaustionError when every strategy runs dry, and the context's error
// if the context ends first. Fetch failures never end a resolution.
func (o *Orchestrator) Resolve(ctx context.Context, q race.Query) (*Result, error) {
	attempts := 0
	o.transition(StateIdle, "", logger.Fields{"query": q.String()})

	for i, g := range o.strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		o.report("【戦略%d】%s", i+1, g.Name())
		o.transition(StateProbing, g.Name(), logger.Fields{"budget": g.Budget()})

		page, tried, err := o.probe(ctx, q, g)
		attempts += tried
		if err != nil {
			return nil, err
		}
		if page != nil {
			o.report("✓ 成功！ URL発見: %s", page.URL)
			o.metrics.IncrCounter("strategy." + g.Name() + ".resolved")
			o.transition(StateResolved, g.Name(), logger.Fields{"url": page.URL, "attempts": attempts})
			return &Result{Page: page, Strategy: g.Name(), Attempts: attempts}, nil
		}

		o.log.Info("strategy exhausted", logger.Fields{"strategy": g.Name(), "attempts": tried})
	}

	o.metrics.IncrCounter("resolve.exhausted")
	o.transition(StateExhausted, "", logger.Fields{"attempts": attempts})
	return nil, &race.ExhaustionError{Query: q, Attempts: attempts}
}

// probe walks one generator's candidates, stopping at its budget.
func (o *Orchestrator) probe(ctx context.Context, q race.Query, g Generator) (*extract.Page, int, error) {
	budget := g.Budget()
	confirmer, _ := g.(Confirmer)

	tried := 0
	for c := range g.Candidates(ctx, q) {
		if err := ctx.Err(); err != nil {
			return nil, tried, err
		}

		tried++
		page, ok := o.attempt(ctx, c)
		if ok && confirmer != nil && !confirmer.Confirm(q, page) {
			o.report("  該当レースではありません: %s", c.URL)
			ok = false
		}
		if ok {
			return page, tried, nil
		}

		if budget > 0 && tried >= budget {
			o.report("  試行上限(%d)に到達", budget)
			break
		}
	}
	return nil, tried, nil
}

// attempt fetches and validates one candidate. Any failure is a miss.
func (o *Orchestrator) attempt(ctx context.Context, c Candidate) (*extract.Page, bool) {
	ctx, cancel := context.WithTimeout(ctx, o.probeTimeout)
	defer cancel()

	o.metrics.IncrCounter("probe.attempts")
	doc, err := o.fetcher.Fetch(ctx, c.URL)
	if err != nil {
		o.metrics.IncrCounter("probe.failures")
		o.log.Debug("probe failed", logger.Fields{"strategy": c.Source, "url": c.URL, "error": err.Error()})
		o.report("試行: %s → 失敗 (%v)", c.URL, err)
		return nil, false
	}

	page, ok := extract.Validate(c.URL, doc)
	o.log.Debug("probe", logger.Fields{"strategy": c.Source, "url": c.URL, "valid": ok})
	if !ok {
		o.report("試行: %s → 出馬表ではありません", c.URL)
		return nil, false
	}
	o.report("試行: %s → 有効な出馬表ページを検出", c.URL)
	return page, true
}

func (o *Orchestrator) transition(to State, strategy string, fields logger.Fields) {
	if fields == nil {
		fields = logger.Fields{}
	}
	fields["state"] = string(to)
	if strategy != "" {
		fields["strategy"] = strategy
	}
	o.log.Info("resolver state", fields)
}

func (o *Orchestrator) report(format string, args ...interface{}) {
	o.reporter.Report(fmt.Sprintf(format, args...))
}
