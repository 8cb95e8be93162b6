package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/pfrederiksen/racecard/internal/config"
	"github.com/pfrederiksen/racecard/internal/logger"
	"github.com/pfrederiksen/racecard/internal/progress"
	"github.com/pfrederiksen/racecard/internal/race"
	"github.com/pfrederiksen/racecard/internal/resolver"
	"github.com/pfrederiksen/racecard/internal/scraper"
	"github.com/pfrederiksen/racecard/internal/sheet"
	"github.com/pfrederiksen/racecard/internal/storage"
	"github.com/pfrederiksen/racecard/internal/venue"
	"github.com/spf13/cobra"
)

// Version is set at build time
var Version = "dev"

const (
	ExitSuccess      = 0
	ExitError        = 1
	ExitNotFound     = 3
	ExitExtractError = 4
)

// app holds flag values and the collaborators a command run needs
type app struct {
	configPath string
	format     string
	verbose    bool

	date    string
	venue   string
	race    string
	url     string
	outDir  string
	dataDir string
	sort    string
	noXLSX  bool
	noMemo  bool

	stdout     io.Writer
	stderr     io.Writer
	now        func() time.Time
	newFetcher func(scraper.Options) (resolver.Fetcher, error)
}

func newApp() *app {
	return &app{
		stdout: os.Stdout,
		stderr: os.Stderr,
		now:    time.Now,
		newFetcher: func(opts scraper.Options) (resolver.Fetcher, error) {
			return scraper.New(opts)
		},
	}
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp())
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "racecard",
		Short: "Find a JRA race card and save it as a spreadsheet",
		Long: `A CLI tool that finds the JRA race card (出馬表) page for a race,
extracts the entrants (馬番, 馬名, 騎手名) and writes them to an xlsx sheet.

The race card address cannot be derived from the race, so racecard guesses:
it probes likely addresses, sweeps nearby ones and harvests links from the
site's index pages. Once found, the address is remembered for next time.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default ~/.racecard/config.yaml)")
	cmd.PersistentFlags().StringVar(&a.format, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Enable verbose logging")

	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	cmd.AddCommand(newFetchCmd(a), newVenuesCmd(a))
	return cmd
}

func newFetchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Resolve, extract and save one race card",
		Example: `  racecard fetch --date 20250501 --venue 京都 --race 11R
  racecard fetch --url 'https://www.jra.go.jp/JRADB/accessD.html?CNAME=...'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFetch(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&a.date, "date", "", "Race date, YYYYMMDD")
	cmd.Flags().StringVar(&a.venue, "venue", "", "Venue name or code (e.g. 京都 or 08)")
	cmd.Flags().StringVar(&a.race, "race", "", "Race number (e.g. 11 or 11R)")
	cmd.Flags().StringVar(&a.url, "url", "", "Race card address; skips the address search")
	cmd.Flags().StringVar(&a.outDir, "out", "", "Directory for the spreadsheet (overrides config)")
	cmd.Flags().StringVar(&a.dataDir, "data-dir", "", "Data directory for addresses and snapshots (overrides config)")
	cmd.Flags().StringVar(&a.sort, "sort", "card", "Entrant order in output: card, number, name or jockey")
	cmd.Flags().BoolVar(&a.noXLSX, "no-xlsx", false, "Do not write a spreadsheet")
	cmd.Flags().BoolVar(&a.noMemo, "no-memo", false, "Do not use or update remembered addresses")

	return cmd
}

func newVenuesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "venues",
		Short: "List venues and their codes",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(a.format)
			if err != nil {
				return err
			}
			return writeVenues(a.stdout, venue.All(), format)
		},
	}
}

// loadConfig reads the config and applies the command-line overrides.
func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if a.outDir != "" {
		cfg.Output.Dir = a.outDir
	}
	if a.dataDir != "" {
		cfg.Data.Dir = a.dataDir
	}
	if a.noXLSX {
		cfg.Output.XLSX = false
	}
	if a.verbose {
		cfg.Log.Level = string(logger.LevelDebug)
	}
	return cfg, nil
}

// runFetch is the main command logic
func (a *app) runFetch(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	format, err := parseFormat(a.format)
	if err != nil {
		return err
	}
	order, err := parseSortOrder(a.sort)
	if err != nil {
		return err
	}

	var query *race.Query
	if a.date != "" || a.venue != "" || a.race != "" || a.url == "" {
		q, err := race.NewQuery(a.date, a.venue, a.race)
		if err != nil {
			return fmt.Errorf("invalid race (need --date, --venue and --race, or --url): %w", err)
		}
		query = &q
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	level, _ := logger.ParseLevel(cfg.Log.Level)
	log := logger.New(level, a.stderr)
	logger.SetDefault(log)

	store, err := storage.New(cfg.Data.Dir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	fetcher, err := a.newFetcher(cfg.ScraperOptions())
	if err != nil {
		return fmt.Errorf("initializing scraper: %w", err)
	}

	r := resolver.New(fetcher, cfg.ResolverSettings(), resolver.Options{
		Reporter: progress.NewWriter(a.stderr),
		Logger:   log,
		Now:      a.now,
	})

	card, source, err := a.resolve(ctx, r, store, query)
	if err != nil {
		return err
	}

	key := cardKey(query, card)
	var changes []*race.EntrantChange
	if key != "" {
		if !a.noMemo && query != nil {
			if err := store.Remember(*query, card.URL); err != nil {
				log.Warn("could not remember address", logger.Fields{"error": err.Error()})
			}
		}

		previous, err := store.LoadCard(key)
		if err != nil {
			log.Warn("could not load previous card", logger.Fields{"key": key, "error": err.Error()})
		}
		changes = race.DiffCards(previous, card)

		if err := store.SaveCard(key, card); err != nil {
			return fmt.Errorf("saving card: %w", err)
		}
	}

	result := &OutputResult{
		FetchedAt: card.FetchedAt,
		Source:    source,
		URL:       card.URL,
		Title:     card.Metadata.Title,
		Metadata:  card.Metadata,
		Entrants:  sortEntrants(card.Entrants, order),
		Changes:   changes,
	}
	if query != nil {
		result.Query = query.String()
	}

	if cfg.Output.XLSX {
		dir, err := storage.ExpandHome(cfg.Output.Dir)
		if err != nil {
			return err
		}
		path, err := sheet.Write(card, dir)
		if err != nil {
			return fmt.Errorf("writing spreadsheet: %w", err)
		}
		result.Spreadsheet = path
	}

	snap := r.Metrics().GetSnapshot()
	log.Debug("run metrics", logger.Fields{"counters": snap.Counters, "timings": snap.Timings})

	if err := WriteOutput(a.stdout, result, format, a.verbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// resolve obtains the card from the manual address, a remembered address or
// the strategy chain, in that order of preference.
func (a *app) resolve(ctx context.Context, r *resolver.Resolver, store *storage.Storage, q *race.Query) (*race.Card, Source, error) {
	if a.url != "" {
		card, err := r.ResolveURL(ctx, a.url)
		if err != nil {
			return nil, "", describe(err, "")
		}
		return card, SourceManual, nil
	}

	if !a.noMemo {
		url, ok, err := store.Lookup(*q)
		if err != nil {
			logger.Warn("could not read remembered addresses", logger.Fields{"error": err.Error()})
		}
		if ok {
			if page, valid := r.Validated(ctx, url); valid {
				card, err := page.Card(a.now())
				if err == nil {
					return card, SourceRemembered, nil
				}
				logger.Warn("remembered address no longer parses", logger.Fields{"url": url, "error": err.Error()})
			}
			logger.Info("forgetting stale address", logger.Fields{"url": url})
			if err := store.Forget(*q); err != nil {
				logger.Warn("could not forget address", logger.Fields{"error": err.Error()})
			}
		}
	}

	card, err := r.Resolve(ctx, *q)
	if err != nil {
		return nil, "", describe(err, q.String())
	}
	return card, SourceResolved, nil
}

// describe turns resolution errors into messages that tell the user what to
// do next.
func describe(err error, what string) error {
	switch {
	case errors.Is(err, race.ErrExhausted):
		return fmt.Errorf("could not find the race card page for %s (pass --url with the address): %w", what, err)
	case race.IsExtraction(err):
		return fmt.Errorf("found the page but could not parse it: %w", err)
	default:
		return err
	}
}

// cardKey picks the storage key for a card: the query's when there is one,
// otherwise one rebuilt from the page's own metadata.
func cardKey(q *race.Query, card *race.Card) string {
	if q != nil {
		return q.Key()
	}
	md := card.Metadata
	mq, err := race.NewQuery(md.Date, md.Venue, md.RaceLabel)
	if err != nil {
		return ""
	}
	return mq.Key()
}

// ExitCode maps an error from a command run to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, race.ErrExhausted):
		return ExitNotFound
	case race.IsExtraction(err):
		return ExitExtractError
	default:
		return ExitError
	}
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := NewRootCmd().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	stop()
	os.Exit(ExitCode(err))
}
