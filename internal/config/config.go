package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pfrederiksen/racecard/internal/logger"
	"github.com/pfrederiksen/racecard/internal/resolver"
	"github.com/pfrederiksen/racecard/internal/scraper"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file.
const (
	EnvBaseURL   = "RACECARD_BASE_URL"
	EnvOutputDir = "RACECARD_OUTPUT_DIR"
	EnvDataDir   = "RACECARD_DATA_DIR"
)

// Config holds the full application configuration.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Resolver ResolverConfig `yaml:"resolver"`
	Output   OutputConfig   `yaml:"output"`
	Data     DataConfig     `yaml:"data"`
	Log      LogConfig      `yaml:"log"`
}

// SiteConfig describes how to talk to the race card site.
type SiteConfig struct {
	BaseURL           string        `yaml:"base_url"`
	UserAgent         string        `yaml:"user_agent"`
	Encoding          string        `yaml:"encoding"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
}

// ResolverConfig tunes the address strategies.
type ResolverConfig struct {
	Endpoints     []string      `yaml:"endpoints"`
	Suffixes      []string      `yaml:"suffixes"`
	PatternBudget int           `yaml:"pattern_budget"`
	SweepEndpoint string        `yaml:"sweep_endpoint"`
	SuffixSpace   int           `yaml:"suffix_space"`
	PerDate       int           `yaml:"per_date"`
	IndexPages    []string      `yaml:"index_pages"`
	ProbeTimeout  time.Duration `yaml:"probe_timeout"`
	IndexTimeout  time.Duration `yaml:"index_timeout"`
	PageTimeout   time.Duration `yaml:"page_timeout"`
}

// OutputConfig controls where spreadsheets go.
type OutputConfig struct {
	Dir  string `yaml:"dir"`
	XLSX bool   `yaml:"xlsx"`
}

// DataConfig locates the address book and card snapshots.
type DataConfig struct {
	Dir string `yaml:"dir"`
}

// LogConfig sets the minimum log level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	rs := resolver.DefaultSettings()
	return &Config{
		Site: SiteConfig{
			BaseURL:   rs.BaseURL,
			UserAgent: scraper.UserAgent,
			Timeout:   scraper.Timeout,
			Burst:     1,
		},
		Resolver: ResolverConfig{
			Endpoints:     rs.Endpoints,
			Suffixes:      rs.Suffixes,
			PatternBudget: rs.PatternBudget,
			SweepEndpoint: rs.SweepEndpoint,
			SuffixSpace:   rs.SuffixSpace,
			PerDate:       rs.PerDate,
			IndexPages:    rs.IndexPages,
			ProbeTimeout:  rs.ProbeTimeout,
			IndexTimeout:  rs.IndexTimeout,
			PageTimeout:   rs.PageTimeout,
		},
		Output: OutputConfig{Dir: ".", XLSX: true},
		Data:   DataConfig{Dir: "~/.local/share/racecard"},
		Log:    LogConfig{Level: string(logger.LevelInfo)},
	}
}

// DefaultPath returns ~/.racecard/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".racecard", "config.yaml"), nil
}

// Load builds the configuration from the defaults, the config file and the
// environment, in that order. An empty path means the default location,
// which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if err := cfg.loadFile(path, explicit); err != nil {
		return nil, err
	}
	cfg.applyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvBaseURL); v != "" {
		c.Site.BaseURL = v
	}
	if v := getenv(EnvOutputDir); v != "" {
		c.Output.Dir = v
	}
	if v := getenv(EnvDataDir); v != "" {
		c.Data.Dir = v
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Site.BaseURL == "" {
		return fmt.Errorf("site.base_url is required")
	}
	if len(c.Resolver.Endpoints) == 0 {
		return fmt.Errorf("resolver.endpoints must not be empty")
	}
	if c.Resolver.PatternBudget < 0 || c.Resolver.PerDate < 0 {
		return fmt.Errorf("resolver budgets must not be negative")
	}
	if c.Resolver.SuffixSpace < 0 || c.Resolver.SuffixSpace > 256 {
		return fmt.Errorf("resolver.suffix_space must be between 0 and 256, got %d", c.Resolver.SuffixSpace)
	}
	if c.Site.RequestsPerSecond < 0 {
		return fmt.Errorf("site.requests_per_second must not be negative")
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// ScraperOptions returns the fetcher settings.
func (c *Config) ScraperOptions() scraper.Options {
	return scraper.Options{
		UserAgent:         c.Site.UserAgent,
		Timeout:           c.Site.Timeout,
		RequestsPerSecond: c.Site.RequestsPerSecond,
		Burst:             c.Site.Burst,
		Encoding:          c.Site.Encoding,
	}
}

// ResolverSettings returns the strategy settings.
func (c *Config) ResolverSettings() resolver.Settings {
	r := c.Resolver
	return resolver.Settings{
		BaseURL:       c.Site.BaseURL,
		Endpoints:     r.Endpoints,
		Suffixes:      r.Suffixes,
		PatternBudget: r.PatternBudget,
		SweepEndpoint: r.SweepEndpoint,
		SuffixSpace:   r.SuffixSpace,
		PerDate:       r.PerDate,
		IndexPages:    r.IndexPages,
		ProbeTimeout:  r.ProbeTimeout,
		IndexTimeout:  r.IndexTimeout,
		PageTimeout:   r.PageTimeout,
	}
}
