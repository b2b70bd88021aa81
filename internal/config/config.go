// Package config loads the scraper configuration from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"sponarchive/internal/model"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingStartDate    = errors.New("crawl.start_date is required")
	ErrMissingEndDate      = errors.New("crawl.end_date is required")
	ErrEndBeforeStart      = errors.New("crawl.end_date must not be before crawl.start_date")
	ErrMissingSiteURL      = errors.New("crawl.site_url is required")
	ErrMissingURLFormat    = errors.New("crawl.archive_url_format is required")
	ErrInvalidTimeout      = errors.New("crawl.timeout_sec must be at least 1")
	ErrMissingArchivePath  = errors.New("paths.archive_cache is required")
	ErrMissingArticlesPath = errors.New("paths.articles_cache is required")
	ErrMissingOutputPath   = errors.New("paths.output_json is required")
)

// Config is the complete scraper configuration.
type Config struct {
	Crawl  CrawlConfig  `yaml:"crawl"`
	Paths  PathsConfig  `yaml:"paths"`
	Server ServerConfig `yaml:"server"`
}

// CrawlConfig defines the crawl span and HTTP behavior.
type CrawlConfig struct {
	// StartDate and EndDate bound the crawled day range, both inclusive,
	// as ISO dates.
	StartDate string `yaml:"start_date"`
	EndDate   string `yaml:"end_date"`

	// SiteURL is the base URL articles must belong to; cross-posted
	// content on partner sites is skipped.
	SiteURL string `yaml:"site_url"`

	// ArchiveURLFormat builds a listing page URL from day, month and year
	// (in that order).
	ArchiveURLFormat string `yaml:"archive_url_format"`

	// TimeoutSec bounds every HTTP request.
	TimeoutSec int `yaml:"timeout_sec"`
}

// PathsConfig defines where caches and outputs are written.
type PathsConfig struct {
	ArchiveCache  string `yaml:"archive_cache"`
	ArticlesCache string `yaml:"articles_cache"`
	OutputJSON    string `yaml:"output_json"`
	CorpusJSON    string `yaml:"corpus_json"`
	MetaJSON      string `yaml:"meta_json"`

	// PageCache enables the raw HTML page cache when non-empty.
	PageCache string `yaml:"page_cache"`
}

// ServerConfig defines the read-only HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	return &Config{
		Crawl: CrawlConfig{
			StartDate:        "2019-06-01",
			EndDate:          "2020-11-24",
			SiteURL:          "https://www.spiegel.de",
			ArchiveURLFormat: "https://www.spiegel.de/nachrichtenarchiv/artikel-%02d.%02d.%d.html",
			TimeoutSec:       15,
		},
		Paths: PathsConfig{
			ArchiveCache:  "cache/archive.snapshot",
			ArticlesCache: "cache/articles.snapshot",
			OutputJSON:    "data/spon.json",
			CorpusJSON:    "data/corpus.json",
			MetaJSON:      "data/meta.json",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load reads and validates a configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for missing or inconsistent values.
func (c *Config) Validate() error {
	if c.Crawl.StartDate == "" {
		return ErrMissingStartDate
	}
	if c.Crawl.EndDate == "" {
		return ErrMissingEndDate
	}

	start, err := c.Crawl.Start()
	if err != nil {
		return fmt.Errorf("crawl.start_date: %w", err)
	}
	end, err := c.Crawl.End()
	if err != nil {
		return fmt.Errorf("crawl.end_date: %w", err)
	}
	if end.Before(start) {
		return ErrEndBeforeStart
	}

	if c.Crawl.SiteURL == "" {
		return ErrMissingSiteURL
	}
	if c.Crawl.ArchiveURLFormat == "" {
		return ErrMissingURLFormat
	}
	if c.Crawl.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Paths.ArchiveCache == "" {
		return ErrMissingArchivePath
	}
	if c.Paths.ArticlesCache == "" {
		return ErrMissingArticlesPath
	}
	if c.Paths.OutputJSON == "" {
		return ErrMissingOutputPath
	}
	return nil
}

// Start returns the first crawled day.
func (c *CrawlConfig) Start() (time.Time, error) {
	return time.Parse(model.DateLayout, c.StartDate)
}

// End returns the last crawled day.
func (c *CrawlConfig) End() (time.Time, error) {
	return time.Parse(model.DateLayout, c.EndDate)
}

// Timeout returns the request timeout as a duration.
func (c *CrawlConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}
