package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// ScoreRule assigns a relevance score to links whose path contains one of
// the keywords. Rules are evaluated in order; the first match wins.
type ScoreRule struct {
	Keywords []string
	Score    int
}

// Config holds settings for the fetcher, cache, crawlers, platform
// scrapers, and the intelligence gatherer.
type Config struct {
	UserAgent string

	// Fetcher
	FetchTimeout  time.Duration // generic page fetches
	LookupTimeout time.Duration // secondary lookups (APIs, sitemaps)
	MaxRetries    int
	RetryBackoff  time.Duration // linear unit: attempt N waits N*RetryBackoff

	// Cache
	CacheTTL        time.Duration
	CacheMaxEntries int

	// Crawlers
	CrawlMaxPages    int
	CrawlMaxDepth    int
	SitemapSeedLimit int
	SnippetLength    int
	ShallowPattern   string // regexp applied to link paths by the shallow strategy
	RootScore        int
	ScoreRules       []ScoreRule

	// Platform scrapers
	PlatformMaxPages int
	PlatformTimeout  time.Duration

	// Gatherer
	SummaryContentLimit int

	// Optional API credentials; absence degrades to public access.
	GithubToken      string
	ProductHuntToken string

	// Catalog output (scrape mode)
	OutputFile         string
	OutputFormat       string // csv, json, or dual
	PipelineBufferSize int
	BatchSize          int

	MetricsAddr string
	Verbose     bool
}

// DefaultConfig returns the tuned defaults. Scoring weights and platform
// path lists are starting points, not contracts; callers may override them.
func DefaultConfig() *Config {
	return &Config{
		UserAgent:        "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
		FetchTimeout:     12 * time.Second,
		LookupTimeout:    8 * time.Second,
		MaxRetries:       3,
		RetryBackoff:     300 * time.Millisecond,
		CacheTTL:         30 * time.Minute,
		CacheMaxEntries:  512,
		CrawlMaxPages:    10,
		CrawlMaxDepth:    2,
		SitemapSeedLimit: 20,
		SnippetLength:    200,
		ShallowPattern:   `(?i)/(about|pricing|product|solutions|case-stud|blog)`,
		RootScore:        8,
		ScoreRules: []ScoreRule{
			{Keywords: []string{"product", "solution", "platform", "feature"}, Score: 7},
			{Keywords: []string{"case", "customer", "reference"}, Score: 7},
			{Keywords: []string{"pricing", "plans"}, Score: 6},
			{Keywords: []string{"about", "team", "company"}, Score: 5},
			{Keywords: []string{"blog", "news", "press"}, Score: 3},
			{Keywords: []string{"contact", "careers", "legal"}, Score: 1},
		},
		PlatformMaxPages:    12,
		PlatformTimeout:     10 * time.Second,
		SummaryContentLimit: 3000,
		GithubToken:         os.Getenv("WEBINTEL_GITHUB_TOKEN"),
		ProductHuntToken:    os.Getenv("WEBINTEL_PRODUCTHUNT_TOKEN"),
		OutputFile:          "output/products.csv",
		OutputFormat:        "csv",
		PipelineBufferSize:  512,
		BatchSize:           64,
		MetricsAddr:         "",
		Verbose:             false,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive")
	}
	if c.LookupTimeout <= 0 {
		return fmt.Errorf("lookup timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if c.RetryBackoff < 0 {
		return fmt.Errorf("retry backoff cannot be negative")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache TTL must be positive")
	}
	if c.CacheMaxEntries <= 0 {
		return fmt.Errorf("cache max entries must be positive")
	}
	if c.CrawlMaxPages <= 0 {
		return fmt.Errorf("crawl max pages must be positive")
	}
	if c.CrawlMaxDepth < 0 {
		return fmt.Errorf("crawl max depth cannot be negative")
	}
	if c.SitemapSeedLimit < 0 {
		return fmt.Errorf("sitemap seed limit cannot be negative")
	}
	if c.SnippetLength <= 0 {
		return fmt.Errorf("snippet length must be positive")
	}
	if c.PlatformMaxPages <= 0 {
		return fmt.Errorf("platform max pages must be positive")
	}
	if c.PlatformTimeout <= 0 {
		return fmt.Errorf("platform timeout must be positive")
	}
	if c.SummaryContentLimit <= 0 {
		return fmt.Errorf("summary content limit must be positive")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	if c.OutputFormat != "csv" && c.OutputFormat != "json" && c.OutputFormat != "dual" {
		return fmt.Errorf("output format must be csv, json, or dual")
	}
	if c.PipelineBufferSize <= 0 {
		return fmt.Errorf("pipeline buffer size must be positive")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}
	return nil
}

// ValidateTarget checks that a target URL is absolute with a host.
func ValidateTarget(raw string) error {
	if raw == "" {
		return fmt.Errorf("target URL cannot be empty")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid target URL: %w", err)
	}
	if parsed.Host == "" {
		return fmt.Errorf("target URL must include a host")
	}
	return nil
}

// EnvInt reads an integer environment variable. The second return reports
// whether the variable was set.
func EnvInt(key string) (int, bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return 0, false, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, true, nil
}

// EnvString reads a string environment variable.
func EnvString(key string) (string, bool) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return "", false
	}
	return raw, true
}
