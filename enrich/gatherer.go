// Package enrich aggregates website, professional-network, code-hosting,
// and product-launch-community signals into one intelligence report for the
// downstream business analyzer.
package enrich

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aluiziolira/go-webintel/cache"
	"github.com/aluiziolira/go-webintel/config"
	"github.com/aluiziolira/go-webintel/crawl"
	"github.com/aluiziolira/go-webintel/fetch"
	"github.com/aluiziolira/go-webintel/models"
)

// Gatherer orchestrates the intelligence sources. The website crawl is the
// one required source; the rest are optional and individually isolated so
// a failing source never blocks its siblings.
type Gatherer struct {
	cfg     *config.Config
	fetcher *fetch.Fetcher
	pages   *cache.Pages
	crawler *crawl.Crawler
	client  *http.Client // JSON API calls that need headers the fetcher does not set
}

// NewGatherer wires a gatherer over the shared fetcher and page cache.
func NewGatherer(cfg *config.Config, fetcher *fetch.Fetcher, pages *cache.Pages) *Gatherer {
	return &Gatherer{
		cfg:     cfg,
		fetcher: fetcher,
		pages:   pages,
		crawler: crawl.New(cfg, fetcher, pages),
		client: &http.Client{
			Timeout: cfg.LookupTimeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   cfg.LookupTimeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
			},
		},
	}
}

// WithHTTPClient swaps the API client. Used by tests.
func (g *Gatherer) WithHTTPClient(client *http.Client) {
	g.client = client
}

// Gather runs the full aggregation for one company profile. It never
// returns an error: missing sources simply stay absent from the report.
func (g *Gatherer) Gather(ctx context.Context, profile models.CompanyProfile) *models.EnrichedIntelligence {
	start := time.Now()
	intel := &models.EnrichedIntelligence{
		DataSources: []string{},
	}

	// Required source: the company website.
	var homepageLinks []string
	if profile.Website != "" {
		result := g.crawler.Shallow(ctx, profile.Website, g.cfg.CrawlMaxPages)
		intel.WebsiteContent = result.CombinedText
		intel.WebsiteSources = result.Sources
		homepageLinks = g.pages.Scrape(ctx, profile.Website).Links
	}

	// Optional sources run concurrently; each owns its result variable so
	// no locking is needed before the join.
	var (
		wg       sync.WaitGroup
		linkedin *models.LinkedInData
		hiring   *models.HiringSignal
		github   *models.GithubData
		launches []models.ProductHuntLaunch
	)

	if profile.LinkedInURL != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := g.scrapeLinkedIn(ctx, profile.LinkedInURL)
			if err != nil {
				slog.Warn("linkedin source failed", slog.Any("error", err))
				return
			}
			linkedin = data
			if signal, err := g.scrapeHiringSignal(ctx, profile.LinkedInURL); err == nil {
				hiring = signal
			} else {
				slog.Debug("hiring signal lookup failed", slog.Any("error", err))
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		org, ok := g.resolveGithubOrg(ctx, homepageLinks, profile.Name)
		if !ok {
			slog.Debug("no github org resolved", slog.String("company", profile.Name))
			return
		}
		data, err := g.analyzeGithubOrg(ctx, org)
		if err != nil {
			slog.Warn("github source failed", slog.String("org", org), slog.Any("error", err))
			return
		}
		github = data
	}()

	if profile.Name != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results, err := g.searchProductHunt(ctx, profile.Name)
			if err != nil {
				slog.Warn("product hunt source failed", slog.Any("error", err))
				return
			}
			launches = results
		}()
	}

	wg.Wait()

	if intel.WebsiteContent != "" {
		intel.DataSources = append(intel.DataSources, "website")
		intel.TotalDataPoints++
	}
	if linkedin != nil {
		intel.LinkedIn = linkedin
		intel.HiringSignal = hiring
		intel.DataSources = append(intel.DataSources, "linkedin")
		intel.TotalDataPoints++
	}
	if github != nil {
		intel.Github = github
		intel.DataSources = append(intel.DataSources, "github")
		intel.TotalDataPoints++
	}
	if len(launches) > 0 {
		intel.ProductHunt = launches
		intel.DataSources = append(intel.DataSources, "producthunt")
		intel.TotalDataPoints++
	}

	intel.ScrapingDurationMs = time.Since(start).Milliseconds()
	slog.Info("intelligence gathered",
		slog.String("company", profile.Name),
		slog.Int("sources", intel.TotalDataPoints),
		slog.Int64("duration_ms", intel.ScrapingDurationMs),
	)
	return intel
}

// githubLinkOrg pulls an organization name out of a github.com link.
func githubLinkOrg(link string) (string, bool) {
	lowered := strings.ToLower(link)
	idx := strings.Index(lowered, "github.com/")
	if idx < 0 {
		return "", false
	}
	rest := link[idx+len("github.com/"):]
	org, _, _ := strings.Cut(rest, "/")
	org = strings.TrimSpace(org)
	if org == "" {
		return "", false
	}
	return org, true
}
