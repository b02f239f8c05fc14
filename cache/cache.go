// Package cache memoizes fetch+extract results per URL with lazy TTL
// expiry. The cache is the only state shared across pipeline calls.
package cache

import (
	"context"

	"github.com/aluiziolira/go-webintel/config"
	"github.com/aluiziolira/go-webintel/extract"
	"github.com/aluiziolira/go-webintel/fetch"
	"github.com/aluiziolira/go-webintel/models"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Pages caches extracted pages keyed by exact URL string. Entries older
// than the TTL read as absent. Concurrent misses may both fetch; the
// operation is idempotent so the duplicate work is tolerated.
type Pages struct {
	fetcher *fetch.Fetcher
	lru     *expirable.LRU[string, models.ExtractedPage]
}

// NewPages builds a page cache over fetcher using cfg's TTL and size bound.
func NewPages(fetcher *fetch.Fetcher, cfg *config.Config) *Pages {
	return &Pages{
		fetcher: fetcher,
		lru:     expirable.NewLRU[string, models.ExtractedPage](cfg.CacheMaxEntries, nil, cfg.CacheTTL),
	}
}

// Scrape returns the extraction for url, fetching only on a miss or after
// the TTL has elapsed. Failures cache as empty-text pages like any other
// result.
func (p *Pages) Scrape(ctx context.Context, url string) models.ExtractedPage {
	if page, ok := p.lru.Get(url); ok {
		p.fetcher.Metrics.IncCacheHit()
		return page
	}
	p.fetcher.Metrics.IncCacheMiss()

	raw := p.fetcher.Fetch(ctx, url)
	page := extract.Article(url, raw)
	p.lru.Add(url, page)
	return page
}

// Len reports the number of live entries.
func (p *Pages) Len() int {
	return p.lru.Len()
}
