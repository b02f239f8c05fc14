// Package crawl implements the two site-crawling strategies: a shallow
// pattern-filtered breadth-first walk and a sitemap-seeded, relevance-ranked
// deep walk. Both share the fetcher, extractor, and page cache.
package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/aluiziolira/go-webintel/cache"
	"github.com/aluiziolira/go-webintel/config"
	"github.com/aluiziolira/go-webintel/fetch"
	"github.com/aluiziolira/go-webintel/models"
)

// Crawler drives multi-page crawls under page and depth budgets. The
// visitation loop is sequential: deterministic order keeps the relevance
// ranking observable and the budgets exact.
type Crawler struct {
	cfg       *config.Config
	fetcher   *fetch.Fetcher
	pages     *cache.Pages
	shallowRe *regexp.Regexp
}

type queueItem struct {
	url   string
	depth int
}

// New builds a crawler sharing fetcher and pages with its callers.
func New(cfg *config.Config, fetcher *fetch.Fetcher, pages *cache.Pages) *Crawler {
	return &Crawler{
		cfg:       cfg,
		fetcher:   fetcher,
		pages:     pages,
		shallowRe: regexp.MustCompile(cfg.ShallowPattern),
	}
}

// Shallow crawls breadth-first from startURL, same-origin only, following
// links whose path matches the coarse relevance pattern. It visits at most
// maxPages distinct URLs.
func (c *Crawler) Shallow(ctx context.Context, startURL string, maxPages int) models.CrawlResult {
	origin, err := url.Parse(startURL)
	if err != nil || origin.Host == "" {
		slog.Warn("shallow crawl: unusable start URL", slog.String("url", startURL))
		return models.CrawlResult{}
	}

	var (
		texts   []string
		sources []models.SourceSnippet
		visited = make(map[string]struct{})
		queue   = []queueItem{{url: startURL}}
	)

	for len(queue) > 0 && len(visited) < maxPages {
		item := queue[0]
		queue = queue[1:]
		if _, ok := visited[item.url]; ok {
			continue
		}
		visited[item.url] = struct{}{}

		page := c.pages.Scrape(ctx, item.url)
		if page.Text != "" {
			texts = append(texts, page.Text)
			sources = append(sources, models.SourceSnippet{URL: item.url, Snippet: snippet(page.Text, c.cfg.SnippetLength)})
		}

		for _, link := range page.Links {
			candidate, ok := c.sameOriginLink(origin, link)
			if !ok {
				continue
			}
			if !c.shallowRe.MatchString(candidate.Path) {
				continue
			}
			normalized := candidate.String()
			if _, ok := visited[normalized]; ok {
				continue
			}
			queue = append(queue, queueItem{url: normalized})
		}
	}

	return models.CrawlResult{
		CombinedText: strings.Join(texts, "\n\n"),
		Sources:      sources,
	}
}

// Deep crawls from startURL with sitemap seeding and per-link relevance
// scores. Links score by path; zero-scoring paths are dropped, and only the
// highest-scoring candidates still fitting the page budget are enqueued.
// Branches stop expanding at maxDepth.
func (c *Crawler) Deep(ctx context.Context, startURL string, maxPages, maxDepth int) models.CrawlResult {
	origin, err := url.Parse(startURL)
	if err != nil || origin.Host == "" {
		slog.Warn("deep crawl: unusable start URL", slog.String("url", startURL))
		return models.CrawlResult{}
	}

	var queue []queueItem
	for _, seed := range c.sitemapSeeds(ctx, origin) {
		queue = append(queue, queueItem{url: seed})
	}
	queue = append(queue, queueItem{url: startURL})

	var (
		texts   []string
		sources []models.SourceSnippet
		visited = make(map[string]struct{})
	)

	for len(queue) > 0 && len(visited) < maxPages {
		item := queue[0]
		queue = queue[1:]
		if _, ok := visited[item.url]; ok {
			continue
		}
		visited[item.url] = struct{}{}

		page := c.pages.Scrape(ctx, item.url)
		if page.Text != "" {
			texts = append(texts, page.Text)
			sources = append(sources, models.SourceSnippet{URL: item.url, Snippet: snippet(page.Text, c.cfg.SnippetLength)})
		}

		if item.depth >= maxDepth {
			continue
		}

		queued := make(map[string]struct{}, len(queue))
		for _, qi := range queue {
			queued[qi.url] = struct{}{}
		}

		type scored struct {
			url   string
			score int
		}
		var candidates []scored
		for _, link := range page.Links {
			candidate, ok := c.sameOriginLink(origin, link)
			if !ok {
				continue
			}
			normalized := candidate.String()
			if _, ok := visited[normalized]; ok {
				continue
			}
			if _, ok := queued[normalized]; ok {
				continue
			}
			score := c.scorePath(candidate.Path)
			if score == 0 {
				continue
			}
			queued[normalized] = struct{}{}
			candidates = append(candidates, scored{url: normalized, score: score})
		}

		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].score > candidates[j].score
		})

		remaining := maxPages - len(visited)
		if remaining > len(candidates) {
			remaining = len(candidates)
		}
		for _, cand := range candidates[:remaining] {
			queue = append(queue, queueItem{url: cand.url, depth: item.depth + 1})
		}
	}

	return models.CrawlResult{
		CombinedText: strings.Join(texts, "\n\n"),
		Sources:      sources,
	}
}

// sameOriginLink parses link and accepts it only when scheme and host match
// the origin. The fragment is already stripped by the extractor.
func (c *Crawler) sameOriginLink(origin *url.URL, link string) (*url.URL, bool) {
	candidate, err := url.Parse(link)
	if err != nil {
		return nil, false
	}
	if candidate.Scheme != origin.Scheme || candidate.Host != origin.Host {
		return nil, false
	}
	return candidate, true
}

// scorePath ranks a link path by configured keyword rules. The root path
// outranks everything; unmatched paths score zero and are dropped.
func (c *Crawler) scorePath(path string) int {
	p := strings.ToLower(path)
	if p == "" || p == "/" {
		return c.cfg.RootScore
	}
	for _, rule := range c.cfg.ScoreRules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(p, keyword) {
				return rule.Score
			}
		}
	}
	return 0
}

// snippet returns the first n runes of text for provenance records.
func snippet(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
