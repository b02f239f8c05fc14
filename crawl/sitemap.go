package crawl

import (
	"context"
	"encoding/xml"
	"log/slog"
	"net/url"
	"strings"
)

// childSitemapLimit bounds how many nested sitemaps of an index we follow.
const childSitemapLimit = 3

type sitemapURLSet struct {
	URLs []sitemapLoc `xml:"url"`
}

type sitemapIndex struct {
	Sitemaps []sitemapLoc `xml:"sitemap"`
}

type sitemapLoc struct {
	Loc string `xml:"loc"`
}

// sitemapSeeds fetches /sitemap.xml and returns up to SitemapSeedLimit
// same-origin URLs. A sitemap index is followed one level down. Any failure
// yields an empty seed list; the start URL still anchors the crawl.
func (c *Crawler) sitemapSeeds(ctx context.Context, origin *url.URL) []string {
	sitemapURL := origin.Scheme + "://" + origin.Host + "/sitemap.xml"
	raw := c.fetcher.FetchWithTimeout(ctx, sitemapURL, c.cfg.LookupTimeout)
	if raw == "" {
		return nil
	}

	urls, children := parseSitemap(raw)
	for i, child := range children {
		if i >= childSitemapLimit || len(urls) >= c.cfg.SitemapSeedLimit {
			break
		}
		childRaw := c.fetcher.FetchWithTimeout(ctx, child, c.cfg.LookupTimeout)
		if childRaw == "" {
			continue
		}
		childURLs, _ := parseSitemap(childRaw)
		urls = append(urls, childURLs...)
	}

	var seeds []string
	for _, raw := range urls {
		if len(seeds) >= c.cfg.SitemapSeedLimit {
			break
		}
		candidate, ok := c.sameOriginLink(origin, strings.TrimSpace(raw))
		if !ok {
			continue
		}
		seeds = append(seeds, candidate.String())
	}
	if len(seeds) > 0 {
		slog.Debug("sitemap seeding", slog.String("sitemap", sitemapURL), slog.Int("seeds", len(seeds)))
	}
	return seeds
}

// parseSitemap reads either a urlset or a sitemap index document.
func parseSitemap(raw string) (urls []string, children []string) {
	var set sitemapURLSet
	if err := xml.Unmarshal([]byte(raw), &set); err == nil && len(set.URLs) > 0 {
		for _, entry := range set.URLs {
			if loc := strings.TrimSpace(entry.Loc); loc != "" {
				urls = append(urls, loc)
			}
		}
		return urls, nil
	}

	var index sitemapIndex
	if err := xml.Unmarshal([]byte(raw), &index); err == nil {
		for _, entry := range index.Sitemaps {
			if loc := strings.TrimSpace(entry.Loc); loc != "" {
				children = append(children, loc)
			}
		}
	}
	return nil, children
}
