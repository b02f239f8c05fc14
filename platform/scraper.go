package platform

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aluiziolira/go-webintel/config"
	"github.com/aluiziolira/go-webintel/extract"
	"github.com/aluiziolira/go-webintel/fetch"
	"github.com/aluiziolira/go-webintel/models"
	"github.com/gocolly/colly/v2"
)

// descriptor captures everything generator-specific: well-known paths in
// priority order, product/collection selectors, and which link paths mark
// in-catalog pages worth extending the crawl to.
type descriptor struct {
	paths              []string
	productSelector    string
	nameSelector       string
	priceSelector      string
	descSelector       string
	linkSelector       string
	collectionSelector string
	catalogHints       []string
}

var descriptors = map[Platform]descriptor{
	Shopify:     shopifyDescriptor,
	WooCommerce: wooDescriptor,
	Wix:         wixDescriptor,
}

var socialHosts = []string{
	"facebook.com", "instagram.com", "twitter.com", "x.com",
	"tiktok.com", "youtube.com", "linkedin.com", "pinterest.com",
}

// Scraper runs platform-specific catalog scrapes over colly.
type Scraper struct {
	cfg     *config.Config
	fetcher *fetch.Fetcher

	// transport overrides the collector's round tripper in tests.
	transport http.RoundTripper
}

// NewScraper builds a platform scraper sharing the fetcher for direct
// (non-HTML) catalog endpoints.
func NewScraper(cfg *config.Config, fetcher *fetch.Fetcher) *Scraper {
	return &Scraper{cfg: cfg, fetcher: fetcher}
}

// Scrape visits the platform's well-known paths plus discovered in-catalog
// links, up to maxPages, and returns whatever structured data it gathered.
// Per-page failures are logged and skipped, never fatal.
func (s *Scraper) Scrape(ctx context.Context, p Platform, startURL string, maxPages int, timeout time.Duration) *models.PlatformData {
	data := &models.PlatformData{
		Platform: string(p),
		StoreURL: startURL,
		Policies: make(map[string]string),
	}

	desc, ok := descriptors[p]
	if !ok {
		return data
	}
	origin, err := url.Parse(startURL)
	if err != nil || origin.Host == "" {
		slog.Warn("platform scrape: unusable start URL", slog.String("url", startURL))
		return data
	}

	if p == Shopify {
		s.seedShopifyCatalog(ctx, origin, data)
	}

	collector := s.newCollector(origin.Host, timeout)

	pending := make([]string, 0, len(desc.paths))
	for _, path := range desc.paths {
		pending = append(pending, origin.Scheme+"://"+origin.Host+path)
	}

	seenCategories := make(map[string]struct{})
	seenSocial := make(map[string]struct{})
	productURLs := make(map[string]struct{})
	for _, product := range data.Products {
		productURLs[product.URL] = struct{}{}
	}

	collector.OnHTML(desc.productSelector, func(e *colly.HTMLElement) {
		product := extractProduct(e, desc)
		if product == nil {
			return
		}
		if _, ok := productURLs[product.URL]; ok {
			return
		}
		productURLs[product.URL] = struct{}{}
		data.Products = append(data.Products, product)
		if data.Currency == "" {
			data.Currency = DetectCurrency(e.ChildText(desc.priceSelector))
		}
	})

	collector.OnHTML(desc.collectionSelector, func(e *colly.HTMLElement) {
		name := strings.TrimSpace(e.Text)
		if name == "" {
			return
		}
		if _, ok := seenCategories[name]; ok {
			return
		}
		seenCategories[name] = struct{}{}
		data.Categories = append(data.Categories, name)
	})

	collector.OnHTML("a[href]", func(e *colly.HTMLElement) {
		href := e.Request.AbsoluteURL(e.Attr("href"))
		if href == "" {
			return
		}
		link, err := url.Parse(href)
		if err != nil {
			return
		}
		if isSocialLink(link.Host) {
			key := link.Host + link.Path
			if _, ok := seenSocial[key]; !ok {
				seenSocial[key] = struct{}{}
				data.SocialLinks = append(data.SocialLinks, href)
			}
			return
		}
		if link.Host != origin.Host {
			return
		}
		for _, hint := range desc.catalogHints {
			if strings.Contains(link.Path, hint) {
				pending = append(pending, href)
				break
			}
		}
	})

	collector.OnHTML("head", func(e *colly.HTMLElement) {
		if data.StoreName == "" {
			data.StoreName = strings.TrimSpace(e.ChildText("title"))
		}
		if data.Description == "" {
			data.Description = strings.TrimSpace(e.ChildAttr(`meta[name="description"]`, "content"))
		}
	})

	collector.OnHTML("body", func(e *colly.HTMLElement) {
		path := strings.ToLower(e.Request.URL.Path)
		sel := e.DOM.Clone()
		sel.Find("script, style, nav, footer, form, header").Remove()
		text := extract.NormalizeWhitespace(sel.Text())
		switch {
		case policyKey(path) != "":
			data.Policies[policyKey(path)] = truncateText(text, 500)
		case strings.Contains(path, "about"):
			if data.AboutText == "" {
				data.AboutText = truncateText(text, 1500)
			}
		}
	})

	collector.OnResponse(func(r *colly.Response) {
		data.PagesVisited++
	})

	visitedURLs := make(map[string]struct{})
	attempts := 0
	for len(pending) > 0 && attempts < maxPages && ctx.Err() == nil {
		next := pending[0]
		pending = pending[1:]
		if _, ok := visitedURLs[next]; ok {
			continue
		}
		visitedURLs[next] = struct{}{}
		attempts++
		if err := collector.Visit(next); err != nil {
			slog.Debug("platform page skipped",
				slog.String("platform", string(p)),
				slog.String("url", next),
				slog.Any("error", err),
			)
		}
	}

	return data
}

func (s *Scraper) newCollector(host string, timeout time.Duration) *colly.Collector {
	collector := colly.NewCollector(
		colly.AllowedDomains(host),
		colly.UserAgent(s.cfg.UserAgent),
	)
	collector.SetRequestTimeout(timeout)
	collector.IgnoreRobotsTxt = true
	if s.transport != nil {
		collector.WithTransport(s.transport)
	} else {
		collector.WithTransport(&http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		})
	}
	return collector
}

func extractProduct(e *colly.HTMLElement, desc descriptor) *models.PlatformProduct {
	name := strings.TrimSpace(e.ChildText(desc.nameSelector))
	if name == "" {
		return nil
	}

	href := e.ChildAttr(desc.linkSelector, "href")
	productURL := e.Request.URL.String()
	if href != "" {
		productURL = e.Request.AbsoluteURL(href)
	}

	price, _ := ParsePrice(e.ChildText(desc.priceSelector))
	product := &models.PlatformProduct{
		Name:        name,
		Price:       price,
		Description: truncateText(strings.TrimSpace(e.ChildText(desc.descSelector)), 300),
		URL:         productURL,
		ImageURL:    e.Request.AbsoluteURL(e.ChildAttr("img", "src")),
		ScrapedAt:   time.Now(),
	}
	if err := ValidateProduct(product); err != nil {
		return nil
	}
	return product
}

func isSocialLink(host string) bool {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	for _, social := range socialHosts {
		if host == social {
			return true
		}
	}
	return false
}

func policyKey(path string) string {
	switch {
	case strings.Contains(path, "shipping"):
		return "shipping"
	case strings.Contains(path, "refund"), strings.Contains(path, "return"):
		return "returns"
	case strings.Contains(path, "privacy"):
		return "privacy"
	}
	return ""
}
