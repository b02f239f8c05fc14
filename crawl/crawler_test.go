package crawl

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/aluiziolira/go-webintel/cache"
	"github.com/aluiziolira/go-webintel/config"
	"github.com/aluiziolira/go-webintel/fetch"
	"github.com/jarcoal/httpmock"
)

func newTestCrawler(t *testing.T, site map[string]string) *Crawler {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.MaxRetries = 1
	cfg.RetryBackoff = 0

	transport := httpmock.NewMockTransport()
	for pageURL, body := range site {
		transport.RegisterResponder("GET", pageURL, httpmock.NewStringResponder(200, body))
	}

	fetcher := fetch.NewFetcher(cfg)
	fetcher.WithTransport(transport)
	return New(cfg, fetcher, cache.NewPages(fetcher, cfg))
}

func htmlPage(title, copy string, links ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<html><head><title>%s</title></head><body><p>%s</p><ul>", title, copy)
	for _, link := range links {
		fmt.Fprintf(&b, `<li><a href="%s">%s</a></li>`, link, link)
	}
	b.WriteString("</ul></body></html>")
	return b.String()
}

func TestShallowFollowsOnlyRelevantSameOriginLinks(t *testing.T) {
	c := newTestCrawler(t, map[string]string{
		"https://example.test/":        htmlPage("Home", "Welcome to Example.", "/about", "/pricing", "/legal/terms", "/login", "https://other.test/x"),
		"https://example.test/about":   htmlPage("About", "We build example things.", "/", "/pricing"),
		"https://example.test/pricing": htmlPage("Pricing", "Plans start at ten dollars."),
	})

	result := c.Shallow(context.Background(), "https://example.test/", 5)

	want := []string{
		"https://example.test/",
		"https://example.test/about",
		"https://example.test/pricing",
	}
	if len(result.Sources) != len(want) {
		t.Fatalf("visited %d pages, want %d: %+v", len(result.Sources), len(want), result.Sources)
	}
	for i, source := range result.Sources {
		if source.URL != want[i] {
			t.Fatalf("sources[%d] = %q, want %q", i, source.URL, want[i])
		}
		if source.Snippet == "" {
			t.Fatalf("sources[%d] has an empty snippet", i)
		}
	}
	if !strings.Contains(result.CombinedText, "Plans start at ten dollars.") {
		t.Fatalf("combined text missing pricing copy")
	}
}

func TestShallowRespectsPageBudget(t *testing.T) {
	c := newTestCrawler(t, map[string]string{
		"https://example.test/":        htmlPage("Home", "Welcome.", "/about", "/pricing", "/blog"),
		"https://example.test/about":   htmlPage("About", "About copy."),
		"https://example.test/pricing": htmlPage("Pricing", "Pricing copy."),
		"https://example.test/blog":    htmlPage("Blog", "Blog copy."),
	})

	result := c.Shallow(context.Background(), "https://example.test/", 2)
	if len(result.Sources) > 2 {
		t.Fatalf("visited %d pages, budget was 2", len(result.Sources))
	}
}

func TestShallowNeverRepeatsAURL(t *testing.T) {
	c := newTestCrawler(t, map[string]string{
		"https://example.test/":        htmlPage("Home", "Welcome.", "/about"),
		"https://example.test/about":   htmlPage("About", "About copy.", "/", "/about", "/pricing"),
		"https://example.test/pricing": htmlPage("Pricing", "Pricing copy.", "/about"),
	})

	result := c.Shallow(context.Background(), "https://example.test/", 10)

	seen := make(map[string]int)
	for _, source := range result.Sources {
		seen[source.URL]++
	}
	for sourceURL, count := range seen {
		if count > 1 {
			t.Fatalf("%s appears %d times in sources", sourceURL, count)
		}
	}
}

func TestDeepEnqueuesHigherScoresFirst(t *testing.T) {
	c := newTestCrawler(t, map[string]string{
		"https://example.test/":        htmlPage("Home", "Welcome.", "/contact", "/pricing", "/product"),
		"https://example.test/contact": htmlPage("Contact", "Contact copy."),
		"https://example.test/pricing": htmlPage("Pricing", "Pricing copy."),
		"https://example.test/product": htmlPage("Product", "Product copy."),
	})

	result := c.Deep(context.Background(), "https://example.test/", 3, 1)

	want := []string{
		"https://example.test/",
		"https://example.test/product",
		"https://example.test/pricing",
	}
	if len(result.Sources) != len(want) {
		t.Fatalf("visited %d pages, want %d: %+v", len(result.Sources), len(want), result.Sources)
	}
	for i, source := range result.Sources {
		if source.URL != want[i] {
			t.Fatalf("sources[%d] = %q, want %q", i, source.URL, want[i])
		}
	}
}

func TestDeepStopsExpandingAtMaxDepth(t *testing.T) {
	c := newTestCrawler(t, map[string]string{
		"https://example.test/":        htmlPage("Home", "Welcome.", "/product"),
		"https://example.test/product": htmlPage("Product", "Product copy.", "/pricing"),
		"https://example.test/pricing": htmlPage("Pricing", "Pricing copy."),
	})

	result := c.Deep(context.Background(), "https://example.test/", 10, 0)

	if len(result.Sources) != 1 || result.Sources[0].URL != "https://example.test/" {
		t.Fatalf("depth 0 should visit only the start URL, got %+v", result.Sources)
	}
}

func TestDeepSitemapSeedsRankAheadOfDiscoveredLinks(t *testing.T) {
	sitemap := `<?xml version="1.0" encoding="UTF-8"?>
	<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
		<url><loc>https://example-shop.test/pricing</loc></url>
		<url><loc>https://example-shop.test/about</loc></url>
		<url><loc>https://other.test/ignored</loc></url>
	</urlset>`

	c := newTestCrawler(t, map[string]string{
		"https://example-shop.test/sitemap.xml": sitemap,
		"https://example-shop.test/":            htmlPage("Home", "Welcome to the shop.", "/contact"),
		"https://example-shop.test/pricing":     htmlPage("Pricing", "Pricing copy."),
		"https://example-shop.test/about":       htmlPage("About", "About copy."),
		"https://example-shop.test/contact":     htmlPage("Contact", "Contact copy."),
	})

	result := c.Deep(context.Background(), "https://example-shop.test/", 5, 1)

	if len(result.Sources) > 5 {
		t.Fatalf("visited %d pages, budget was 5", len(result.Sources))
	}
	index := make(map[string]int)
	for i, source := range result.Sources {
		index[source.URL] = i
	}
	pricing, ok := index["https://example-shop.test/pricing"]
	if !ok {
		t.Fatalf("pricing page missing from sources: %+v", result.Sources)
	}
	about, ok := index["https://example-shop.test/about"]
	if !ok {
		t.Fatalf("about page missing from sources: %+v", result.Sources)
	}
	contact, ok := index["https://example-shop.test/contact"]
	if !ok {
		t.Fatalf("contact page missing from sources: %+v", result.Sources)
	}
	if pricing > contact || about > contact {
		t.Fatalf("sitemap-seeded pages should precede the link-discovered contact page: %+v", result.Sources)
	}
	if _, ok := index["https://other.test/ignored"]; ok {
		t.Fatalf("cross-origin sitemap entry was crawled")
	}
}

func TestScorePath(t *testing.T) {
	c := newTestCrawler(t, nil)

	tests := []struct {
		path string
		want int
	}{
		{path: "/", want: 8},
		{path: "", want: 8},
		{path: "/product/widget", want: 7},
		{path: "/solutions", want: 7},
		{path: "/case-studies/acme", want: 7},
		{path: "/pricing", want: 6},
		{path: "/about-us", want: 5},
		{path: "/blog/post-1", want: 3},
		{path: "/careers", want: 1},
		{path: "/xyzzy", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := c.scorePath(tt.path); got != tt.want {
				t.Fatalf("scorePath(%q) = %d, want %d", tt.path, got, tt.want)
			}
		})
	}
}

func TestParseSitemapIndex(t *testing.T) {
	index := `<?xml version="1.0" encoding="UTF-8"?>
	<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
		<sitemap><loc>https://example.test/sitemap-pages.xml</loc></sitemap>
		<sitemap><loc>https://example.test/sitemap-posts.xml</loc></sitemap>
	</sitemapindex>`

	urls, children := parseSitemap(index)
	if len(urls) != 0 {
		t.Fatalf("index should yield no direct urls, got %v", urls)
	}
	if len(children) != 2 {
		t.Fatalf("children = %v, want 2 entries", children)
	}
}
