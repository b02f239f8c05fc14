package enrich

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/aluiziolira/go-webintel/cache"
	"github.com/aluiziolira/go-webintel/config"
	"github.com/aluiziolira/go-webintel/fetch"
	"github.com/aluiziolira/go-webintel/models"
	"github.com/jarcoal/httpmock"
)

const homeFixture = `<html><head><title>Acme Co</title></head><body>
	<p>Acme builds enrichment tooling for small businesses across Europe.</p>
	<a href="https://github.com/acme-co">GitHub</a>
</body></html>`

const linkedinFixture = `<html><head>
	<meta property="og:description" content="We make example things">
</head><body>
	<h1>Acme Co</h1>
	<p>1,234 followers</p>
	<dl>
		<dt>Industry</dt><dd>Software Development</dd>
		<dt>Company size</dt><dd>11-50 employees</dd>
		<dt>Headquarters</dt><dd>Lisbon</dd>
		<dt>Founded</dt><dd>2019</dd>
		<dt>Specialties</dt><dd>crawling, enrichment</dd>
	</dl>
</body></html>`

const jobsFixture = `<html><body>
	<h2>12 open positions</h2>
	<ul>
		<li class="job-card"><div class="job-card__subtitle">Engineering</div></li>
		<li class="job-card"><div class="job-card__subtitle">Sales</div></li>
	</ul>
</body></html>`

const productHuntFixture = `<html><body>
	<div data-test="post-item-1">
		<a href="/posts/acme"><strong>Acme Co</strong></a>
		<p>Enrichment tooling for SMBs</p>
		<button>123</button>
	</div>
</body></html>`

func newTestGatherer(t *testing.T, pages map[string]string, api map[string]string) *Gatherer {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.MaxRetries = 1
	cfg.RetryBackoff = 0
	cfg.GithubToken = ""
	cfg.ProductHuntToken = ""

	pageTransport := httpmock.NewMockTransport()
	for pageURL, body := range pages {
		pageTransport.RegisterResponder("GET", pageURL, httpmock.NewStringResponder(200, body))
	}
	fetcher := fetch.NewFetcher(cfg)
	fetcher.WithTransport(pageTransport)

	apiTransport := httpmock.NewMockTransport()
	for apiURL, body := range api {
		apiTransport.RegisterResponder("GET", apiURL, httpmock.NewStringResponder(200, body))
	}

	g := NewGatherer(cfg, fetcher, cache.NewPages(fetcher, cfg))
	g.WithHTTPClient(&http.Client{Transport: apiTransport})
	return g
}

func TestGatherGracefulDegradation(t *testing.T) {
	g := newTestGatherer(t, nil, nil)

	profile := models.CompanyProfile{
		Name:        "Ghost Co",
		Website:     "https://ghost.test/",
		LinkedInURL: "https://www.linkedin.com/company/ghost-co",
	}
	intel := g.Gather(context.Background(), profile)

	if intel == nil {
		t.Fatalf("gather returned nil")
	}
	if intel.TotalDataPoints != 0 {
		t.Fatalf("data points = %d, want 0 with every source down", intel.TotalDataPoints)
	}
	if len(intel.DataSources) != 0 {
		t.Fatalf("data sources = %v, want empty", intel.DataSources)
	}
	if intel.WebsiteContent != "" {
		t.Fatalf("website content = %q, want empty", intel.WebsiteContent)
	}
	if intel.ScrapingDurationMs < 0 {
		t.Fatalf("negative duration")
	}
}

func TestGatherWebsiteOnly(t *testing.T) {
	g := newTestGatherer(t, map[string]string{
		"https://acme.test/": homeFixture,
	}, nil)

	intel := g.Gather(context.Background(), models.CompanyProfile{
		Name:    "Acme Co",
		Website: "https://acme.test/",
	})

	if len(intel.DataSources) != 1 || intel.DataSources[0] != "website" {
		t.Fatalf("data sources = %v, want [website]", intel.DataSources)
	}
	if intel.TotalDataPoints != 1 {
		t.Fatalf("data points = %d, want 1", intel.TotalDataPoints)
	}
	if !strings.Contains(intel.WebsiteContent, "enrichment tooling") {
		t.Fatalf("website content missing: %q", intel.WebsiteContent)
	}
	if len(intel.WebsiteSources) == 0 {
		t.Fatalf("website sources empty")
	}
}

func TestGatherAllSources(t *testing.T) {
	pages := map[string]string{
		"https://acme.test/":                            homeFixture,
		"https://www.linkedin.com/company/acme-co":      linkedinFixture,
		"https://www.linkedin.com/company/acme-co/jobs": jobsFixture,
		"https://www.producthunt.com/search?q=Acme+Co":  productHuntFixture,
	}
	api := map[string]string{
		"https://api.github.com/orgs/acme-co": `{"login":"acme-co","public_repos":3,"followers":10}`,
		"https://api.github.com/orgs/acme-co/repos?per_page=100&sort=pushed": `[
			{"name":"webintel","stargazers_count":42,"language":"Go","pushed_at":"2026-08-01T00:00:00Z"},
			{"name":"site","stargazers_count":1,"language":"TypeScript","pushed_at":"2026-07-01T00:00:00Z"}
		]`,
		"https://api.github.com/repos/acme-co/webintel/stats/commit_activity": `[{"total":5},{"total":3}]`,
		"https://api.github.com/repos/acme-co/webintel/contents":              `[{"name":".github","type":"dir"},{"name":"fetch_test.go","type":"file"}]`,
	}

	g := newTestGatherer(t, pages, api)

	profile := models.CompanyProfile{
		Name:        "Acme Co",
		Website:     "https://acme.test/",
		LinkedInURL: "https://www.linkedin.com/company/acme-co",
	}
	intel := g.Gather(context.Background(), profile)

	want := map[string]bool{"website": true, "linkedin": true, "github": true, "producthunt": true}
	if len(intel.DataSources) != len(want) {
		t.Fatalf("data sources = %v, want all four", intel.DataSources)
	}
	for _, source := range intel.DataSources {
		if !want[source] {
			t.Fatalf("unexpected source %q", source)
		}
	}
	if intel.TotalDataPoints != 4 {
		t.Fatalf("data points = %d, want 4", intel.TotalDataPoints)
	}

	if intel.LinkedIn == nil || intel.LinkedIn.Name != "Acme Co" {
		t.Fatalf("linkedin data = %+v", intel.LinkedIn)
	}
	if intel.LinkedIn.Industry != "Software Development" {
		t.Fatalf("linkedin industry = %q", intel.LinkedIn.Industry)
	}
	if intel.LinkedIn.FollowerCount != "1,234" {
		t.Fatalf("follower count = %q", intel.LinkedIn.FollowerCount)
	}
	if len(intel.LinkedIn.Specialties) != 2 {
		t.Fatalf("specialties = %v", intel.LinkedIn.Specialties)
	}

	if intel.HiringSignal == nil || intel.HiringSignal.OpenPositions != 12 {
		t.Fatalf("hiring signal = %+v", intel.HiringSignal)
	}
	if intel.HiringSignal.Velocity != "steady" {
		t.Fatalf("velocity = %q, want steady", intel.HiringSignal.Velocity)
	}

	if intel.Github == nil || intel.Github.Org != "acme-co" {
		t.Fatalf("github data = %+v", intel.Github)
	}
	if intel.Github.TotalStars != 43 {
		t.Fatalf("total stars = %d, want 43", intel.Github.TotalStars)
	}
	if intel.Github.CommitsLastMonth != 8 {
		t.Fatalf("commits last month = %d, want 8", intel.Github.CommitsLastMonth)
	}
	if !intel.Github.HasCI || !intel.Github.HasTests {
		t.Fatalf("tests/ci flags lost: %+v", intel.Github)
	}
	if len(intel.Github.TopLanguages) == 0 || intel.Github.TopLanguages[0] != "Go" {
		t.Fatalf("top languages = %v", intel.Github.TopLanguages)
	}

	if len(intel.ProductHunt) != 1 {
		t.Fatalf("product hunt launches = %+v", intel.ProductHunt)
	}
	launch := intel.ProductHunt[0]
	if launch.Name != "Acme Co" || launch.Upvotes != 123 || !launch.Featured {
		t.Fatalf("launch = %+v", launch)
	}
	if launch.URL != "https://www.producthunt.com/posts/acme" {
		t.Fatalf("launch url = %q", launch.URL)
	}
}

func TestResolveGithubOrg(t *testing.T) {
	g := newTestGatherer(t, nil, map[string]string{
		"https://api.github.com/orgs/acmeco": `{"login":"acmeco","public_repos":1,"followers":0}`,
	})

	org, ok := g.resolveGithubOrg(context.Background(), []string{"https://github.com/Direct-Org/repo"}, "Acme Co")
	if !ok || org != "Direct-Org" {
		t.Fatalf("link resolution = %q, %v", org, ok)
	}

	org, ok = g.resolveGithubOrg(context.Background(), nil, "Acme Co")
	if !ok || org != "acmeco" {
		t.Fatalf("probe resolution = %q, %v", org, ok)
	}

	if _, ok := g.resolveGithubOrg(context.Background(), nil, "No Such Company Anywhere"); ok {
		t.Fatalf("resolution succeeded for unknown company")
	}
}

func TestSummaryOmitsAbsentBlocks(t *testing.T) {
	g := newTestGatherer(t, nil, nil)

	intel := &models.EnrichedIntelligence{
		WebsiteContent:  "Some site copy.",
		WebsiteSources:  []models.SourceSnippet{{URL: "https://acme.test/", Snippet: "Some site copy."}},
		DataSources:     []string{"website"},
		TotalDataPoints: 1,
	}
	profile := models.CompanyProfile{Name: "Acme Co", Website: "https://acme.test/"}

	summary := g.Summary(intel, profile)
	if !strings.Contains(summary, "Company: Acme Co") {
		t.Fatalf("summary missing header:\n%s", summary)
	}
	if !strings.Contains(summary, "--- Website ---") {
		t.Fatalf("summary missing website block:\n%s", summary)
	}
	for _, absent := range []string{"--- LinkedIn ---", "--- GitHub ---", "--- Hiring ---", "--- Product Hunt ---"} {
		if strings.Contains(summary, absent) {
			t.Fatalf("summary contains %q for absent source:\n%s", absent, summary)
		}
	}
	if g.Summary(nil, profile) != "" {
		t.Fatalf("nil report should render empty")
	}
}

func TestSummaryTruncatesWebsiteContent(t *testing.T) {
	g := newTestGatherer(t, nil, nil)

	intel := &models.EnrichedIntelligence{
		WebsiteContent: strings.Repeat("a", 5000),
		DataSources:    []string{"website"},
	}
	summary := g.Summary(intel, models.CompanyProfile{Name: "Acme Co"})
	if strings.Contains(summary, strings.Repeat("a", 3001)) {
		t.Fatalf("website content not truncated")
	}
	if !strings.Contains(summary, strings.Repeat("a", 3000)) {
		t.Fatalf("truncated content missing")
	}
}
