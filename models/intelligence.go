// Package models defines data structures shared across the intelligence
// pipeline.
package models

import "time"

// ExtractedPage is the normalized output of content extraction for one URL.
// Text is never nil-like: extraction failure yields an empty string.
type ExtractedPage struct {
	URL   string            `json:"url"`
	Title string            `json:"title,omitempty"`
	Text  string            `json:"text"`
	Meta  map[string]string `json:"meta,omitempty"`
	Links []string          `json:"links,omitempty"`
}

// SourceSnippet is a provenance record for one crawled page: the URL plus
// the opening characters of its extracted text.
type SourceSnippet struct {
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// CrawlResult bundles the concatenated text of a crawl with per-page
// provenance, in visitation order.
type CrawlResult struct {
	CombinedText string          `json:"combined_text"`
	Sources      []SourceSnippet `json:"sources"`
}

// PlatformProduct is one product extracted by a platform scraper.
type PlatformProduct struct {
	Name        string    `csv:"name" json:"name"`
	Price       float64   `csv:"price" json:"price"`
	Description string    `csv:"description" json:"description"`
	URL         string    `csv:"url" json:"url"`
	SKU         string    `csv:"sku" json:"sku,omitempty"`
	Categories  []string  `csv:"-" json:"categories,omitempty"`
	InStock     *bool     `csv:"-" json:"in_stock,omitempty"`
	ImageURL    string    `csv:"image_url" json:"image_url,omitempty"`
	ScrapedAt   time.Time `csv:"scraped_at" json:"scraped_at"`
}

// PlatformData is the structured result of a platform-specific scrape.
// Per-page failures leave partial data here rather than erroring out.
type PlatformData struct {
	Platform     string             `json:"platform"`
	StoreURL     string             `json:"store_url"`
	StoreName    string             `json:"store_name,omitempty"`
	Description  string             `json:"description,omitempty"`
	Products     []*PlatformProduct `json:"products"`
	Categories   []string           `json:"categories,omitempty"`
	AboutText    string             `json:"about_text,omitempty"`
	Policies     map[string]string  `json:"policies,omitempty"`
	Currency     string             `json:"currency,omitempty"`
	SocialLinks  []string           `json:"social_links,omitempty"`
	PagesVisited int                `json:"pages_visited"`
}

// CompanyProfile identifies the business being analyzed. Website and
// LinkedInURL are optional.
type CompanyProfile struct {
	Name        string `json:"name"`
	Website     string `json:"website,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty"`
	Industry    string `json:"industry,omitempty"`
}

// LinkedInData holds fields scraped from a company page. Every field is
// optional; external HTML owes us nothing.
type LinkedInData struct {
	Name          string   `json:"name,omitempty"`
	Tagline       string   `json:"tagline,omitempty"`
	Industry      string   `json:"industry,omitempty"`
	CompanySize   string   `json:"company_size,omitempty"`
	Headquarters  string   `json:"headquarters,omitempty"`
	Founded       string   `json:"founded,omitempty"`
	Specialties   []string `json:"specialties,omitempty"`
	FollowerCount string   `json:"follower_count,omitempty"`
}

// HiringSignal summarizes hiring velocity read off a company's jobs page.
type HiringSignal struct {
	OpenPositions int      `json:"open_positions"`
	Departments   []string `json:"departments,omitempty"`
	Velocity      string   `json:"velocity,omitempty"` // e.g. "aggressive", "steady", "quiet"
}

// GithubData summarizes a code-hosting organization's public activity.
type GithubData struct {
	Org              string   `json:"org"`
	PublicRepos      int      `json:"public_repos"`
	Followers        int      `json:"followers"`
	TotalStars       int      `json:"total_stars"`
	TopLanguages     []string `json:"top_languages,omitempty"`
	CommitsLastMonth int      `json:"commits_last_month"`
	HasTests         bool     `json:"has_tests"`
	HasCI            bool     `json:"has_ci"`
}

// ProductHuntLaunch is one launch record from the product community search.
type ProductHuntLaunch struct {
	Name       string `json:"name"`
	Tagline    string `json:"tagline,omitempty"`
	Upvotes    int    `json:"upvotes"`
	Comments   int    `json:"comments"`
	Featured   bool   `json:"featured"`
	URL        string `json:"url,omitempty"`
	LaunchedAt string `json:"launched_at,omitempty"`
}

// EnrichedIntelligence is the aggregation report handed to the downstream
// analyzer. It is created fresh per call and never persisted here.
type EnrichedIntelligence struct {
	WebsiteContent     string              `json:"website_content"`
	WebsiteSources     []SourceSnippet     `json:"website_sources"`
	LinkedIn           *LinkedInData       `json:"linkedin,omitempty"`
	HiringSignal       *HiringSignal       `json:"hiring_signal,omitempty"`
	Github             *GithubData         `json:"github,omitempty"`
	ProductHunt        []ProductHuntLaunch `json:"product_hunt,omitempty"`
	TotalDataPoints    int                 `json:"total_data_points"`
	ScrapingDurationMs int64               `json:"scraping_duration_ms"`
	DataSources        []string            `json:"data_sources"`
}
