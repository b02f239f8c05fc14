package enrich

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-webintel/extract"
	"github.com/aluiziolira/go-webintel/models"
)

var followerPattern = regexp.MustCompile(`([\d,.]+)\s+followers`)
var openingsPattern = regexp.MustCompile(`([\d,]+)\s+(?:open\s+)?(?:job|position|opening)`)

// scrapeLinkedIn reads a public company page. Every field is best-effort;
// the page layout owes us nothing, so absent selectors just leave fields
// empty. An unreachable page is the only hard failure.
func (g *Gatherer) scrapeLinkedIn(ctx context.Context, profileURL string) (*models.LinkedInData, error) {
	raw := g.fetcher.FetchWithTimeout(ctx, profileURL, g.cfg.LookupTimeout)
	if raw == "" {
		return nil, fmt.Errorf("company page unreachable: %s", profileURL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse company page: %w", err)
	}

	data := &models.LinkedInData{
		Name:    strings.TrimSpace(doc.Find("h1").First().Text()),
		Tagline: strings.TrimSpace(doc.Find("h4.top-card-layout__second-subline, .org-top-card-summary__tagline").First().Text()),
	}
	if data.Tagline == "" {
		data.Tagline, _ = doc.Find(`meta[property="og:description"]`).Attr("content")
		data.Tagline = strings.TrimSpace(data.Tagline)
	}

	// Public pages render company facts as dt/dd definition pairs.
	doc.Find("dl dt").Each(func(_ int, dt *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(dt.Text()))
		value := strings.TrimSpace(dt.NextFiltered("dd").Text())
		if value == "" {
			return
		}
		switch {
		case strings.Contains(label, "industry"):
			data.Industry = value
		case strings.Contains(label, "company size"), strings.Contains(label, "size"):
			data.CompanySize = value
		case strings.Contains(label, "headquarters"):
			data.Headquarters = value
		case strings.Contains(label, "founded"):
			data.Founded = value
		case strings.Contains(label, "specialties"):
			for _, part := range strings.Split(value, ",") {
				if trimmed := strings.TrimSpace(part); trimmed != "" {
					data.Specialties = append(data.Specialties, trimmed)
				}
			}
		}
	})

	if match := followerPattern.FindStringSubmatch(raw); len(match) == 2 {
		data.FollowerCount = match[1]
	}

	if data.Name == "" && data.Tagline == "" && data.Industry == "" {
		return nil, fmt.Errorf("company page yielded no fields: %s", profileURL)
	}
	return data, nil
}

// scrapeHiringSignal inspects the profile's jobs listing for hiring
// velocity. Counts are approximate and that is fine for a signal.
func (g *Gatherer) scrapeHiringSignal(ctx context.Context, profileURL string) (*models.HiringSignal, error) {
	jobsURL := strings.TrimRight(profileURL, "/") + "/jobs"
	raw := g.fetcher.FetchWithTimeout(ctx, jobsURL, g.cfg.LookupTimeout)
	if raw == "" {
		return nil, fmt.Errorf("jobs page unreachable: %s", jobsURL)
	}

	openings := 0
	if match := openingsPattern.FindStringSubmatch(raw); len(match) == 2 {
		if parsed, err := strconv.Atoi(strings.ReplaceAll(match[1], ",", "")); err == nil {
			openings = parsed
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse jobs page: %w", err)
	}
	cards := doc.Find("li.job-card, .job-search-card, [data-entity-urn*=jobPosting]")
	if count := cards.Length(); count > openings {
		openings = count
	}
	if openings == 0 {
		return nil, fmt.Errorf("no job postings found at %s", jobsURL)
	}

	departments := make([]string, 0, 4)
	seen := make(map[string]struct{})
	cards.Find(".job-card__subtitle, .base-search-card__subtitle").Each(func(_ int, s *goquery.Selection) {
		name := extract.NormalizeWhitespace(s.Text())
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		departments = append(departments, name)
	})

	return &models.HiringSignal{
		OpenPositions: openings,
		Departments:   departments,
		Velocity:      hiringVelocity(openings),
	}, nil
}

func hiringVelocity(openings int) string {
	switch {
	case openings >= 20:
		return "aggressive"
	case openings >= 5:
		return "steady"
	default:
		return "quiet"
	}
}
