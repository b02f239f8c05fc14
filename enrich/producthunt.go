package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-webintel/models"
)

const productHuntGraphQL = "https://api.producthunt.com/v2/api/graphql"

const launchLimit = 5

// searchProductHunt looks up launches by company name. With a token the
// official GraphQL API answers; without one we fall back to parsing the
// public search page.
func (g *Gatherer) searchProductHunt(ctx context.Context, companyName string) ([]models.ProductHuntLaunch, error) {
	if g.cfg.ProductHuntToken != "" {
		launches, err := g.searchProductHuntAPI(ctx, companyName)
		if err == nil {
			return launches, nil
		}
		// API trouble should not cost us the source entirely.
	}
	return g.searchProductHuntWeb(ctx, companyName)
}

type productHuntResponse struct {
	Data struct {
		Posts struct {
			Edges []struct {
				Node struct {
					Name          string `json:"name"`
					Tagline       string `json:"tagline"`
					VotesCount    int    `json:"votesCount"`
					CommentsCount int    `json:"commentsCount"`
					FeaturedAt    string `json:"featuredAt"`
					URL           string `json:"url"`
					CreatedAt     string `json:"createdAt"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"posts"`
	} `json:"data"`
}

func (g *Gatherer) searchProductHuntAPI(ctx context.Context, companyName string) ([]models.ProductHuntLaunch, error) {
	// The v2 API has no server-side text search on posts, so pull a recent
	// window ordered by votes and match the company name locally.
	query := map[string]string{
		"query": `{ posts(first: 50, order: VOTES) {
			edges { node { name tagline votesCount commentsCount featuredAt url createdAt } } } }`,
	}
	payload, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, g.cfg.LookupTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, productHuntGraphQL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", g.cfg.UserAgent)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.cfg.ProductHuntToken)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http status %d from product hunt api", resp.StatusCode)
	}

	var decoded productHuntResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}

	needle := strings.ToLower(companyName)
	var launches []models.ProductHuntLaunch
	for _, edge := range decoded.Data.Posts.Edges {
		node := edge.Node
		if node.Name == "" {
			continue
		}
		if !strings.Contains(strings.ToLower(node.Name), needle) &&
			!strings.Contains(strings.ToLower(node.Tagline), needle) {
			continue
		}
		if len(launches) >= launchLimit {
			break
		}
		launches = append(launches, models.ProductHuntLaunch{
			Name:       node.Name,
			Tagline:    node.Tagline,
			Upvotes:    node.VotesCount,
			Comments:   node.CommentsCount,
			Featured:   node.FeaturedAt != "",
			URL:        node.URL,
			LaunchedAt: node.CreatedAt,
		})
	}
	if len(launches) == 0 {
		return nil, fmt.Errorf("no launches found for %q", companyName)
	}
	return launches, nil
}

func (g *Gatherer) searchProductHuntWeb(ctx context.Context, companyName string) ([]models.ProductHuntLaunch, error) {
	searchURL := "https://www.producthunt.com/search?q=" + url.QueryEscape(companyName)
	raw := g.fetcher.FetchWithTimeout(ctx, searchURL, g.cfg.LookupTimeout)
	if raw == "" {
		return nil, fmt.Errorf("search page unreachable for %q", companyName)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}

	var launches []models.ProductHuntLaunch
	doc.Find(`[data-test^="post-item"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name := strings.TrimSpace(s.Find(`[data-test="post-name"], strong, h3`).First().Text())
		if name == "" {
			return true
		}
		launch := models.ProductHuntLaunch{
			Name:    name,
			Tagline: strings.TrimSpace(s.Find(`[data-test="post-tagline"], p`).First().Text()),
		}
		votesText := strings.TrimSpace(s.Find(`[data-test="vote-button"], button`).First().Text())
		if votes, err := strconv.Atoi(strings.ReplaceAll(votesText, ",", "")); err == nil {
			launch.Upvotes = votes
			launch.Featured = votes > 100
		}
		if href, ok := s.Find("a").First().Attr("href"); ok {
			if resolved, err := url.Parse(href); err == nil {
				launch.URL = (&url.URL{Scheme: "https", Host: "www.producthunt.com"}).ResolveReference(resolved).String()
			}
		}
		launches = append(launches, launch)
		return len(launches) < launchLimit
	})

	if len(launches) == 0 {
		return nil, fmt.Errorf("no launches found for %q", companyName)
	}
	return launches, nil
}
