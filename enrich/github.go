package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/aluiziolira/go-webintel/models"
)

const githubAPIBase = "https://api.github.com"

var orgNameCleaner = regexp.MustCompile(`[^a-z0-9-]`)

type githubOrg struct {
	Login       string `json:"login"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
}

type githubRepo struct {
	Name     string    `json:"name"`
	Stars    int       `json:"stargazers_count"`
	Language string    `json:"language"`
	PushedAt time.Time `json:"pushed_at"`
}

type githubContent struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type githubWeek struct {
	Total int `json:"total"`
}

// resolveGithubOrg finds the company's organization: first by scanning the
// homepage's outbound links for a github.com URL, then by probing a finite
// list of guessed name variants, in order, stopping at the first hit.
func (g *Gatherer) resolveGithubOrg(ctx context.Context, homepageLinks []string, companyName string) (string, bool) {
	for _, link := range homepageLinks {
		if org, ok := githubLinkOrg(link); ok {
			return org, true
		}
	}

	lowered := strings.ToLower(strings.TrimSpace(companyName))
	if lowered == "" {
		return "", false
	}
	candidates := []string{
		strings.ReplaceAll(lowered, " ", ""),
		strings.ReplaceAll(lowered, " ", "-"),
		orgNameCleaner.ReplaceAllString(strings.ReplaceAll(lowered, " ", "-"), ""),
	}

	tried := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if _, ok := tried[candidate]; ok {
			continue
		}
		tried[candidate] = struct{}{}

		var org githubOrg
		if err := g.getJSON(ctx, githubAPIBase+"/orgs/"+candidate, g.cfg.GithubToken, &org); err == nil && org.Login != "" {
			return org.Login, true
		}
	}
	return "", false
}

// analyzeGithubOrg builds activity metrics from the public API. Optional
// credentials raise the quota; without them the same endpoints answer
// unauthenticated.
func (g *Gatherer) analyzeGithubOrg(ctx context.Context, orgName string) (*models.GithubData, error) {
	var org githubOrg
	if err := g.getJSON(ctx, githubAPIBase+"/orgs/"+orgName, g.cfg.GithubToken, &org); err != nil {
		return nil, fmt.Errorf("org lookup: %w", err)
	}

	data := &models.GithubData{
		Org:         org.Login,
		PublicRepos: org.PublicRepos,
		Followers:   org.Followers,
	}

	var repos []githubRepo
	if err := g.getJSON(ctx, githubAPIBase+"/orgs/"+orgName+"/repos?per_page=100&sort=pushed", g.cfg.GithubToken, &repos); err != nil {
		// Org metadata alone is still a usable signal.
		return data, nil
	}

	languages := make(map[string]int)
	var topRepo githubRepo
	for _, repo := range repos {
		data.TotalStars += repo.Stars
		if repo.Language != "" {
			languages[repo.Language]++
		}
		if repo.Stars >= topRepo.Stars {
			topRepo = repo
		}
	}
	data.TopLanguages = topN(languages, 3)

	if topRepo.Name != "" {
		var weeks []githubWeek
		if err := g.getJSON(ctx, fmt.Sprintf("%s/repos/%s/%s/stats/commit_activity", githubAPIBase, orgName, topRepo.Name), g.cfg.GithubToken, &weeks); err == nil {
			start := len(weeks) - 4
			if start < 0 {
				start = 0
			}
			for _, week := range weeks[start:] {
				data.CommitsLastMonth += week.Total
			}
		}

		var contents []githubContent
		if err := g.getJSON(ctx, fmt.Sprintf("%s/repos/%s/%s/contents", githubAPIBase, orgName, topRepo.Name), g.cfg.GithubToken, &contents); err == nil {
			for _, entry := range contents {
				name := strings.ToLower(entry.Name)
				if entry.Type == "dir" && name == ".github" {
					data.HasCI = true
				}
				if strings.Contains(name, "test") || strings.Contains(name, "spec") {
					data.HasTests = true
				}
			}
		}
	}

	return data, nil
}

// getJSON fetches a JSON endpoint into v. Non-200 responses are errors;
// the token, when present, rides along as a bearer credential.
func (g *Gatherer) getJSON(ctx context.Context, url, token string, v any) error {
	reqCtx, cancel := context.WithTimeout(ctx, g.cfg.LookupTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", g.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("http status %d for %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func topN(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
