package enrich

import (
	"fmt"
	"strings"

	"github.com/aluiziolira/go-webintel/models"
)

// Summary renders the enrichment report as plain text for the analyzer's
// prompt context. Blocks for absent sources are omitted entirely.
func (g *Gatherer) Summary(data *models.EnrichedIntelligence, profile models.CompanyProfile) string {
	if data == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Company: %s\n", profile.Name)
	if profile.Website != "" {
		fmt.Fprintf(&b, "Website: %s\n", profile.Website)
	}
	if profile.Industry != "" {
		fmt.Fprintf(&b, "Industry: %s\n", profile.Industry)
	}

	if data.WebsiteContent != "" {
		b.WriteString("\n--- Website ---\n")
		b.WriteString(truncateRunes(data.WebsiteContent, g.cfg.SummaryContentLimit))
		fmt.Fprintf(&b, "\n(%d pages cited)\n", len(data.WebsiteSources))
	}

	if data.LinkedIn != nil {
		b.WriteString("\n--- LinkedIn ---\n")
		writeField(&b, "Name", data.LinkedIn.Name)
		writeField(&b, "Tagline", data.LinkedIn.Tagline)
		writeField(&b, "Industry", data.LinkedIn.Industry)
		writeField(&b, "Company size", data.LinkedIn.CompanySize)
		writeField(&b, "Headquarters", data.LinkedIn.Headquarters)
		writeField(&b, "Founded", data.LinkedIn.Founded)
		writeField(&b, "Followers", data.LinkedIn.FollowerCount)
		if len(data.LinkedIn.Specialties) > 0 {
			writeField(&b, "Specialties", strings.Join(data.LinkedIn.Specialties, ", "))
		}
	}

	if data.HiringSignal != nil {
		b.WriteString("\n--- Hiring ---\n")
		fmt.Fprintf(&b, "Open positions: %d (%s)\n", data.HiringSignal.OpenPositions, data.HiringSignal.Velocity)
		if len(data.HiringSignal.Departments) > 0 {
			writeField(&b, "Departments", strings.Join(data.HiringSignal.Departments, ", "))
		}
	}

	if data.Github != nil {
		b.WriteString("\n--- GitHub ---\n")
		fmt.Fprintf(&b, "Org: %s (%d public repos, %d followers, %d stars)\n",
			data.Github.Org, data.Github.PublicRepos, data.Github.Followers, data.Github.TotalStars)
		if len(data.Github.TopLanguages) > 0 {
			writeField(&b, "Top languages", strings.Join(data.Github.TopLanguages, ", "))
		}
		fmt.Fprintf(&b, "Commits last month: %d, tests: %v, CI: %v\n",
			data.Github.CommitsLastMonth, data.Github.HasTests, data.Github.HasCI)
	}

	if len(data.ProductHunt) > 0 {
		b.WriteString("\n--- Product Hunt ---\n")
		for _, launch := range data.ProductHunt {
			fmt.Fprintf(&b, "%s: %d upvotes, %d comments", launch.Name, launch.Upvotes, launch.Comments)
			if launch.Featured {
				b.WriteString(", featured")
			}
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, "\nData sources: %s (%d), gathered in %dms\n",
		strings.Join(data.DataSources, ", "), data.TotalDataPoints, data.ScrapingDurationMs)
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
