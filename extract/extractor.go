// Package extract turns raw markup into normalized article text using a
// readability pass with a tag-stripping fallback.
package extract

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-webintel/models"
	readability "github.com/go-shiori/go-readability"
)

const (
	// maxReadabilityBytes guards the readability pass: oversized markup
	// skips straight to the fallback.
	maxReadabilityBytes = 300 << 10

	// minPrimaryLength is the cutoff below which a readability result is
	// treated as a false negative and discarded for the fallback.
	minPrimaryLength = 200
)

// noiseSelector lists elements removed before taking the body text.
const noiseSelector = "script, style, nav, footer, form, iframe, noscript, header, aside"

// Article extracts the dominant text of rawHTML. The readability result
// wins only when it is long enough to trust; otherwise the stripped body
// text is used. Text is always non-nil, empty on total failure.
func Article(pageURL, rawHTML string) models.ExtractedPage {
	page := models.ExtractedPage{URL: pageURL}

	fbTitle, fbText, meta, links := fallback(pageURL, rawHTML)
	page.Meta = meta
	page.Links = links

	var primaryTitle, primaryText string
	if len(rawHTML) <= maxReadabilityBytes {
		primaryTitle, primaryText = readable(pageURL, rawHTML)
	}

	if len(primaryText) > minPrimaryLength {
		page.Title = primaryTitle
		page.Text = primaryText
	} else {
		page.Title = fbTitle
		page.Text = fbText
	}
	if page.Title == "" {
		page.Title = fbTitle
	}
	return page
}

// readable runs the readability algorithm, absorbing any parse failure.
func readable(pageURL, rawHTML string) (title, text string) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		parsed = &url.URL{}
	}
	article, err := readability.FromReader(strings.NewReader(rawHTML), parsed)
	if err != nil {
		slog.Debug("readability pass failed", slog.String("url", pageURL), slog.Any("error", err))
		return "", ""
	}
	return strings.TrimSpace(article.Title), NormalizeWhitespace(article.TextContent)
}

// fallback strips boilerplate elements and returns the remaining body text
// plus meta name/property -> content pairs and the page's outbound links,
// resolved against pageURL. Links are collected before noise removal so
// navigation menus still feed the crawler.
func fallback(pageURL, rawHTML string) (title, text string, meta map[string]string, links []string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", "", nil, nil
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		base = &url.URL{}
	}
	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") ||
			strings.HasPrefix(href, "javascript:") {
			return
		}
		resolved, err := base.Parse(href)
		if err != nil {
			return
		}
		resolved.Fragment = ""
		abs := resolved.String()
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		links = append(links, abs)
	})

	meta = make(map[string]string)
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content, ok := s.Attr("content")
		if !ok || content == "" {
			return
		}
		if name, ok := s.Attr("name"); ok && name != "" {
			meta[name] = content
		} else if property, ok := s.Attr("property"); ok && property != "" {
			meta[property] = content
		}
	})

	title = strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find(noiseSelector).Remove()
	body := doc.Find("body")
	if body.Length() == 0 {
		return title, "", meta, links
	}
	return title, NormalizeWhitespace(body.Text()), meta, links
}
