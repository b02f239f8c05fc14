package platform

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/aluiziolira/go-webintel/extract"
	"github.com/aluiziolira/go-webintel/models"
)

var shopifyDescriptor = descriptor{
	paths: []string{
		"/",
		"/collections/all",
		"/pages/about-us",
		"/pages/about",
		"/policies/shipping-policy",
		"/policies/refund-policy",
		"/policies/privacy-policy",
		"/pages/contact",
	},
	productSelector:    ".product-card, .grid-product, li.grid__item",
	nameSelector:       ".product-card__title, .grid-product__title, h3",
	priceSelector:      ".price, .product-card__price, .money",
	descSelector:       ".product-card__description",
	linkSelector:       "a",
	collectionSelector: ".collection-grid-item__title, .collection-card__title",
	catalogHints:       []string{"/products/", "/collections/"},
}

// shopifyCatalog mirrors the public /products.json payload. Every field is
// optional; the endpoint is unauthenticated and shops can disable it.
type shopifyCatalog struct {
	Products []struct {
		Title       string   `json:"title"`
		Handle      string   `json:"handle"`
		BodyHTML    string   `json:"body_html"`
		ProductType string   `json:"product_type"`
		Tags        []string `json:"tags"`
		Variants    []struct {
			Price     string `json:"price"`
			SKU       string `json:"sku"`
			Available *bool  `json:"available"`
		} `json:"variants"`
		Images []struct {
			Src string `json:"src"`
		} `json:"images"`
	} `json:"products"`
}

// seedShopifyCatalog loads products from the shop's public JSON endpoint,
// bypassing HTML parsing. Failure is silent; the HTML crawl still runs.
func (s *Scraper) seedShopifyCatalog(ctx context.Context, origin *url.URL, data *models.PlatformData) {
	endpoint := origin.Scheme + "://" + origin.Host + "/products.json"
	raw := s.fetcher.FetchWithTimeout(ctx, endpoint, s.cfg.LookupTimeout)
	if raw == "" {
		return
	}

	var catalog shopifyCatalog
	if err := json.Unmarshal([]byte(raw), &catalog); err != nil {
		slog.Debug("shopify catalog endpoint unparsable", slog.String("url", endpoint), slog.Any("error", err))
		return
	}

	seenTypes := make(map[string]struct{})
	for _, entry := range catalog.Products {
		if entry.Title == "" {
			continue
		}
		product := &models.PlatformProduct{
			Name:      entry.Title,
			URL:       origin.Scheme + "://" + origin.Host + "/products/" + entry.Handle,
			ScrapedAt: time.Now(),
		}
		if entry.BodyHTML != "" {
			stripped := extract.NormalizeWhitespace(stripTags(entry.BodyHTML))
			product.Description = truncateText(stripped, 300)
		}
		if len(entry.Variants) > 0 {
			variant := entry.Variants[0]
			if price, ok := ParsePrice(variant.Price); ok {
				product.Price = price
			}
			product.SKU = variant.SKU
			product.InStock = variant.Available
		}
		if len(entry.Images) > 0 {
			product.ImageURL = entry.Images[0].Src
		}
		if entry.ProductType != "" {
			product.Categories = []string{entry.ProductType}
			if _, ok := seenTypes[entry.ProductType]; !ok {
				seenTypes[entry.ProductType] = struct{}{}
				data.Categories = append(data.Categories, entry.ProductType)
			}
		}
		if err := ValidateProduct(product); err != nil {
			continue
		}
		data.Products = append(data.Products, product)
	}
	if len(data.Products) > 0 {
		slog.Debug("shopify catalog seeded", slog.Int("products", len(data.Products)))
	}
}

var tagPattern = strings.NewReplacer("<br>", "\n", "<br/>", "\n", "<br />", "\n")

// stripTags removes markup from body_html snippets without a full parse.
func stripTags(s string) string {
	s = tagPattern.Replace(s)
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			b.WriteRune(' ')
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}
