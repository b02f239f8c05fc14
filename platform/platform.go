// Package platform detects which e-commerce site generator built a store
// and scrapes structured catalog data with generator-specific selectors.
package platform

import (
	"context"
	"strings"

	"github.com/aluiziolira/go-webintel/fetch"
)

// Platform identifies a supported e-commerce site generator.
type Platform string

const (
	Shopify     Platform = "shopify"
	WooCommerce Platform = "woocommerce"
	Wix         Platform = "wix"
	None        Platform = "none"
)

// detectOrder fixes the order fingerprints are tried in. Fingerprints are
// mutually exclusive in practice; the order only breaks pathological ties.
var detectOrder = []Platform{Shopify, WooCommerce, Wix}

// Match reports whether raw homepage markup carries this platform's
// fingerprint.
func (p Platform) Match(raw string) bool {
	switch p {
	case Shopify:
		return strings.Contains(raw, "cdn.shopify.com") ||
			strings.Contains(raw, "Shopify.theme") ||
			strings.Contains(raw, ".myshopify.com")
	case WooCommerce:
		return strings.Contains(raw, "wp-content/plugins/woocommerce") ||
			strings.Contains(raw, "wc-ajax") ||
			strings.Contains(raw, `class="woocommerce`)
	case Wix:
		return strings.Contains(raw, "static.wixstatic.com") ||
			strings.Contains(raw, "static.parastorage.com") ||
			strings.Contains(raw, `content="Wix.com Website Builder"`)
	default:
		return false
	}
}

// Detect fetches the homepage once and returns the first platform whose
// fingerprint matches, or None. Unfetchable pages detect as None; the
// caller falls back to the generic crawler, which is not an error.
func Detect(ctx context.Context, fetcher *fetch.Fetcher, rawURL string) Platform {
	raw := fetcher.Fetch(ctx, rawURL)
	if raw == "" {
		return None
	}
	return DetectMarkup(raw)
}

// DetectMarkup runs the fingerprint checks against already-fetched markup.
func DetectMarkup(raw string) Platform {
	for _, p := range detectOrder {
		if p.Match(raw) {
			return p
		}
	}
	return None
}
