package platform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aluiziolira/go-webintel/models"
)

const maxSummaryProducts = 5

// Summary renders scraped platform data into a single human-readable block
// for the downstream analyzer's prompt context. One renderer serves all
// three platforms.
func Summary(data *models.PlatformData) string {
	if data == nil {
		return ""
	}

	var b strings.Builder
	name := data.StoreName
	if name == "" {
		name = data.StoreURL
	}
	fmt.Fprintf(&b, "Store: %s (%s)\n", name, data.Platform)
	if data.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", data.Description)
	}

	if len(data.Products) > 0 {
		low, high := priceRange(data.Products)
		currency := data.Currency
		if currency == "" {
			currency = "unknown currency"
		}
		fmt.Fprintf(&b, "Catalog: %d products, %.2f-%.2f (%s)\n", len(data.Products), low, high, currency)

		b.WriteString("Top products:\n")
		for i, product := range data.Products {
			if i >= maxSummaryProducts {
				break
			}
			fmt.Fprintf(&b, "  - %s (%.2f)", product.Name, product.Price)
			if product.Description != "" {
				fmt.Fprintf(&b, ": %s", truncateText(product.Description, 120))
			}
			b.WriteString("\n")
		}
	}

	if len(data.Categories) > 0 {
		fmt.Fprintf(&b, "Categories: %s\n", strings.Join(data.Categories, ", "))
	}
	if data.AboutText != "" {
		fmt.Fprintf(&b, "About: %s\n", truncateText(data.AboutText, 400))
	}

	if len(data.Policies) > 0 {
		keys := make([]string, 0, len(data.Policies))
		for key := range data.Policies {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(&b, "Policy (%s): %s\n", key, truncateText(data.Policies[key], 150))
		}
	}

	if len(data.SocialLinks) > 0 {
		fmt.Fprintf(&b, "Social presence: %d channels\n", len(data.SocialLinks))
	}
	fmt.Fprintf(&b, "Pages visited: %d\n", data.PagesVisited)
	return b.String()
}

// priceRange returns the lowest and highest non-zero prices. Products with
// unparsed (zero) prices are excluded from the range.
func priceRange(products []*models.PlatformProduct) (low, high float64) {
	for _, product := range products {
		if product.Price <= 0 {
			continue
		}
		if low == 0 || product.Price < low {
			low = product.Price
		}
		if product.Price > high {
			high = product.Price
		}
	}
	return low, high
}
