package platform

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aluiziolira/go-webintel/models"
)

var priceToken = regexp.MustCompile(`[0-9]+(?:[.,][0-9]{1,2})?`)

// currencyMarkers maps recognizable symbols and codes to ISO codes, in
// check order (codes before the bare dollar sign so "CA$" wins over "$").
var currencyMarkers = []struct {
	marker string
	code   string
}{
	{marker: "USD", code: "USD"},
	{marker: "EUR", code: "EUR"},
	{marker: "GBP", code: "GBP"},
	{marker: "CAD", code: "CAD"},
	{marker: "AUD", code: "AUD"},
	{marker: "CA$", code: "CAD"},
	{marker: "A$", code: "AUD"},
	{marker: "£", code: "GBP"},
	{marker: "€", code: "EUR"},
	{marker: "¥", code: "JPY"},
	{marker: "$", code: "USD"},
}

// ParsePrice extracts the first numeric token from a price string. A comma
// decimal separator is accepted. The second return reports success.
func ParsePrice(text string) (float64, bool) {
	token := priceToken.FindString(text)
	if token == "" {
		return 0, false
	}
	token = strings.ReplaceAll(token, ",", ".")
	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// DetectCurrency returns the ISO code of the first recognized currency
// symbol or code in text, or "" when none is present.
func DetectCurrency(text string) string {
	for _, entry := range currencyMarkers {
		if strings.Contains(text, entry.marker) {
			return entry.code
		}
	}
	return ""
}

// ValidateProduct ensures a scraped product carries the required fields.
func ValidateProduct(p *models.PlatformProduct) error {
	if p == nil {
		return fmt.Errorf("product is nil")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("product missing name")
	}
	if strings.TrimSpace(p.URL) == "" {
		return fmt.Errorf("product missing url for %s", p.Name)
	}
	return nil
}

// truncateText bounds free-text excerpts kept in PlatformData.
func truncateText(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n]))
}
