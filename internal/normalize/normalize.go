// Package normalize converts upstream product payloads, either structured
// records or raw search-page HTML, into the canonical item schema.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/brightdev/amazon-search-api/internal/models"
	"github.com/brightdev/amazon-search-api/internal/parser"
)

var (
	currencyPattern = regexp.MustCompile(`([$€£¥]|USD|EUR|GBP|JPY)`)
	amountPattern   = regexp.MustCompile(`(\d+(?:\.\d+)?)`)
)

var currencyCodes = map[string]string{
	"$": "USD", "USD": "USD",
	"€": "EUR", "EUR": "EUR",
	"£": "GBP", "GBP": "GBP",
	"¥": "JPY", "JPY": "JPY",
}

// htmlParser handles the raw-HTML input shape.
var htmlParser = parser.NewSearchParser()

// ParsePrice pulls a numeric amount and an ISO currency code out of a
// free-form price string. Detection runs as two independent passes over the
// same string: either side may be nil while the other is set. The first
// currency token found wins; thousands separators are stripped before the
// numeric scan.
func ParsePrice(raw string) (*float64, *string) {
	if raw == "" {
		return nil, nil
	}

	var currency *string
	if m := currencyPattern.FindStringSubmatch(strings.ToUpper(raw)); m != nil {
		if code, ok := currencyCodes[m[1]]; ok {
			currency = &code
		}
	}

	var amount *float64
	if m := amountPattern.FindStringSubmatch(strings.ReplaceAll(raw, ",", "")); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			amount = &v
		}
	}

	return amount, currency
}

// Response normalizes a decoded upstream payload. A map is searched for a
// product list under "products" then "items"; a string is treated as raw
// search-page HTML; anything else yields an empty set. The result is
// truncated to limit.
func Response(payload any, limit int) (*models.ResultSet, error) {
	switch v := payload.(type) {
	case map[string]any:
		records := recordList(v, "products", "items")
		items := make([]models.Product, 0, len(records))
		for _, rec := range records {
			m, ok := rec.(map[string]any)
			if !ok {
				continue
			}
			items = append(items, FromRecord(m))
		}
		return models.NewResultSet(truncate(items, limit)), nil
	case string:
		return FromHTML(v, limit)
	}
	return models.NewResultSet(nil), nil
}

// FromHTML extracts product cards from a search page and normalizes them.
// Page Guard failures surface as the parser's sentinel errors.
func FromHTML(html string, limit int) (*models.ResultSet, error) {
	raw, err := htmlParser.ExtractSearchResults(html, limit)
	if err != nil {
		return nil, err
	}
	return FromRaw(raw, limit), nil
}

// FromRaw coerces already-extracted cards into the canonical schema.
func FromRaw(products []models.RawProduct, limit int) *models.ResultSet {
	items := make([]models.Product, 0, len(products))
	for _, raw := range products {
		items = append(items, fromRaw(raw))
	}
	return models.NewResultSet(truncate(items, limit))
}

// FromRecord normalizes one loosely-typed record. Field types vary across
// upstream payloads (numbers arrive as strings and vice versa), so every
// field is coerced individually and failures degrade to nil rather than
// erroring. The reviews count honors whichever of "reviews" or
// "reviews_count" is present first.
func FromRecord(rec map[string]any) models.Product {
	price, currency := ParsePrice(stringValue(rec["price"]))
	return models.Product{
		Title:        stringValue(rec["title"]),
		Price:        price,
		Currency:     currency,
		Rating:       floatValue(rec["rating"]),
		ReviewsCount: countValue(firstPresent(rec, "reviews", "reviews_count")),
		URL:          stringValue(rec["url"]),
		Image:        imageValue(rec["image"]),
		Source:       models.SourceBrightData,
	}
}

func fromRaw(raw models.RawProduct) models.Product {
	price, currency := ParsePrice(raw.Price)
	return models.Product{
		Title:        raw.Title,
		Price:        price,
		Currency:     currency,
		Rating:       raw.Rating,
		ReviewsCount: raw.Reviews,
		URL:          raw.URL,
		Image:        raw.Image,
		Source:       models.SourceBrightData,
	}
}

// recordList returns the first non-empty list under the candidate keys.
func recordList(payload map[string]any, keys ...string) []any {
	for _, k := range keys {
		if list, ok := payload[k].([]any); ok && len(list) > 0 {
			return list
		}
	}
	return nil
}

// firstPresent returns the first non-nil value among the named keys.
func firstPresent(rec map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := rec[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func truncate(items []models.Product, limit int) []models.Product {
	if limit >= 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

// floatValue coerces numbers and numeric strings; anything else is nil.
func floatValue(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case float32:
		f := float64(n)
		return &f
	case int:
		f := float64(n)
		return &f
	case int64:
		f := float64(n)
		return &f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil
		}
		return &f
	}
	return nil
}

// countValue coerces whole numbers and digit strings that may carry
// thousands separators; fractional values are nil.
func countValue(v any) *int {
	switch n := v.(type) {
	case int:
		return &n
	case int64:
		c := int(n)
		return &c
	case float64:
		if n != math.Trunc(n) {
			return nil
		}
		c := int(n)
		return &c
	case string:
		c, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(n), ",", ""))
		if err != nil {
			return nil
		}
		return &c
	}
	return nil
}

func imageValue(v any) *string {
	if s, ok := v.(string); ok && s != "" {
		return &s
	}
	return nil
}
