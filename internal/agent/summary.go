// Package agent renders the plain-text answer that accompanies search
// results. It is a purely local summarizer; nothing here calls out.
package agent

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/brightdev/amazon-search-api/internal/models"
)

// Summarize builds a short aggregate summary over normalized items. Parts
// are added only when the backing data exists and are joined with single
// spaces. It never fails: empty and all-nil inputs just produce less text.
func Summarize(query string, items []models.Product) string {
	if len(items) == 0 {
		return fmt.Sprintf("No products found for query: '%s'", query)
	}

	var prices, ratings []float64
	var reviewCounts []int
	for _, item := range items {
		if item.Price != nil {
			prices = append(prices, *item.Price)
		}
		if item.Rating != nil {
			ratings = append(ratings, *item.Rating)
		}
		if item.ReviewsCount != nil {
			reviewCounts = append(reviewCounts, *item.ReviewsCount)
		}
	}

	parts := []string{fmt.Sprintf("Found %d product(s) for '%s'.", len(items), query)}

	if len(prices) > 0 {
		minPrice, maxPrice, sum := prices[0], prices[0], 0.0
		for _, p := range prices {
			if p < minPrice {
				minPrice = p
			}
			if p > maxPrice {
				maxPrice = p
			}
			sum += p
		}
		// The label comes from the first item only; mixed-currency sets keep
		// this known limitation.
		currency := "USD"
		if items[0].Currency != nil {
			currency = *items[0].Currency
		}
		parts = append(parts, fmt.Sprintf("Price range: %s %.2f - %s %.2f (average: %s %.2f)",
			currency, minPrice, currency, maxPrice, currency, sum/float64(len(prices))))
	}

	if len(ratings) > 0 {
		sum := 0.0
		for _, r := range ratings {
			sum += r
		}
		parts = append(parts, fmt.Sprintf("Average rating: %.1f/5.0", sum/float64(len(ratings))))
	}

	if len(reviewCounts) > 0 {
		total := 0
		for _, c := range reviewCounts {
			total += c
		}
		avg := float64(total) / float64(len(reviewCounts))
		parts = append(parts, fmt.Sprintf("Total reviews: %s (average: %.0f per product)",
			formatThousands(total), avg))
	}

	if len(ratings) > 0 {
		top := topRated(items)
		reviews := 0
		if top.ReviewsCount != nil {
			reviews = *top.ReviewsCount
		}
		parts = append(parts, fmt.Sprintf("Top rated: %s... (%.1f/5.0, %d reviews)",
			truncateTitle(top.Title, 50), *top.Rating, reviews))
	}

	return strings.Join(parts, " ")
}

// topRated picks the highest-rated item; the first occurrence wins ties.
// Callers must ensure at least one item carries a rating.
func topRated(items []models.Product) models.Product {
	var best models.Product
	found := false
	for _, item := range items {
		if item.Rating == nil {
			continue
		}
		if !found || *item.Rating > *best.Rating {
			best = item
			found = true
		}
	}
	return best
}

// formatThousands renders n with comma separators ("2,000").
func formatThousands(n int) string {
	s := strconv.Itoa(n)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return sign + b.String()
}

// truncateTitle keeps the first max runes so multi-byte titles never split.
func truncateTitle(title string, max int) string {
	runes := []rune(title)
	if len(runes) <= max {
		return title
	}
	return string(runes[:max])
}
