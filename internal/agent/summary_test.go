package agent

import (
	"strings"
	"testing"

	"github.com/brightdev/amazon-search-api/internal/models"
)

func fptr(f float64) *float64 { return &f }
func iptr(i int) *int         { return &i }
func sptr(s string) *string   { return &s }

func product(title string, price *float64, currency *string, rating *float64, reviews *int) models.Product {
	return models.Product{
		Title:        title,
		Price:        price,
		Currency:     currency,
		Rating:       rating,
		ReviewsCount: reviews,
		URL:          "https://www.amazon.com/dp/TEST",
		Source:       models.SourceBrightData,
	}
}

func TestSummarizeEmpty(t *testing.T) {
	got := Summarize("nintendo switch", nil)
	want := "No products found for query: 'nintendo switch'"
	if got != want {
		t.Errorf("Summarize() = %q, want %q", got, want)
	}
}

func TestSummarizeSingleItem(t *testing.T) {
	items := []models.Product{
		product("Test Product", fptr(99.99), sptr("USD"), fptr(4.5), iptr(100)),
	}

	got := Summarize("test", items)
	want := "Found 1 product(s) for 'test'. " +
		"Price range: USD 99.99 - USD 99.99 (average: USD 99.99) " +
		"Average rating: 4.5/5.0 " +
		"Total reviews: 100 (average: 100 per product) " +
		"Top rated: Test Product... (4.5/5.0, 100 reviews)"
	if got != want {
		t.Errorf("Summarize() = %q, want %q", got, want)
	}
}

func TestSummarizePicksTopRated(t *testing.T) {
	items := []models.Product{
		product("Alpha", fptr(10), sptr("USD"), fptr(5.0), nil),
		product("Beta", fptr(20), sptr("USD"), fptr(3.0), nil),
		product("Gamma", fptr(30), sptr("USD"), fptr(4.0), nil),
	}

	got := Summarize("gadgets", items)
	want := "Found 3 product(s) for 'gadgets'. " +
		"Price range: USD 10.00 - USD 30.00 (average: USD 20.00) " +
		"Average rating: 4.0/5.0 " +
		"Top rated: Alpha... (5.0/5.0, 0 reviews)"
	if got != want {
		t.Errorf("Summarize() = %q, want %q", got, want)
	}
}

func TestSummarizeFirstRatingWinsTies(t *testing.T) {
	items := []models.Product{
		product("First", nil, nil, fptr(4.5), iptr(10)),
		product("Second", nil, nil, fptr(4.5), iptr(999)),
	}

	got := Summarize("ties", items)
	if !strings.Contains(got, "Top rated: First...") {
		t.Errorf("Summarize() = %q, want the first 4.5-rated item as top rated", got)
	}
}

func TestSummarizeAllFieldsMissing(t *testing.T) {
	items := []models.Product{
		{Title: "A", URL: "https://a", Source: models.SourceBrightData},
		{Title: "B", URL: "https://b", Source: models.SourceBrightData},
	}

	got := Summarize("sparse", items)
	want := "Found 2 product(s) for 'sparse'."
	if got != want {
		t.Errorf("Summarize() = %q, want %q", got, want)
	}
}

func TestSummarizeCurrencyLabelFromFirstItem(t *testing.T) {
	items := []models.Product{
		product("Euro Item", fptr(10), sptr("EUR"), nil, nil),
		product("Dollar Item", fptr(30), sptr("USD"), nil, nil),
	}

	got := Summarize("mixed", items)
	want := "Found 2 product(s) for 'mixed'. " +
		"Price range: EUR 10.00 - EUR 30.00 (average: EUR 20.00)"
	if got != want {
		t.Errorf("Summarize() = %q, want %q", got, want)
	}
}

func TestSummarizeMissingCurrencyDefaultsToUSD(t *testing.T) {
	items := []models.Product{
		product("No Currency", fptr(5), nil, nil, nil),
	}

	got := Summarize("plain", items)
	if !strings.Contains(got, "Price range: USD 5.00 - USD 5.00") {
		t.Errorf("Summarize() = %q, want a USD price range", got)
	}
}

func TestSummarizeReviewTotals(t *testing.T) {
	items := []models.Product{
		product("A", nil, nil, nil, iptr(1500)),
		product("B", nil, nil, nil, iptr(500)),
	}

	got := Summarize("reviews", items)
	want := "Found 2 product(s) for 'reviews'. " +
		"Total reviews: 2,000 (average: 1000 per product)"
	if got != want {
		t.Errorf("Summarize() = %q, want %q", got, want)
	}
}

func TestSummarizeTruncatesLongTitles(t *testing.T) {
	longTitle := strings.Repeat("Very Long Product Name ", 4) // 92 chars
	items := []models.Product{
		product(longTitle, nil, nil, fptr(4.2), iptr(7)),
	}

	got := Summarize("long", items)
	wantFragment := "Top rated: " + string([]rune(longTitle)[:50]) + "... (4.2/5.0, 7 reviews)"
	if !strings.Contains(got, wantFragment) {
		t.Errorf("Summarize() = %q, want fragment %q", got, wantFragment)
	}
}

func TestFormatThousands(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected string
	}{
		{"Zero", 0, "0"},
		{"Under a thousand", 999, "999"},
		{"Exactly one thousand", 1000, "1,000"},
		{"Round thousands", 2000, "2,000"},
		{"Millions", 1234567, "1,234,567"},
		{"Negative", -1234, "-1,234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatThousands(tt.input); got != tt.expected {
				t.Errorf("formatThousands(%d) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTruncateTitle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{"Shorter than max", "short", 50, "short"},
		{"Exactly max", strings.Repeat("a", 50), 50, strings.Repeat("a", 50)},
		{"Longer than max", strings.Repeat("a", 60), 50, strings.Repeat("a", 50)},
		{"Multi-byte runes", strings.Repeat("ä", 60), 50, strings.Repeat("ä", 50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateTitle(tt.input, tt.max); got != tt.expected {
				t.Errorf("truncateTitle() = %q, want %q", got, tt.expected)
			}
		})
	}
}
