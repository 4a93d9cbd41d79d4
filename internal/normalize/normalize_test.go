package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightdev/amazon-search-api/internal/models"
	"github.com/brightdev/amazon-search-api/internal/parser"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		price    *float64
		currency *string
	}{
		{"Dollar with cents", "$99.99", fptr(99.99), sptr("USD")},
		{"Euro", "€89.50", fptr(89.50), sptr("EUR")},
		{"Pound without decimals", "£45", fptr(45), sptr("GBP")},
		{"Yen with thousands separator", "¥1,234", fptr(1234), sptr("JPY")},
		{"Currency code", "USD 19.99", fptr(19.99), sptr("USD")},
		{"Lowercase currency code", "usd 5", fptr(5), sptr("USD")},
		{"Amount without currency", "Price: 12.99", fptr(12.99), nil},
		{"Currency without amount", "$ TBD", nil, sptr("USD")},
		{"Empty string", "", nil, nil},
		{"No numbers here", "no numbers here", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, currency := ParsePrice(tt.input)
			assert.Equal(t, tt.price, price)
			assert.Equal(t, tt.currency, currency)
		})
	}
}

func TestFromRecord(t *testing.T) {
	record := map[string]any{
		"title":   "X",
		"price":   "$10.00",
		"rating":  4,
		"reviews": "2,000",
		"url":     "https://a",
		"image":   nil,
	}

	product := FromRecord(record)

	assert.Equal(t, models.Product{
		Title:        "X",
		Price:        fptr(10.0),
		Currency:     sptr("USD"),
		Rating:       fptr(4.0),
		ReviewsCount: iptr(2000),
		URL:          "https://a",
		Image:        nil,
		Source:       models.SourceBrightData,
	}, product)
}

func TestFromRecordCoercions(t *testing.T) {
	tests := []struct {
		name     string
		record   map[string]any
		expected models.Product
	}{
		{
			name:     "Empty record still gets the provider tag",
			record:   map[string]any{},
			expected: models.Product{Source: models.SourceBrightData},
		},
		{
			name:     "Numeric rating string",
			record:   map[string]any{"rating": "4.7"},
			expected: models.Product{Rating: fptr(4.7), Source: models.SourceBrightData},
		},
		{
			name:     "Unparsable rating degrades to nil",
			record:   map[string]any{"rating": "great"},
			expected: models.Product{Source: models.SourceBrightData},
		},
		{
			name:     "Whole float review count",
			record:   map[string]any{"reviews": 2000.0},
			expected: models.Product{ReviewsCount: iptr(2000), Source: models.SourceBrightData},
		},
		{
			name:     "Fractional review count degrades to nil",
			record:   map[string]any{"reviews": 2000.5},
			expected: models.Product{Source: models.SourceBrightData},
		},
		{
			name:     "Reviews key wins over reviews_count",
			record:   map[string]any{"reviews": 10, "reviews_count": 99},
			expected: models.Product{ReviewsCount: iptr(10), Source: models.SourceBrightData},
		},
		{
			name:     "Reviews_count used when reviews is absent",
			record:   map[string]any{"reviews_count": 7},
			expected: models.Product{ReviewsCount: iptr(7), Source: models.SourceBrightData},
		},
		{
			name:     "Empty image stays nil",
			record:   map[string]any{"image": ""},
			expected: models.Product{Source: models.SourceBrightData},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FromRecord(tt.record))
		})
	}
}

func TestResponseMapPayload(t *testing.T) {
	payload := map[string]any{
		"products": []any{
			map[string]any{"title": "A", "url": "https://a", "price": "$1.00"},
			"not a record",
			map[string]any{"title": "B", "url": "https://b"},
			map[string]any{"title": "C", "url": "https://c"},
		},
	}

	result, err := Response(payload, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Count)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "A", result.Items[0].Title)
	assert.Equal(t, "B", result.Items[1].Title)
}

func TestResponseFallsBackToItemsKey(t *testing.T) {
	payload := map[string]any{
		"products": []any{},
		"items": []any{
			map[string]any{"title": "From items", "url": "https://a"},
		},
	}

	result, err := Response(payload, 10)
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)
	assert.Equal(t, "From items", result.Items[0].Title)
}

func TestResponseUnknownPayloadYieldsEmptySet(t *testing.T) {
	result, err := Response(42, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
	assert.NotNil(t, result.Items)
}

func TestResponseIsIdempotent(t *testing.T) {
	payload := map[string]any{
		"products": []any{
			map[string]any{"title": "A", "url": "https://a", "price": "$5.00", "rating": 4.5},
			map[string]any{"title": "B", "url": "https://b", "reviews": "1,200"},
		},
	}

	first, err := Response(payload, 10)
	require.NoError(t, err)
	second, err := Response(payload, 10)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResponseRespectsLimit(t *testing.T) {
	records := make([]any, 0, 8)
	for _, title := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		records = append(records, map[string]any{"title": title, "url": "https://" + title})
	}
	payload := map[string]any{"products": records}

	for _, limit := range []int{1, 3, 8, 20} {
		result, err := Response(payload, limit)
		require.NoError(t, err)
		assert.LessOrEqual(t, result.Count, limit, "limit %d", limit)
		assert.Len(t, result.Items, result.Count)
	}
}

func TestFromRawKeepsExtractedFields(t *testing.T) {
	raw := []models.RawProduct{
		{
			Title:   "Wireless Keyboard",
			Price:   "$49.99",
			Rating:  fptr(4.4),
			Reviews: iptr(321),
			URL:     "https://www.amazon.com/dp/B0KEY",
			Image:   sptr("https://m.media-amazon.com/images/I/key.jpg"),
		},
		{Title: "Bare Item", URL: "https://www.amazon.com/dp/B0BARE"},
	}

	result := FromRaw(raw, 10)

	require.Equal(t, 2, result.Count)
	assert.Equal(t, models.Product{
		Title:        "Wireless Keyboard",
		Price:        fptr(49.99),
		Currency:     sptr("USD"),
		Rating:       fptr(4.4),
		ReviewsCount: iptr(321),
		URL:          "https://www.amazon.com/dp/B0KEY",
		Image:        sptr("https://m.media-amazon.com/images/I/key.jpg"),
		Source:       models.SourceBrightData,
	}, result.Items[0])

	bare := result.Items[1]
	assert.Nil(t, bare.Price)
	assert.Nil(t, bare.Currency)
	assert.Nil(t, bare.Rating)
	assert.Nil(t, bare.ReviewsCount)
	assert.Nil(t, bare.Image)
	assert.Equal(t, models.SourceBrightData, bare.Source)
}

func TestResponseStringPayloadParsesHTML(t *testing.T) {
	var page strings.Builder
	page.WriteString(`<!DOCTYPE html><html><head><title>Amazon.com : desk lamp</title></head><body>`)
	page.WriteString(`<div data-component-type="s-search-result" data-asin="B0LAMP">
		<h2><a class="a-link-normal" href="/dp/B0LAMP"><span>LED Desk Lamp</span></a></h2>
		<span class="a-icon-alt">4.6 out of 5 stars</span>
		<span class="a-price"><span class="a-price-whole">21</span><span class="a-price-fraction">99</span></span>
	</div>`)
	page.WriteString(strings.Repeat("<!-- page chrome -->", 500))
	page.WriteString(`</body></html>`)

	result, err := Response(page.String(), 10)
	require.NoError(t, err)

	require.Equal(t, 1, result.Count)
	item := result.Items[0]
	assert.Equal(t, "LED Desk Lamp", item.Title)
	assert.Equal(t, fptr(21.99), item.Price)
	assert.Equal(t, sptr("USD"), item.Currency)
	assert.Equal(t, fptr(4.6), item.Rating)
	assert.Equal(t, "https://www.amazon.com/dp/B0LAMP", item.URL)
	assert.Equal(t, models.SourceBrightData, item.Source)
}

func TestResponseStringPayloadSurfacesGuardErrors(t *testing.T) {
	result, err := Response("<html><head><title>Robot Check</title></head></html>", 10)
	assert.ErrorIs(t, err, parser.ErrBotCheck)
	assert.Nil(t, result)
}

func fptr(f float64) *float64 { return &f }
func iptr(i int) *int         { return &i }
func sptr(s string) *string   { return &s }
