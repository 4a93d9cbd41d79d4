package models

// SourceBrightData tags every normalized product with the upstream provider.
const SourceBrightData = "brightdata"

// RawProduct holds the fields pulled from one search-result card before
// normalization. Pointer fields stay nil when the card lacks the element.
type RawProduct struct {
	Title   string   `json:"title"`
	Price   string   `json:"price"`
	Rating  *float64 `json:"rating"`
	Reviews *int     `json:"reviews"`
	URL     string   `json:"url"`
	Image   *string  `json:"image"`
}

// IsValid reports whether the card produced enough identity to keep.
// Cards without both a title and a URL are dropped, not errors.
func (p *RawProduct) IsValid() bool {
	return p.Title != "" && p.URL != ""
}

// Product is the canonical item schema returned to callers. Optional fields
// encode as JSON null when absent, so none of them carry omitempty.
type Product struct {
	Title        string   `json:"title"`
	Price        *float64 `json:"price"`
	Currency     *string  `json:"currency"`
	Rating       *float64 `json:"rating"`
	ReviewsCount *int     `json:"reviews_count"`
	URL          string   `json:"url"`
	Image        *string  `json:"image"`
	Source       string   `json:"source"`
}

// ResultSet is an ordered page of normalized products.
type ResultSet struct {
	Items []Product `json:"items"`
	Count int       `json:"count"`
}

// NewResultSet wraps items so Count always matches and an empty set still
// encodes as a JSON array.
func NewResultSet(items []Product) *ResultSet {
	if items == nil {
		items = make([]Product, 0)
	}
	return &ResultSet{Items: items, Count: len(items)}
}
