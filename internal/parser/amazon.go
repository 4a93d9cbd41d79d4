package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/brightdev/amazon-search-api/internal/models"
)

// marketplaceBaseURL prefixes root-relative product links found on cards.
const marketplaceBaseURL = "https://www.amazon.com"

const (
	primaryCardSelector  = `div[data-component-type='s-search-result']`
	fallbackCardSelector = `div[data-asin]:not([data-asin=''])`

	productLinkSelector   = `a.a-link-normal[href*='/dp/']`
	thumbnailSelector     = "img.s-image"
	ratingSelector        = "span.a-icon-alt"
	reviewsSelector       = "span.s-underline-text"
	priceWholeSelector    = "span.a-price-whole"
	priceFractionSelector = "span.a-price-fraction"
)

// SearchParser extracts product cards from Amazon search-result pages.
// Field extraction is best-effort: a missing or unparsable element yields a
// zero value or nil, never an error. Only page-level validation fails.
type SearchParser struct {
	ratingPattern  *regexp.Regexp
	reviewsPattern *regexp.Regexp
}

func NewSearchParser() *SearchParser {
	return &SearchParser{
		ratingPattern:  regexp.MustCompile(`(\d+(?:\.\d+)?)`),
		reviewsPattern: regexp.MustCompile(`(\d[\d,]*)`),
	}
}

// ExtractSearchResults validates the page and pulls up to limit product
// cards in document order. The primary card selector is tried first; the
// looser data-asin fallback is used only when the primary matches nothing,
// never as a union. Cards lacking a title or URL are skipped silently.
func (p *SearchParser) ExtractSearchResults(html string, limit int) ([]models.RawProduct, error) {
	if limit < 1 {
		limit = 1
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}

	if err := ValidatePage(html, pageTitle(doc)); err != nil {
		return nil, err
	}

	cards := doc.Find(primaryCardSelector)
	if cards.Length() == 0 {
		cards = doc.Find(fallbackCardSelector)
	}

	products := make([]models.RawProduct, 0, limit)
	cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		product := p.ExtractCard(card)
		if !product.IsValid() {
			return true
		}
		products = append(products, product)
		return len(products) < limit
	})

	return products, nil
}

// ExtractCard runs every field extractor against one result-card fragment.
func (p *SearchParser) ExtractCard(card *goquery.Selection) models.RawProduct {
	return models.RawProduct{
		Title:   p.extractTitle(card),
		Price:   p.extractPrice(card),
		Rating:  p.extractRating(card),
		Reviews: p.extractReviews(card),
		URL:     p.extractURL(card),
		Image:   p.extractImage(card),
	}
}

// extractTitle prefers the product-link text, falling back to the thumbnail
// alt attribute on sparse layouts.
func (p *SearchParser) extractTitle(card *goquery.Selection) string {
	if title := cleanText(card.Find(productLinkSelector).First().Text()); title != "" {
		return title
	}
	return strings.TrimSpace(card.Find(thumbnailSelector).First().AttrOr("alt", ""))
}

func (p *SearchParser) extractURL(card *goquery.Selection) string {
	href := strings.TrimSpace(card.Find(productLinkSelector).First().AttrOr("href", ""))
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "/") {
		return marketplaceBaseURL + href
	}
	return href
}

func (p *SearchParser) extractImage(card *goquery.Selection) *string {
	src := strings.TrimSpace(card.Find(thumbnailSelector).First().AttrOr("src", ""))
	if src == "" {
		return nil
	}
	return &src
}

func (p *SearchParser) extractRating(card *goquery.Selection) *float64 {
	text := cleanText(card.Find(ratingSelector).First().Text())
	if text == "" {
		// Some layouts carry the rating only as plain span text.
		found := card.Find("span").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return strings.Contains(s.Text(), "out of 5 stars")
		})
		text = cleanText(found.First().Text())
	}
	if text == "" {
		return nil
	}

	m := p.ratingPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	rating, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &rating
}

func (p *SearchParser) extractReviews(card *goquery.Selection) *int {
	text := cleanText(card.Find(reviewsSelector).First().Text())
	if text == "" {
		return nil
	}

	m := p.reviewsPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	count, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return nil
	}
	return &count
}

// extractPrice joins the split price spans as "$<whole>.<fraction>". The
// dollar prefix is fixed regardless of the page's real marketplace currency;
// downstream price parsing interprets the string.
func (p *SearchParser) extractPrice(card *goquery.Selection) string {
	whole := strings.ReplaceAll(cleanText(card.Find(priceWholeSelector).First().Text()), ",", "")
	if whole == "" {
		return ""
	}
	if fraction := cleanText(card.Find(priceFractionSelector).First().Text()); fraction != "" {
		return "$" + whole + "." + fraction
	}
	return "$" + whole
}

func pageTitle(doc *goquery.Document) string {
	return cleanText(doc.Find("title").First().Text())
}

// cleanText collapses the whitespace runs left behind when card markup
// splits text across nested nodes.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
