package parser

import (
	"github.com/brightdev/amazon-search-api/internal/models"
)

// Parser is the page-to-products contract the fetch client depends on.
type Parser interface {
	ExtractSearchResults(html string, limit int) ([]models.RawProduct, error)
}
