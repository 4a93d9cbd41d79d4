package parser

import (
	"errors"
	"strings"
)

const (
	// guardPreviewBytes bounds how much of the document the guard scans.
	// Bot checks and block banners always sit near the top of the page.
	guardPreviewBytes = 12000

	// minResultsPageBytes is the smallest document a real results page
	// produces; anything shorter is an error page or a stub.
	minResultsPageBytes = 8000
)

// Page-level validation failures. All are terminal for the current fetch;
// nothing in this package retries.
var (
	ErrBotCheck      = errors.New("amazon returned a bot-check page")
	ErrBlockedPage   = errors.New("amazon returned a blocked or error page")
	ErrShortResponse = errors.New("amazon response html was unusually short, likely not a results page")
)

var botCheckSignals = []string{
	"robot check",
	"captcha",
	"enter the characters you see",
	"type the characters you see",
}

var blockerSignals = []string{
	"to discuss automated access to amazon data",
	"sorry! something went wrong",
	"503 service unavailable",
	"api-services-support@amazon.com",
}

// ValidatePage rejects documents that cannot be usable search results.
// Checks run in order: bot-check signals in the lower-cased document prefix,
// block/error signals in the prefix or the page title, then the minimum
// document length.
func ValidatePage(html, pageTitle string) error {
	preview := html
	if len(preview) > guardPreviewBytes {
		preview = preview[:guardPreviewBytes]
	}
	preview = strings.ToLower(preview)
	title := strings.ToLower(pageTitle)

	for _, signal := range botCheckSignals {
		if strings.Contains(preview, signal) {
			return ErrBotCheck
		}
	}

	for _, signal := range blockerSignals {
		if strings.Contains(preview, signal) || strings.Contains(title, signal) {
			return ErrBlockedPage
		}
	}

	if len(html) < minResultsPageBytes {
		return ErrShortResponse
	}

	return nil
}
