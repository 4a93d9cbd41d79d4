package brightdata

import (
	"errors"
	"fmt"
)

// Configuration-kind failures. The API boundary maps these to client-side
// 400s instead of upstream 502s.
var (
	ErrEmptyQuery        = errors.New("query must be a non-empty string")
	ErrNoCredentials     = errors.New("bright data proxy credentials not configured, set BRIGHTDATA_USERNAME and BRIGHTDATA_PASSWORD")
	ErrCACertUnavailable = errors.New("bright data ca certificate not available")
)

// IsConfigError reports whether err stems from local configuration or input
// validation rather than from the upstream fetch itself.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrEmptyQuery) ||
		errors.Is(err, ErrNoCredentials) ||
		errors.Is(err, ErrCACertUnavailable)
}

// FetchError reports a non-success HTTP status from the upstream fetch.
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("upstream fetch returned status %d for %s", e.StatusCode, e.URL)
}
