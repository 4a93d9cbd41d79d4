// Package brightdata fetches Amazon search pages through the Bright Data
// Web Unlocker proxy and hands them to the search parser. One call means
// one fetch: no retries, no caching, no shared state between calls.
package brightdata

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/google/uuid"

	"github.com/brightdev/amazon-search-api/internal/models"
	"github.com/brightdev/amazon-search-api/internal/parser"
)

const searchURL = "https://www.amazon.com/s"

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

var titlePattern = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

// Config carries the proxy settings the client needs.
type Config struct {
	Username   string
	Password   string
	ProxyHost  string
	ProxyPort  string
	CACertPath string
	Timeout    time.Duration
}

// Diagnostics captures what the upstream returned, for structured logs and
// the debug response surface.
type Diagnostics struct {
	SearchID         string `json:"search_id"`
	StatusCode       int    `json:"status_code"`
	FinalURL         string `json:"final_url"`
	ContentType      string `json:"content_type"`
	ContentEncoding  string `json:"content_encoding"`
	HTMLLength       int    `json:"html_length"`
	PageTitle        string `json:"page_title"`
	HasSearchResults bool   `json:"has_search_results"`
	HasDataASIN      bool   `json:"has_data_asin"`
}

// Result is one completed fetch: the extracted cards plus diagnostics.
type Result struct {
	Products    []models.RawProduct
	Diagnostics Diagnostics
}

// Client performs proxied Amazon searches.
type Client struct {
	cfg       Config
	parser    parser.Parser
	logger    *slog.Logger
	searchURL string
}

func NewClient(cfg Config, p parser.Parser, logger *slog.Logger) *Client {
	return &Client{
		cfg:       cfg,
		parser:    p,
		logger:    logger.With("component", "brightdata"),
		searchURL: searchURL,
	}
}

// Search fetches one page of results for query and extracts up to limit
// product cards. Validation, the guard, and HTTP failures are all terminal
// for the call; the caller decides how to surface them.
func (c *Client) Search(ctx context.Context, query string, limit int) (*Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if c.cfg.Username == "" || c.cfg.Password == "" {
		return nil, ErrNoCredentials
	}

	httpClient, err := c.newHTTPClient()
	if err != nil {
		return nil, err
	}

	searchID := uuid.New().String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	q := req.URL.Query()
	q.Set("k", query)
	req.URL.RawQuery = q.Encode()

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	req.Header.Set("Connection", "close")

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bright data request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &FetchError{URL: req.URL.String(), StatusCode: resp.StatusCode}
	}

	reader, err := decompressReader(resp)
	if err != nil {
		return nil, fmt.Errorf("decompress response: %w", err)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	html := string(body)
	diag := Diagnostics{
		SearchID:         searchID,
		StatusCode:       resp.StatusCode,
		FinalURL:         resp.Request.URL.String(),
		ContentType:      resp.Header.Get("Content-Type"),
		ContentEncoding:  resp.Header.Get("Content-Encoding"),
		HTMLLength:       len(html),
		PageTitle:        extractHTMLTitle(html),
		HasSearchResults: strings.Contains(html, `data-component-type="s-search-result"`),
		HasDataASIN:      strings.Contains(html, `data-asin="`),
	}

	c.logger.Info("amazon fetch complete",
		"search_id", searchID,
		"query", query,
		"status", diag.StatusCode,
		"final_url", diag.FinalURL,
		"content_type", diag.ContentType,
		"html_length", diag.HTMLLength,
		"title", diag.PageTitle,
		"duration", time.Since(start),
	)

	products, err := c.parser.ExtractSearchResults(html, limit)
	if err != nil {
		return nil, err
	}

	c.logger.Info("products extracted", "search_id", searchID, "count", len(products))

	return &Result{Products: products, Diagnostics: diag}, nil
}

// newHTTPClient builds a proxy-routed client for a single fetch. Building
// per call keeps certificate problems request-scoped: an unconfigured
// service still boots and answers with configuration errors.
func (c *Client) newHTTPClient() (*http.Client, error) {
	caCert, err := os.ReadFile(c.cfg.CACertPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCACertUnavailable, c.cfg.CACertPath)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("%w: no valid pem data in %s", ErrCACertUnavailable, c.cfg.CACertPath)
	}

	proxyURL := &url.URL{
		Scheme: "http",
		User:   url.UserPassword(c.cfg.Username, c.cfg.Password),
		Host:   net.JoinHostPort(c.cfg.ProxyHost, c.cfg.ProxyPort),
	}

	transport := &http.Transport{
		Proxy: http.ProxyURL(proxyURL),
		TLSClientConfig: &tls.Config{
			RootCAs: pool,
		},
		// The body is decompressed manually so brotli can be accepted.
		DisableCompression: true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   c.cfg.Timeout,
	}, nil
}

func decompressReader(resp *http.Response) (io.Reader, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		return gzip.NewReader(resp.Body)
	case "deflate":
		return flate.NewReader(resp.Body), nil
	case "br":
		return brotli.NewReader(resp.Body), nil
	default:
		return resp.Body, nil
	}
}

// extractHTMLTitle pulls the page title for diagnostics without a full
// document parse.
func extractHTMLTitle(html string) string {
	m := titlePattern.FindStringSubmatch(html)
	if m == nil {
		return ""
	}
	return strings.Join(strings.Fields(m[1]), " ")
}
