// Command smoke checks the search pipeline end to end: offline invariants
// always, plus one real proxied fetch when -live is set.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/brightdev/amazon-search-api/internal/agent"
	"github.com/brightdev/amazon-search-api/internal/brightdata"
	"github.com/brightdev/amazon-search-api/internal/config"
	"github.com/brightdev/amazon-search-api/internal/models"
	"github.com/brightdev/amazon-search-api/internal/normalize"
	"github.com/brightdev/amazon-search-api/internal/parser"
)

func main() {
	live := flag.Bool("live", false, "run the live fetch check against Bright Data")
	query := flag.String("query", "smartphone", "query for the live fetch check")
	flag.Parse()

	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("Running smoke tests...")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println()

	failed := false
	run := func(name string, check func() error) {
		if err := check(); err != nil {
			fmt.Printf("✗ %s: %v\n", name, err)
			failed = true
			return
		}
		fmt.Printf("✓ %s\n", name)
	}

	run("price parsing", checkPriceParsing)
	run("record normalization", checkNormalization)
	run("summary generation", checkSummary)
	if *live {
		run("live fetch", func() error { return checkLiveFetch(*query) })
	}

	fmt.Println()
	if failed {
		fmt.Println("Smoke tests failed ✗")
		os.Exit(1)
	}
	fmt.Println("All smoke tests passed! ✓")
}

func checkPriceParsing() error {
	cases := []struct {
		raw      string
		price    float64
		currency string
	}{
		{"$99.99", 99.99, "USD"},
		{"€89.50", 89.50, "EUR"},
	}
	for _, c := range cases {
		price, currency := normalize.ParsePrice(c.raw)
		if price == nil || *price != c.price {
			return fmt.Errorf("price for %q did not parse to %v", c.raw, c.price)
		}
		if currency == nil || *currency != c.currency {
			return fmt.Errorf("currency for %q did not parse to %q", c.raw, c.currency)
		}
	}
	if price, currency := normalize.ParsePrice(""); price != nil || currency != nil {
		return errors.New("empty input should parse to nil, nil")
	}
	return nil
}

func checkNormalization() error {
	product := normalize.FromRecord(map[string]any{
		"title":   "Test Product",
		"price":   "$99.99",
		"rating":  4.5,
		"reviews": 1234,
		"url":     "https://www.amazon.com/dp/TEST123",
		"image":   "https://example.com/image.jpg",
	})
	if product.Source != models.SourceBrightData {
		return fmt.Errorf("source is %q, want %q", product.Source, models.SourceBrightData)
	}
	if product.Price == nil || *product.Price != 99.99 {
		return errors.New("price did not normalize")
	}
	if product.Currency == nil || *product.Currency != "USD" {
		return errors.New("currency did not normalize")
	}
	if product.Rating == nil || *product.Rating != 4.5 {
		return errors.New("rating did not normalize")
	}
	if product.ReviewsCount == nil || *product.ReviewsCount != 1234 {
		return errors.New("reviews count did not normalize")
	}
	return nil
}

func checkSummary() error {
	empty := agent.Summarize("headphones", nil)
	if !strings.Contains(empty, "headphones") {
		return errors.New("empty-result summary should mention the query")
	}

	price := 99.99
	currency := "USD"
	rating := 4.5
	reviews := 100
	summary := agent.Summarize("headphones", []models.Product{{
		Title:        "Test Product",
		Price:        &price,
		Currency:     &currency,
		Rating:       &rating,
		ReviewsCount: &reviews,
		URL:          "https://example.com",
		Source:       models.SourceBrightData,
	}})
	if !strings.Contains(summary, "Price range") || !strings.Contains(summary, "Average rating") {
		return fmt.Errorf("summary missing expected sections: %s", summary)
	}
	return nil
}

// checkLiveFetch runs the real pipeline. Missing credentials count as a pass,
// since the client is expected to reject the call cleanly.
func checkLiveFetch(query string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	client := brightdata.NewClient(brightdata.Config{
		Username:   cfg.BrightDataUsername,
		Password:   cfg.BrightDataPassword,
		ProxyHost:  cfg.BrightDataProxyHost,
		ProxyPort:  cfg.BrightDataProxyPort,
		CACertPath: cfg.BrightDataCACertPath,
		Timeout:    cfg.FetchTimeout,
	}, parser.NewSearchParser(), logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout+10*time.Second)
	defer cancel()

	result, err := client.Search(ctx, query, 3)
	if brightdata.IsConfigError(err) {
		fmt.Printf("  credentials not configured, fetch skipped: %v\n", err)
		return nil
	}
	if err != nil {
		return err
	}

	normalized := normalize.FromRaw(result.Products, 3)
	summary := agent.Summarize(query, normalized.Items)
	fmt.Printf("  found %d product(s) for %q\n", normalized.Count, query)
	fmt.Printf("  summary: %.100s\n", summary)
	return nil
}
