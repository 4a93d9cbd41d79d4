package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/brightdev/amazon-search-api/internal/agent"
	"github.com/brightdev/amazon-search-api/internal/brightdata"
	"github.com/brightdev/amazon-search-api/internal/config"
	"github.com/brightdev/amazon-search-api/internal/models"
	"github.com/brightdev/amazon-search-api/internal/monitoring"
	"github.com/brightdev/amazon-search-api/internal/normalize"
)

// rawPreviewBytes caps the raw payload excerpt returned on debug requests.
const rawPreviewBytes = 1200

// Searcher fetches a results page for a query and extracts its product cards.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) (*brightdata.Result, error)
}

type Handlers struct {
	search  Searcher
	cfg     *config.Config
	logger  *slog.Logger
	metrics *monitoring.Metrics
}

func NewHandlers(search Searcher, cfg *config.Config, logger *slog.Logger, metrics *monitoring.Metrics) *Handlers {
	return &Handlers{
		search:  search,
		cfg:     cfg,
		logger:  logger.With("component", "api"),
		metrics: metrics,
	}
}

// SearchResponse represents a successful search with normalized items
type SearchResponse struct {
	Query       string           `json:"query"`
	Count       int              `json:"count"`
	Items       []models.Product `json:"items"`
	AgentAnswer string           `json:"agent_answer"`
}

// SearchErrorResponse represents a failed search, keeping the item list shape
type SearchErrorResponse struct {
	Error       string           `json:"error"`
	Details     string           `json:"details,omitempty"`
	Query       string           `json:"query"`
	Count       int              `json:"count"`
	Items       []models.Product `json:"items"`
	AgentAnswer string           `json:"agent_answer"`
}

// DebugResponse represents raw extraction diagnostics for debug=1 requests
type DebugResponse struct {
	Query             string   `json:"query"`
	Limit             int      `json:"limit"`
	RawKeys           []string `json:"raw_keys"`
	RawProductsCount  int      `json:"raw_products_count"`
	SampleProductKeys []string `json:"sample_product_keys"`
	RawPreview        string   `json:"raw_preview"`
}

// Search handles GET /search: fetch, extract, normalize, summarize.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		h.respondError(w, http.StatusBadRequest, "Missing required parameter: q")
		return
	}

	limit := h.searchLimit(r.URL.Query().Get("limit"))
	debug := r.URL.Query().Get("debug") == "1"

	h.metrics.IncSearchesTotal()

	start := time.Now()
	result, err := h.search.Search(r.Context(), query, limit)
	h.metrics.ObserveFetchDuration(time.Since(start))
	if err != nil {
		h.respondSearchError(w, query, err)
		return
	}
	h.metrics.AddProductsExtracted(len(result.Products))

	if debug {
		h.respondJSON(w, http.StatusOK, debugPayload(query, limit, result.Products))
		return
	}

	h.respondJSON(w, http.StatusOK, h.buildResponse(query, result.Products, limit))
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "amazon-search-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// searchLimit parses the limit parameter. Non-numeric values fall back to the
// configured default; the result is clamped into [1, MaxSearchLimit].
func (h *Handlers) searchLimit(raw string) int {
	limit := h.cfg.DefaultSearchLimit
	if raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	if limit > h.cfg.MaxSearchLimit {
		limit = h.cfg.MaxSearchLimit
	}
	if limit < 1 {
		limit = 1
	}
	return limit
}

// buildResponse normalizes the extracted cards and renders the summary. A
// panic in either stage degrades the response to what was assembled so far
// instead of failing the request.
func (h *Handlers) buildResponse(query string, products []models.RawProduct, limit int) (resp SearchResponse) {
	resp = SearchResponse{Query: query, Items: make([]models.Product, 0)}
	defer func() {
		if v := recover(); v != nil {
			h.logger.Error("response assembly panicked", "error", v, "query", query)
			resp.AgentAnswer = fmt.Sprintf("Found %d product(s) for '%s'.", resp.Count, query)
		}
	}()

	normalized := normalize.FromRaw(products, limit)
	resp.Count = normalized.Count
	resp.Items = normalized.Items
	resp.AgentAnswer = agent.Summarize(query, normalized.Items)
	return resp
}

// respondSearchError maps fetch failures onto the response contract:
// configuration problems are the caller's to fix (400), everything else is an
// upstream failure (502).
func (h *Handlers) respondSearchError(w http.ResponseWriter, query string, err error) {
	if brightdata.IsConfigError(err) {
		h.metrics.IncErrorsTotal("config")
		h.logger.Error("search rejected by configuration", "error", err, "query", query)
		h.respondJSON(w, http.StatusBadRequest, SearchErrorResponse{
			Error:       err.Error(),
			Query:       query,
			Items:       make([]models.Product, 0),
			AgentAnswer: fmt.Sprintf("Configuration error: %s", err),
		})
		return
	}

	h.metrics.IncErrorsTotal("fetch")
	h.logger.Error("bright data fetch failed", "error", err, "query", query)
	h.respondJSON(w, http.StatusBadGateway, SearchErrorResponse{
		Error:       "Bright Data fetch failed",
		Details:     err.Error(),
		Query:       query,
		Items:       make([]models.Product, 0),
		AgentAnswer: fmt.Sprintf("Failed to fetch products: %s", err),
	})
}

// debugPayload exposes the pre-normalization extraction output.
func debugPayload(query string, limit int, products []models.RawProduct) DebugResponse {
	preview, _ := json.Marshal(map[string]any{"products": products})
	if len(preview) > rawPreviewBytes {
		preview = preview[:rawPreviewBytes]
	}

	var sampleKeys []string
	if len(products) > 0 {
		sampleKeys = productKeys(products[0])
	}

	return DebugResponse{
		Query:             query,
		Limit:             limit,
		RawKeys:           []string{"products"},
		RawProductsCount:  len(products),
		SampleProductKeys: sampleKeys,
		RawPreview:        string(preview),
	}
}

// productKeys lists the JSON keys of one raw product in sorted order.
func productKeys(p models.RawProduct) []string {
	encoded, err := json.Marshal(p)
	if err != nil {
		return nil
	}
	fields := map[string]any{}
	if err := json.Unmarshal(encoded, &fields); err != nil {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
