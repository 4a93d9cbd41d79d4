package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	SearchesTotal     *prometheus.CounterVec
	ErrorsTotal       *prometheus.CounterVec
	ProductsExtracted *prometheus.CounterVec
	FetchDuration     prometheus.Histogram
}

// NewMetrics registers the service metrics on reg. The server passes
// prometheus.DefaultRegisterer so promhttp picks them up.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SearchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "search_requests_total",
			Help: "The total number of search requests handled",
		}, nil),
		ErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "search_errors_total",
			Help: "The total number of failed searches",
		}, []string{"type"}), // 'config', 'fetch', 'internal'
		ProductsExtracted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "search_products_extracted_total",
			Help: "The total number of product cards extracted",
		}, nil),
		FetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "search_fetch_duration_seconds",
			Help:    "Upstream fetch latency through the proxy",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncSearchesTotal() {
	m.SearchesTotal.WithLabelValues().Inc()
}

func (m *Metrics) IncErrorsTotal(errorType string) {
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

func (m *Metrics) AddProductsExtracted(n int) {
	m.ProductsExtracted.WithLabelValues().Add(float64(n))
}

func (m *Metrics) ObserveFetchDuration(d time.Duration) {
	m.FetchDuration.Observe(d.Seconds())
}
