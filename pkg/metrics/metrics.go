// Package metrics defines the Prometheus collectors for the analyzer.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// AnalysesTotal counts completed analyses by outcome ("ok" or "invalid_address").
	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_analyses_total",
			Help: "Total wallet analyses by outcome.",
		},
		[]string{"outcome"},
	)

	// ChainFetchFailures counts per-chain summary fetches that yielded no data
	// due to an error, labeled by chain and failure kind ("auth" or "transient").
	ChainFetchFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_chain_fetch_failures_total",
			Help: "Chain summary fetches that failed, by chain and kind.",
		},
		[]string{"chain", "kind"},
	)

	// PriceFallbacks counts price oracle calls that fell back to the static table.
	PriceFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wallet_price_fallbacks_total",
			Help: "Price lookups served from the static fallback table.",
		},
	)

	// AnalyzeDuration observes end-to-end analysis latency in seconds.
	AnalyzeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wallet_analyze_duration_seconds",
			Help:    "End-to-end wallet analysis duration.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)
)

// MustRegisterMetrics registers every collector with the default registry.
// Call once at startup.
func MustRegisterMetrics() {
	prometheus.MustRegister(
		AnalysesTotal,
		ChainFetchFailures,
		PriceFallbacks,
		AnalyzeDuration,
	)
}
