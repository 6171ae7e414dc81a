package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder records provider-chain and cache metrics with Prometheus.
type Recorder struct {
	fetchAttempts *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	fallbacks     *prometheus.CounterVec
	lastPrice     *prometheus.GaugeVec
	fetchDuration *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		fetchAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_fetch_attempts_total",
				Help: "Vendor fetch attempts by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		cacheLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_cache_lookups_total",
				Help: "Series cache lookups by result",
			},
			[]string{"result"},
		),
		fallbacks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_synthetic_fallbacks_total",
				Help: "Requests served by the synthetic generator",
			},
			[]string{"symbol"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockpulse_last_price",
				Help: "Last resolved price for a symbol",
			},
			[]string{"symbol"},
		),
		fetchDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockpulse_fetch_duration_seconds",
				Help:    "Duration of a full symbol resolution in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
	}
}

// RecordFetchAttempt records one vendor attempt and its outcome.
func (r *Recorder) RecordFetchAttempt(provider, outcome string) {
	r.fetchAttempts.WithLabelValues(provider, outcome).Inc()
}

// RecordCacheLookup records a cache hit or miss.
func (r *Recorder) RecordCacheLookup(result string) {
	r.cacheLookups.WithLabelValues(result).Inc()
}

// RecordFallback records a synthetic fallback for a symbol.
func (r *Recorder) RecordFallback(symbol string) {
	r.fallbacks.WithLabelValues(symbol).Inc()
}

// RecordLastPrice records the last resolved price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordFetchDuration records how long a resolution took by winning source.
func (r *Recorder) RecordFetchDuration(source string, seconds float64) {
	r.fetchDuration.WithLabelValues(source).Observe(seconds)
}
