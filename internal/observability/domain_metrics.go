package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	chatRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyser_chat_requests_total",
			Help: "Total number of chat requests by outcome.",
		},
		[]string{"outcome"},
	)
	classifierFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "analyser_classifier_fallbacks_total",
			Help: "Total number of classifications served by the deterministic fallback tier.",
		},
	)
	queryDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analyser_query_duration_seconds",
			Help:    "Warehouse query execution latency in seconds.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)
	forecastsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyser_forecasts_total",
			Help: "Total number of forecast attempts by outcome.",
		},
		[]string{"outcome"},
	)
	exportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyser_exports_total",
			Help: "Total number of result-set exports by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		chatRequestsTotal,
		classifierFallbacksTotal,
		queryDurationSeconds,
		forecastsTotal,
		exportsTotal,
	)
}

func ObserveChatRequest(outcome string) {
	chatRequestsTotal.WithLabelValues(outcome).Inc()
}

func IncrementClassifierFallback() {
	classifierFallbacksTotal.Inc()
}

func ObserveQueryDuration(elapsed time.Duration) {
	queryDurationSeconds.Observe(elapsed.Seconds())
}

func ObserveForecast(outcome string) {
	forecastsTotal.WithLabelValues(outcome).Inc()
}

func ObserveExport(outcome string) {
	exportsTotal.WithLabelValues(outcome).Inc()
}
