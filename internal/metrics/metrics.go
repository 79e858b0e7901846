package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "flashcraft",
			Name:      "http_requests_total",
			Help:      "HTTP requests processed, by method and status code.",
		},
		[]string{"method", "status"},
	)

	QuotaDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "flashcraft",
			Name:      "quota_decisions_total",
			Help:      "Quota gate decisions, by scope and outcome.",
		},
		[]string{"scope", "outcome"},
	)

	UpstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "flashcraft",
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of upstream generateContent calls, by model and status code.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"model", "status"},
	)
)

func init() {
	prometheus.MustRegister(RequestsTotal, QuotaDecisions, UpstreamDuration)
}
