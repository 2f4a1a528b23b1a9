package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChatRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zola",
			Subsystem: "gateway",
			Name:      "chat_requests_total",
			Help:      "Chat requests by outcome",
		},
		[]string{"outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "zola",
			Subsystem: "gateway",
			Name:      "upstream_duration_seconds",
			Help:      "Completion backend call latency",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		},
		[]string{"status"},
	)

	RegistryRefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zola",
			Subsystem: "registry",
			Name:      "refreshes_total",
			Help:      "Model registry refresh attempts by result",
		},
		[]string{"result"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zola",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)
)

// Refresh results.
const (
	RefreshOK       = "ok"
	RefreshStale    = "stale"
	RefreshFallback = "fallback"
	RefreshFailed   = "failed"
)
