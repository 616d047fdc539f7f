package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code", "service"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "service"},
	)

	// Business metrics
	HeadlinesFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headlines_fetched_total",
			Help: "Total number of external headlines fetched",
		},
		[]string{"status"},
	)

	ArticlesUpserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "articles_upserted_total",
			Help: "Total number of external articles inserted via upsert",
		},
	)

	LikesApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "likes_applied_total",
			Help: "Total number of like state changes",
		},
		[]string{"action"},
	)

	CommentsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "comments_created_total",
			Help: "Total number of comments created",
		},
	)

	ApplicationInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "application_info",
			Help: "Application information",
		},
		[]string{"service", "version", "environment"},
	)
)

// Initialize metrics with default values
func Init(serviceName, version, environment string) {
	ApplicationInfo.WithLabelValues(serviceName, version, environment).Set(1)
}
