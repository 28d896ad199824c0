package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Ingestion metrics track per-source fetch behavior
var (
	// SourceFetchDuration measures upstream fetch duration per source
	SourceFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "source_fetch_duration_seconds",
			Help:    "Upstream source fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	// SourceFetchErrors counts upstream fetch failures by source and reason
	SourceFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_fetch_errors_total",
			Help: "Total number of upstream source fetch failures",
		},
		[]string{"source", "reason"},
	)

	// ArticlesFetchedTotal counts normalized articles produced per source
	ArticlesFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_fetched_total",
			Help: "Total number of articles fetched and normalized per source",
		},
		[]string{"source"},
	)

	// ArticlesDroppedTotal counts feed items rejected during mapping
	ArticlesDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_dropped_total",
			Help: "Total number of feed items dropped during normalization",
		},
		[]string{"source", "reason"},
	)
)

// Cache gate metrics
var (
	// PostsCacheLookups counts cache gate lookups by outcome (hit/miss)
	PostsCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "posts_cache_lookups_total",
			Help: "Total number of posts cache lookups by outcome",
		},
		[]string{"outcome"},
	)
)

// Resolver metrics
var (
	// ResolverLookups counts article resolutions by path (detail/scan) and outcome
	ResolverLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolver_lookups_total",
			Help: "Total number of article slug resolutions by path and outcome",
		},
		[]string{"path", "outcome"},
	)

	// OGImageFetches counts best-effort Open Graph image lookups by outcome
	OGImageFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "og_image_fetches_total",
			Help: "Total number of Open Graph image lookups by outcome",
		},
		[]string{"outcome"},
	)
)
