package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/3weTN/latest-news/internal/handler/http/responsewriter"
	"github.com/3weTN/latest-news/internal/observability/metrics"
)

// MetricsMiddleware records request count and duration for every request.
// Paths are normalized so per-article URLs do not explode label cardinality.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped := responsewriter.Wrap(w)

		start := time.Now()
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		path := normalizePath(r.URL.Path)
		status := strconv.Itoa(wrapped.StatusCode())
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
	})
}

// MetricsHandler returns the Prometheus scrape endpoint handler.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// normalizePath collapses per-article path segments into a placeholder.
// Example: /articles/src-election-2024 -> /articles/:slug
func normalizePath(path string) string {
	const prefix = "/articles/"
	if strings.HasPrefix(path, prefix) && len(path) > len(prefix) {
		return prefix + ":slug"
	}
	return path
}
