package metrics

import "time"

// RecordSourceFetch records a completed upstream fetch for a source,
// including the number of normalized articles it produced.
func RecordSourceFetch(sourceID string, duration time.Duration, articles int) {
	SourceFetchDuration.WithLabelValues(sourceID).Observe(duration.Seconds())
	if articles > 0 {
		ArticlesFetchedTotal.WithLabelValues(sourceID).Add(float64(articles))
	}
}

// RecordSourceFetchError records an upstream fetch failure.
// Reason should be a low-cardinality token such as "http_error",
// "parse_failed", or "timeout".
func RecordSourceFetchError(sourceID, reason string) {
	SourceFetchErrors.WithLabelValues(sourceID, reason).Inc()
}

// RecordArticleDropped records a feed item rejected during normalization,
// for example because it lacked a link or title.
func RecordArticleDropped(sourceID, reason string) {
	ArticlesDroppedTotal.WithLabelValues(sourceID, reason).Inc()
}

// RecordCacheLookup records a posts cache gate lookup.
func RecordCacheLookup(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	PostsCacheLookups.WithLabelValues(outcome).Inc()
}

// RecordResolverLookup records an article resolution attempt.
// Path is "detail" for the direct numeric-id endpoint or "scan" for the
// paginated fallback; found reports whether an article was returned.
func RecordResolverLookup(path string, found bool) {
	outcome := "miss"
	if found {
		outcome = "found"
	}
	ResolverLookups.WithLabelValues(path, outcome).Inc()
}

// RecordOGImageFetch records the outcome of a best-effort OG image lookup.
func RecordOGImageFetch(found bool) {
	outcome := "miss"
	if found {
		outcome = "found"
	}
	OGImageFetches.WithLabelValues(outcome).Inc()
}
