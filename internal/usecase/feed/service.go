// Package feed provides the article aggregation use case: fanning out over
// the configured upstream sources for a page, applying per-source freshness
// and pagination policy, and merging the results into a single
// timestamp-ordered list. The Gate type wraps the aggregation with the
// bounded-staleness cache contract.
package feed

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/3weTN/latest-news/internal/domain/entity"
	"github.com/3weTN/latest-news/internal/observability/metrics"
	"github.com/3weTN/latest-news/internal/observability/tracing"
)

// SourceAdapter is the interface a source-type adapter implements to turn
// one upstream source's native format into normalized articles for a page.
type SourceAdapter interface {
	Fetch(ctx context.Context, src entity.NewsSource, page int) ([]entity.Article, error)
}

// Service aggregates articles across the configured sources. The catalog is
// read-only configuration injected at construction; Now is injectable for
// freshness tests.
type Service struct {
	Catalog  []entity.NewsSource
	Adapters map[string]SourceAdapter
	Logger   *slog.Logger
	Now      func() time.Time
}

// NewService creates a feed Service over the given source catalog and
// adapter registry. The registry is keyed by source type discriminant
// (entity.SourceTypeAPI, entity.SourceTypeRSS).
func NewService(catalog []entity.NewsSource, adapters map[string]SourceAdapter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Catalog:  catalog,
		Adapters: adapters,
		Logger:   logger,
		Now:      time.Now,
	}
}

// LoadArticles fetches one merged page of articles from the requested
// sources. A nil requested set means all configured sources.
//
// All active sources are dispatched concurrently; a failing source
// contributes an empty list and never aborts the batch. The merged result is
// sorted by resolved publish timestamp descending, with ties preserving the
// catalog dispatch order. A nil return means "no content": the caller
// cannot distinguish "no sources matched the filter" from "sources matched
// but returned nothing".
func (s *Service) LoadArticles(ctx context.Context, page int, requested map[string]struct{}) ([]entity.Article, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "feed.load_articles")
	defer span.End()

	active := s.activeSources(page, requested)
	if len(active) == 0 {
		return nil, nil
	}

	// Indexed results keep catalog order for stable tie-breaking, whatever
	// the completion order of the fetches.
	groups := make([][]entity.Article, len(active))
	eg, egCtx := errgroup.WithContext(ctx)

	for i, src := range active {
		eg.Go(func() error {
			groups[i] = s.fetchSource(egCtx, src, page)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	combined := make([]entity.Article, 0)
	for _, group := range groups {
		combined = append(combined, group...)
	}
	if len(combined) == 0 {
		return nil, nil
	}

	sortByTimestampDesc(combined)
	return combined, nil
}

// activeSources applies the source filter and the first-page-only rule.
// Filtered-out sources never cause a network call.
func (s *Service) activeSources(page int, requested map[string]struct{}) []entity.NewsSource {
	active := make([]entity.NewsSource, 0, len(s.Catalog))
	for _, src := range s.Catalog {
		if requested != nil {
			if _, ok := requested[src.ID]; !ok {
				continue
			}
		}
		if src.FirstPageOnly && page > 1 {
			continue
		}
		active = append(active, src)
	}
	return active
}

// fetchSource fetches one source through its adapter and applies the
// max-age filter. Failures are logged and yield an empty list.
func (s *Service) fetchSource(ctx context.Context, src entity.NewsSource, page int) []entity.Article {
	adapter, ok := s.Adapters[src.Type]
	if !ok {
		s.Logger.Warn("no adapter registered for source type",
			slog.String("source_id", src.ID),
			slog.String("source_type", src.Type))
		return nil
	}

	start := s.Now()
	articles, err := adapter.Fetch(ctx, src, page)
	if err != nil {
		s.Logger.Warn("failed to fetch source",
			slog.String("source_id", src.ID),
			slog.String("endpoint", src.Endpoint),
			slog.Any("error", err))
		metrics.RecordSourceFetchError(src.ID, "fetch_failed")
		return nil
	}

	articles = s.applyMaxAgeFilter(articles, src)
	metrics.RecordSourceFetch(src.ID, s.Now().Sub(start), len(articles))
	return articles
}

// applyMaxAgeFilter drops items older than the source's max-age window.
// Sources without the flag pass through unfiltered.
func (s *Service) applyMaxAgeFilter(articles []entity.Article, src entity.NewsSource) []entity.Article {
	if src.MaxAgeDays <= 0 {
		return articles
	}

	cutoff := s.Now().Add(-time.Duration(src.MaxAgeDays) * 24 * time.Hour)
	kept := articles[:0]
	for _, art := range articles {
		if !art.Timestamp().Before(cutoff) {
			kept = append(kept, art)
		}
	}
	return kept
}

// sortByTimestampDesc orders articles newest first. The sort is stable so
// articles with equal timestamps keep their source-dispatch order. The
// timestamp is resolved once per article before sorting.
func sortByTimestampDesc(articles []entity.Article) {
	type timed struct {
		article entity.Article
		ts      time.Time
	}
	items := make([]timed, len(articles))
	for i := range articles {
		items[i] = timed{article: articles[i], ts: articles[i].Timestamp()}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ts.After(items[j].ts)
	})
	for i := range items {
		articles[i] = items[i].article
	}
}
