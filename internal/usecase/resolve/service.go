// Package resolve provides the article resolution use case: mapping a slug
// or numeric id to a single article, either through the direct per-item
// detail endpoint or by scanning the aggregated article pages.
package resolve

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/3weTN/latest-news/internal/domain/entity"
	"github.com/3weTN/latest-news/internal/observability/metrics"
	"github.com/3weTN/latest-news/internal/observability/tracing"
)

const (
	// maxScanPages caps the paginated fallback scan.
	maxScanPages = 8
	// lookupBatchSize is the number of pages fetched concurrently per scan
	// step. Batches run sequentially so earlier pages take precedence.
	lookupBatchSize = 2
)

// detailLangs are the language variants of the detail endpoint, tried
// concurrently in precedence order.
var detailLangs = []string{"ar", "fr"}

// PostsLoader loads one merged article page; implemented by the feed Gate.
type PostsLoader interface {
	LoadPosts(ctx context.Context, page int, sources []string) ([]entity.Article, error)
}

// DetailFetcher fetches a single article from a source's detail endpoint.
// It returns the URL it attempted regardless of success so callers can
// record every lookup for diagnostics.
type DetailFetcher interface {
	FetchDetail(ctx context.Context, src entity.NewsSource, lang, id string) (*entity.Article, string, error)
}

// Result is the outcome of a resolution attempt. Article is nil on a miss;
// AttemptedURLs lists every detail URL tried, for the caller's "not found"
// diagnostics.
type Result struct {
	Article       *entity.Article
	AttemptedURLs []string
}

// Service resolves slugs and numeric ids to articles.
type Service struct {
	Catalog []entity.NewsSource
	Posts   PostsLoader
	Detail  DetailFetcher
	Logger  *slog.Logger
}

// NewService creates a resolve Service over the given catalog.
func NewService(catalog []entity.NewsSource, posts PostsLoader, detail DetailFetcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{Catalog: catalog, Posts: posts, Detail: detail, Logger: logger}
}

// ResolveArticle maps a slug or numeric id to an article. Purely numeric
// input is first tried against the detail endpoint of the catalog's API
// source across all language variants; on a hit the result returns
// immediately without touching any list page. Otherwise the input is
// URL-decoded and matched against a bounded scan of the aggregated pages.
// A miss yields a nil Article and the attempted URLs, never an error.
func (s *Service) ResolveArticle(ctx context.Context, slug string) Result {
	ctx, span := tracing.GetTracer().Start(ctx, "resolve.article")
	defer span.End()

	result := Result{AttemptedURLs: []string{}}

	if isNumeric(slug) {
		art, urls := s.fetchFromDetail(ctx, slug)
		result.AttemptedURLs = urls
		if art != nil {
			metrics.RecordResolverLookup("detail", true)
			result.Article = art
			return result
		}
		metrics.RecordResolverLookup("detail", false)
	}

	if art := s.scanPages(ctx, slug); art != nil {
		metrics.RecordResolverLookup("scan", true)
		result.Article = art
		return result
	}
	metrics.RecordResolverLookup("scan", false)

	return result
}

// fetchFromDetail races the detail endpoint's language variants for a
// numeric id. Every attempted URL is recorded, success or not, and the
// first successful variant in precedence order wins.
func (s *Service) fetchFromDetail(ctx context.Context, id string) (*entity.Article, []string) {
	src, ok := s.detailSource()
	if !ok || s.Detail == nil {
		return nil, []string{}
	}

	found := make([]*entity.Article, len(detailLangs))
	urls := make([]string, len(detailLangs))
	var mu sync.Mutex

	eg, egCtx := errgroup.WithContext(ctx)
	for i, lang := range detailLangs {
		eg.Go(func() error {
			art, attemptedURL, err := s.Detail.FetchDetail(egCtx, src, lang, id)
			mu.Lock()
			urls[i] = attemptedURL
			mu.Unlock()
			if err != nil {
				s.Logger.Debug("detail lookup failed",
					slog.String("lang", lang),
					slog.String("url", attemptedURL),
					slog.Any("error", err))
				return nil
			}
			found[i] = art
			return nil
		})
	}
	_ = eg.Wait()

	attempted := make([]string, 0, len(urls))
	for _, u := range urls {
		if u != "" {
			attempted = append(attempted, u)
		}
	}
	for _, art := range found {
		if art != nil {
			return art, attempted
		}
	}
	return nil, attempted
}

// detailSource returns the catalog's API source carrying the detail
// endpoint, if any.
func (s *Service) detailSource() (entity.NewsSource, bool) {
	for _, src := range s.Catalog {
		if src.Type == entity.SourceTypeAPI {
			return src, true
		}
	}
	return entity.NewsSource{}, false
}

// scanPages walks the aggregated pages in small concurrent batches looking
// for a slug, alternate-slug, or stringified-id match. Batches run in page
// order so the earliest matching page wins; a page that fails to load is
// skipped.
func (s *Service) scanPages(ctx context.Context, rawSlug string) *entity.Article {
	decoded, err := url.PathUnescape(rawSlug)
	if err != nil {
		decoded = rawSlug
	}

	for start := 1; start <= maxScanPages; start += lookupBatchSize {
		end := start + lookupBatchSize - 1
		if end > maxScanPages {
			end = maxScanPages
		}

		pages := make([][]entity.Article, end-start+1)
		eg, egCtx := errgroup.WithContext(ctx)
		for i := range pages {
			pageNumber := start + i
			eg.Go(func() error {
				articles, err := s.Posts.LoadPosts(egCtx, pageNumber, nil)
				if err != nil {
					s.Logger.Warn("page scan fetch failed",
						slog.Int("page", pageNumber),
						slog.Any("error", err))
					return nil
				}
				pages[i] = articles
				return nil
			})
		}
		_ = eg.Wait()

		for _, articles := range pages {
			for i := range articles {
				if matchesSlug(&articles[i], decoded, rawSlug) {
					return &articles[i]
				}
			}
		}
	}

	return nil
}

// matchesSlug tests one candidate against the decoded and raw lookup keys.
func matchesSlug(candidate *entity.Article, decoded, raw string) bool {
	id := strconv.Itoa(candidate.ID)
	return candidate.Slug == decoded ||
		candidate.TSlug == decoded ||
		id == decoded ||
		id == raw
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
