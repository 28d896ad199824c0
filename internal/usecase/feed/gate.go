package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/3weTN/latest-news/internal/domain/entity"
	"github.com/3weTN/latest-news/internal/observability/metrics"
)

// DefaultRevalidateWindow is the bounded-staleness window for cached pages.
const DefaultRevalidateWindow = 60 * time.Second

// Gate is the memoization layer in front of the aggregator. Entries are
// keyed by (page, normalized source set) and considered fresh for the
// revalidation window; within the window identical requests share the
// stored result without re-invoking the aggregator. Concurrent misses on
// the same key are coalesced into a single computation.
//
// The gate never alters ordering, filtering, or content of what the
// aggregator returns.
type Gate struct {
	svc    *Service
	window time.Duration
	now    func() time.Time

	mu      sync.RWMutex
	entries map[string]gateEntry
	group   singleflight.Group
}

type gateEntry struct {
	articles []entity.Article
	storedAt time.Time
}

// NewGate wraps the service with a cache gate using the given revalidation
// window. A non-positive window falls back to the default.
func NewGate(svc *Service, window time.Duration) *Gate {
	if window <= 0 {
		window = DefaultRevalidateWindow
	}
	return &Gate{
		svc:     svc,
		window:  window,
		now:     time.Now,
		entries: make(map[string]gateEntry),
	}
}

// LoadPosts returns the merged article page for the given source filter,
// serving from cache when the entry is within the revalidation window.
// A nil result means "no content", exactly as the aggregator reports it;
// the empty outcome is cached like any other.
func (g *Gate) LoadPosts(ctx context.Context, page int, sources []string) ([]entity.Article, error) {
	key := fmt.Sprintf("%d|%s", page, NormalizeSourceKey(sources))

	if articles, ok := g.fresh(key); ok {
		metrics.RecordCacheLookup(true)
		return articles, nil
	}
	metrics.RecordCacheLookup(false)

	// The computation is shared between coalesced callers, so it must not
	// die with whichever caller happened to arrive first.
	recomputeCtx := context.WithoutCancel(ctx)

	result, err, _ := g.group.Do(key, func() (any, error) {
		// A coalesced caller may have refreshed the entry while this one
		// was waiting on the flight lock.
		if articles, ok := g.fresh(key); ok {
			return articles, nil
		}

		articles, err := g.svc.LoadArticles(recomputeCtx, page, ParseSourceKey(NormalizeSourceKey(sources)))
		if err != nil {
			return nil, err
		}

		g.mu.Lock()
		g.entries[key] = gateEntry{articles: articles, storedAt: g.now()}
		g.mu.Unlock()
		return articles, nil
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	return result.([]entity.Article), nil
}

// fresh returns the cached entry for key if it is inside the window.
func (g *Gate) fresh(key string) ([]entity.Article, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	entry, ok := g.entries[key]
	if !ok || g.now().Sub(entry.storedAt) >= g.window {
		return nil, false
	}
	return entry.articles, true
}
