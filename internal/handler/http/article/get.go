// Package article provides the HTTP handler for resolving a single article
// by slug or numeric id.
package article

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/3weTN/latest-news/internal/handler/http/requestid"
	"github.com/3weTN/latest-news/internal/handler/http/respond"
	"github.com/3weTN/latest-news/internal/observability/logging"
	"github.com/3weTN/latest-news/internal/usecase/resolve"
)

// Resolver maps a slug or numeric id to an article.
type Resolver interface {
	ResolveArticle(ctx context.Context, slug string) resolve.Result
}

// GetHandler serves GET /articles/{slug}.
type GetHandler struct {
	Resolver Resolver
	Logger   *slog.Logger
}

// ServeHTTP resolves the slug and returns the article together with every
// detail URL that was attempted. A miss is a 404 carrying the same shape
// with a null article, so callers can render diagnostics.
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	reqID := requestid.FromContext(ctx)
	logger := logging.WithRequestID(ctx, h.Logger)

	slug := r.PathValue("slug")
	if slug == "" {
		respond.SafeError(w, http.StatusBadRequest, fmt.Errorf("invalid article slug"))
		return
	}

	result := h.Resolver.ResolveArticle(ctx, slug)

	logger.Info("article resolution",
		"slug", slug,
		"found", result.Article != nil,
		"attempted_urls", len(result.AttemptedURLs),
		"duration_ms", time.Since(startTime).Milliseconds(),
		"request_id", reqID)

	response := DTO{
		Article:       result.Article,
		AttemptedURLs: result.AttemptedURLs,
	}
	if result.Article == nil {
		respond.JSON(w, http.StatusNotFound, response)
		return
	}
	respond.JSON(w, http.StatusOK, response)
}
