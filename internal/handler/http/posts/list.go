// Package posts provides the HTTP handlers for the merged article feed.
package posts

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/3weTN/latest-news/internal/domain/entity"
	"github.com/3weTN/latest-news/internal/handler/http/requestid"
	"github.com/3weTN/latest-news/internal/handler/http/respond"
	"github.com/3weTN/latest-news/internal/observability/logging"
)

// Loader serves one merged article page; implemented by the feed cache gate.
type Loader interface {
	LoadPosts(ctx context.Context, page int, sources []string) ([]entity.Article, error)
}

// ListHandler serves GET /posts: the aggregated, timestamp-ordered article
// feed across the requested sources.
type ListHandler struct {
	Loader Loader
	Logger *slog.Logger
}

// ServeHTTP handles the feed request. Query parameters:
//
//	page     1-based page number, default 1
//	sources  comma-separated source ids; absent means all sources
//
// The response is the article array, or JSON null when no source matched
// the filter or every matched source came back empty.
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	reqID := requestid.FromContext(ctx)
	logger := logging.WithRequestID(ctx, h.Logger)

	page, err := parsePage(r.URL.Query().Get("page"))
	if err != nil {
		logger.Warn("invalid page parameter",
			"error", err.Error(),
			"request_id", reqID)
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	sources := parseSources(r.URL.Query().Get("sources"))

	articles, err := h.Loader.LoadPosts(ctx, page, sources)
	if err != nil {
		logger.Error("failed to load posts",
			"error", err.Error(),
			"page", page,
			"request_id", reqID)
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	logger.Info("posts served",
		"page", page,
		"sources", sources,
		"count", len(articles),
		"duration_ms", time.Since(startTime).Milliseconds(),
		"request_id", reqID)

	if articles == nil {
		respond.NullJSON(w, http.StatusOK)
		return
	}
	respond.JSON(w, http.StatusOK, articles)
}

// parsePage parses the 1-based page query parameter, defaulting to 1.
func parsePage(raw string) (int, error) {
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("invalid page: must be a positive integer")
	}
	return page, nil
}

// parseSources splits the comma-separated source filter, dropping blanks.
func parseSources(raw string) []string {
	if raw == "" {
		return nil
	}
	var sources []string
	for _, id := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			sources = append(sources, trimmed)
		}
	}
	return sources
}
