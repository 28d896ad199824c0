// Package source provides the HTTP handler exposing the source catalog.
package source

import (
	"net/http"

	"github.com/3weTN/latest-news/internal/domain/entity"
	"github.com/3weTN/latest-news/internal/handler/http/respond"
)

// ListHandler serves GET /sources: the configured source catalog.
type ListHandler struct {
	Catalog []entity.NewsSource
}

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	out := make([]DTO, 0, len(h.Catalog))
	for _, src := range h.Catalog {
		out = append(out, DTO{
			ID:            src.ID,
			Name:          src.Name,
			Type:          src.Type,
			FirstPageOnly: src.FirstPageOnly,
			MaxAgeDays:    src.MaxAgeDays,
		})
	}
	respond.JSON(w, http.StatusOK, out)
}
