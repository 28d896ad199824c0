package source

import (
	"net/http"

	"github.com/3weTN/latest-news/internal/domain/entity"
)

// Register registers the source catalog handler with the given mux.
func Register(mux *http.ServeMux, catalog []entity.NewsSource) {
	mux.Handle("GET /sources", ListHandler{Catalog: catalog})
}
