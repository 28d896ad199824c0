package article

import (
	"log/slog"
	"net/http"
)

// Register registers the article resolution handler with the given mux.
func Register(mux *http.ServeMux, resolver Resolver, logger *slog.Logger) {
	mux.Handle("GET /articles/{slug}", GetHandler{Resolver: resolver, Logger: logger})
}
