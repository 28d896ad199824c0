package posts

import (
	"log/slog"
	"net/http"
)

// Register registers the feed handlers with the given mux.
func Register(mux *http.ServeMux, loader Loader, logger *slog.Logger) {
	mux.Handle("GET /posts", ListHandler{Loader: loader, Logger: logger})
}
