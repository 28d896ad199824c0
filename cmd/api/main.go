package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appconfig "github.com/3weTN/latest-news/internal/config"
	"github.com/3weTN/latest-news/internal/domain/entity"
	"github.com/3weTN/latest-news/internal/infra/adapter"
	"github.com/3weTN/latest-news/internal/infra/ogimage"
	"github.com/3weTN/latest-news/internal/observability/logging"
	"github.com/3weTN/latest-news/internal/observability/tracing"
	"github.com/3weTN/latest-news/internal/usecase/feed"
	"github.com/3weTN/latest-news/internal/usecase/resolve"
	"github.com/3weTN/latest-news/pkg/config"

	hhttp "github.com/3weTN/latest-news/internal/handler/http"
	harticle "github.com/3weTN/latest-news/internal/handler/http/article"
	hposts "github.com/3weTN/latest-news/internal/handler/http/posts"
	"github.com/3weTN/latest-news/internal/handler/http/requestid"
	hsource "github.com/3weTN/latest-news/internal/handler/http/source"
)

func main() {
	logger := initLogger()

	shutdownTracing := tracing.Setup()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Error("failed to shut down tracer provider", slog.Any("error", err))
		}
	}()

	catalog := loadCatalog(logger)
	version := getVersion()

	handler := setupServer(logger, catalog, version)
	runServer(logger, handler, version)
}

// initLogger initializes and returns a structured logger based on environment configuration.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// loadCatalog loads the source catalog, preferring the SOURCES_FILE override
// when set. A broken override aborts startup rather than serving a partial
// catalog.
func loadCatalog(logger *slog.Logger) []entity.NewsSource {
	path := os.Getenv("SOURCES_FILE")
	catalog, err := appconfig.LoadCatalog(path)
	if err != nil {
		logger.Error("failed to load source catalog",
			slog.String("path", path),
			slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("source catalog loaded",
		slog.Int("sources", len(catalog)),
		slog.Bool("from_file", path != ""))
	return catalog
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// setupServer wires the aggregation and resolution stack and returns the
// HTTP handler with all routes and middleware applied.
func setupServer(logger *slog.Logger, catalog []entity.NewsSource, version string) http.Handler {
	client := &http.Client{
		Timeout: config.GetEnvDuration("UPSTREAM_TIMEOUT", 15*time.Second),
	}

	var images adapter.ImageResolver = ogimage.Noop{}
	if config.GetEnvBool("OG_IMAGE_ENABLED", true) {
		images = ogimage.New(client,
			float64(config.GetEnvInt("OG_IMAGE_RPS", 2)),
			config.GetEnvInt("OG_IMAGE_BURST", 1))
	}

	adapters := adapter.NewFactory(client, images).CreateAdapters()
	feedSvc := feed.NewService(catalog, adapters, logger)
	gate := feed.NewGate(feedSvc, config.GetEnvDuration("CACHE_WINDOW", feed.DefaultRevalidateWindow))
	resolver := resolve.NewService(catalog, gate, adapter.NewDetailClient(client), logger)

	mux := http.NewServeMux()
	hposts.Register(mux, gate, logger)
	harticle.Register(mux, resolver, logger)
	hsource.Register(mux, catalog)
	mux.Handle("GET /health", &hhttp.HealthHandler{Catalog: catalog, Version: version})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{Catalog: catalog})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	return applyMiddleware(logger, mux)
}

// applyMiddleware wraps the handler with the middleware chain.
// Order: Request ID → Tracing → Recovery → Logging → Metrics → Rate Limit → Timeout.
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	rateLimiter := hhttp.NewRateLimiter(
		config.GetEnvInt("RATE_LIMIT", 120),
		config.GetEnvDuration("RATE_WINDOW", time.Minute),
	)

	// Applied in reverse order (innermost to outermost).
	chain := handler
	chain = hhttp.Timeout(config.GetEnvDuration("REQUEST_TIMEOUT", 30*time.Second))(chain)
	chain = rateLimiter.Limit(chain)
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = tracing.Middleware(chain)
	chain = requestid.Middleware(chain)

	return chain
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, handler http.Handler, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := config.GetEnvString("ADDR", ":8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
