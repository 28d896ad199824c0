// The worker periodically walks the aggregation pipeline for the leading
// feed pages. It keeps the shared cache window warm on deployments that run
// it in-process with the API, and doubles as an upstream availability probe:
// every run records per-source fetch latency, article counts, and drop
// reasons through the usual metrics, exported on its own metrics port.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	appconfig "github.com/3weTN/latest-news/internal/config"
	"github.com/3weTN/latest-news/internal/domain/entity"
	"github.com/3weTN/latest-news/internal/infra/adapter"
	"github.com/3weTN/latest-news/internal/infra/ogimage"
	"github.com/3weTN/latest-news/internal/observability/logging"
	"github.com/3weTN/latest-news/internal/usecase/feed"
	"github.com/3weTN/latest-news/pkg/config"
)

func main() {
	logger := initLogger()
	catalog := loadCatalog(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gate := setupGate(logger, catalog)

	var ready atomic.Bool
	startMetricsServer(ctx, logger, &ready)

	startCronWorker(ctx, logger, gate, &ready)
}

// initLogger initializes and returns a structured logger based on environment configuration.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// loadCatalog loads the source catalog, honoring the SOURCES_FILE override.
func loadCatalog(logger *slog.Logger) []entity.NewsSource {
	path := os.Getenv("SOURCES_FILE")
	catalog, err := appconfig.LoadCatalog(path)
	if err != nil {
		logger.Error("failed to load source catalog",
			slog.String("path", path),
			slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("source catalog loaded", slog.Int("sources", len(catalog)))
	return catalog
}

// setupGate wires the aggregation pipeline. Image resolution is off by
// default here: a probe run has no reader, so fetching article pages for
// fallback images would only add load on the upstreams.
func setupGate(logger *slog.Logger, catalog []entity.NewsSource) *feed.Gate {
	client := &http.Client{
		Timeout: config.GetEnvDuration("UPSTREAM_TIMEOUT", 15*time.Second),
	}

	var images adapter.ImageResolver = ogimage.Noop{}
	if config.GetEnvBool("OG_IMAGE_ENABLED", false) {
		images = ogimage.New(client,
			float64(config.GetEnvInt("OG_IMAGE_RPS", 2)),
			config.GetEnvInt("OG_IMAGE_BURST", 1))
	}

	adapters := adapter.NewFactory(client, images).CreateAdapters()
	svc := feed.NewService(catalog, adapters, logger)
	return feed.NewGate(svc, config.GetEnvDuration("CACHE_WINDOW", feed.DefaultRevalidateWindow))
}

// startCronWorker starts the cron scheduler and runs the warm job periodically.
func startCronWorker(ctx context.Context, logger *slog.Logger, gate *feed.Gate, ready *atomic.Bool) {
	timezone := config.GetEnvString("WORKER_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", timezone), slog.Any("error", err))
		loc = time.UTC
	}

	schedule := config.GetEnvString("CRON_SCHEDULE", "@every 1m")
	pages := config.GetEnvInt("WARM_PAGES", 2)
	timeout := config.GetEnvDuration("WARM_TIMEOUT", 2*time.Minute)
	sources := config.GetEnvStringList("WARM_SOURCES", nil)

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(schedule, func() {
		runWarmJob(ctx, logger, gate, pages, sources, timeout)
		ready.Store(true)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()
	logger.Info("worker started",
		slog.String("schedule", schedule),
		slog.String("timezone", timezone),
		slog.Int("warm_pages", pages))

	// First run immediately so metrics and readiness do not wait a full tick.
	runWarmJob(ctx, logger, gate, pages, sources, timeout)
	ready.Store(true)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down worker...")
	<-c.Stop().Done()
	logger.Info("worker stopped")
}

// runWarmJob loads the leading feed pages once, so the cache gate holds a
// fresh entry for each and every source gets probed. A non-nil source list
// restricts the probe to those sources.
func runWarmJob(ctx context.Context, logger *slog.Logger, gate *feed.Gate, pages int, sources []string, timeout time.Duration) {
	start := time.Now()
	jobCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	total := 0
	for page := 1; page <= pages; page++ {
		articles, err := gate.LoadPosts(jobCtx, page, sources)
		if err != nil {
			logger.Error("warm job page failed",
				slog.Int("page", page),
				slog.Any("error", err))
			continue
		}
		total += len(articles)
	}

	logger.Info("warm job completed",
		slog.Int("pages", pages),
		slog.Int("articles", total),
		slog.Duration("duration", time.Since(start)))
}
