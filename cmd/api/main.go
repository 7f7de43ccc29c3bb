package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/samirrijal/stacmap/internal/adapters/geojsonsrc"
	handler "github.com/samirrijal/stacmap/internal/adapters/http"
	"github.com/samirrijal/stacmap/internal/adapters/render"
	"github.com/samirrijal/stacmap/internal/adapters/stac"
	"github.com/samirrijal/stacmap/internal/core/ports"
	"github.com/samirrijal/stacmap/internal/core/usecases"
	"github.com/samirrijal/stacmap/internal/pkg/config"
	"github.com/samirrijal/stacmap/internal/pkg/logging"
	"github.com/samirrijal/stacmap/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("stacmap-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.CollectorAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Outbound HTTP: timeouts and transient retries live here, not in
	// the search loop.
	httpClient := newHTTPClient(cfg)

	catalog := stac.NewClient(cfg.Catalog.URL, httpClient)
	reader := geojsonsrc.NewReader(httpClient)
	renderer, err := render.NewLeaflet()
	if err != nil {
		log.Fatalf("renderer: %v", err)
	}

	mapSvc := usecases.NewMapService(
		reader,
		usecases.NewSceneFinder(catalog, cfg.Search.MaxIterations),
		renderer,
		0,
	).WithCatalogFactory(func(url string) ports.Catalog {
		return stac.NewClient(url, httpClient)
	})

	deps := &handler.Dependencies{
		Maps:  mapSvc,
		Cfg:   cfg,
		Probe: httpClient,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		AppName:      "stacmap API",
	})
	app.Use(recover.New())

	handler.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "catalog", cfg.Catalog.URL)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

func newHTTPClient(cfg *config.Config) *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.Catalog.RetryMax
	rc.HTTPClient.Timeout = time.Duration(cfg.Catalog.HTTPTimeout) * time.Second
	rc.Logger = nil
	return rc.StandardClient()
}
