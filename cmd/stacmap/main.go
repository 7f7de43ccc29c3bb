// Command stacmap renders a satellite-scene map for one random feature
// from a GeoJSON file and writes it as a self-contained HTML page.
//
// Usage:
//
//	stacmap [flags] [geojson_path [output_file]]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/samirrijal/stacmap/internal/adapters/geojsonsrc"
	"github.com/samirrijal/stacmap/internal/adapters/render"
	"github.com/samirrijal/stacmap/internal/adapters/stac"
	"github.com/samirrijal/stacmap/internal/core/domain"
	"github.com/samirrijal/stacmap/internal/core/usecases"
	"github.com/samirrijal/stacmap/internal/pkg/config"
	"github.com/samirrijal/stacmap/internal/pkg/logging"
)

// stringList collects a repeatable flag.
type stringList []string

func (s *stringList) String() string { return fmt.Sprint([]string(*s)) }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	cfg, err := config.Load("stacmap")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	var (
		catalogURL   = flag.String("catalog", cfg.Catalog.URL, "URL to a public STAC catalog")
		collection   = flag.String("collection", cfg.Catalog.Collection, "STAC collection ID to search")
		assetKey     = flag.String("asset-key", cfg.Catalog.AssetKey, "STAC asset key to tile on the map")
		searchPeriod = flag.Int("search-period", cfg.Search.Period, "search period in days")
		queryJSON    = flag.String("query", "", `property-range filter, e.g. {"eo:cloud_cover":{"gte":0,"lte":10}}`)
		tilerURL     = flag.String("tiler", cfg.Map.TilerURL, "templated {z}/{x}/{y} tiler endpoint")
		seed         = flag.Int64("seed", 0, "random seed for feature selection (0 = time-based)")
		logLevel     = flag.String("log-level", "info", "log level: debug, info, warn, error")
		sortOn       stringList
	)
	flag.Var(&sortOn, "sort-on", "scene ranking property, repeatable")
	flag.Parse()

	logging.Setup(*logLevel, "text")

	geojsonPath := cfg.Map.GeoJSON
	outputFile := cfg.Map.Output
	if flag.NArg() > 0 {
		geojsonPath = flag.Arg(0)
	}
	if flag.NArg() > 1 {
		outputFile = flag.Arg(1)
	}

	query := cfg.Search.DefaultQuery()
	if *queryJSON != "" {
		query = domain.Query{}
		if err := json.Unmarshal([]byte(*queryJSON), &query); err != nil {
			log.Fatalf("invalid --query: %v", err)
		}
	}
	if len(sortOn) == 0 {
		sortOn = cfg.Search.SortOn
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpClient := newHTTPClient(cfg)
	renderer, err := render.NewLeaflet()
	if err != nil {
		log.Fatalf("renderer: %v", err)
	}

	mapSvc := usecases.NewMapService(
		geojsonsrc.NewReader(httpClient),
		usecases.NewSceneFinder(stac.NewClient(*catalogURL, httpClient), cfg.Search.MaxIterations),
		renderer,
		*seed,
	)

	html, err := mapSvc.GenerateHTML(ctx, usecases.MapParams{
		GeoJSONLocation: geojsonPath,
		Collection:      *collection,
		AssetKey:        *assetKey,
		SearchPeriod:    *searchPeriod,
		Query:           query,
		SortOn:          sortOn,
		TilerURL:        *tilerURL,
		Zoom:            cfg.Map.Zoom,
	})
	if err != nil {
		fail(err)
	}

	if err := os.WriteFile(outputFile, html, 0o644); err != nil {
		log.Fatalf("write %s: %v", outputFile, err)
	}
	slog.Info("map written", "output", outputFile)
}

// fail reports the error with a hint where one helps, then exits non-zero.
func fail(err error) {
	var noScenes *domain.NoScenesFoundError
	if errors.As(err, &noScenes) {
		fmt.Fprintf(os.Stderr, "stacmap: %v\n", err)
		fmt.Fprintln(os.Stderr, "hint: widen --search-period or loosen the --query cloud-cover bounds")
		os.Exit(2)
	}
	fmt.Fprintf(os.Stderr, "stacmap: %v\n", err)
	os.Exit(1)
}

func newHTTPClient(cfg *config.Config) *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.Catalog.RetryMax
	rc.HTTPClient.Timeout = time.Duration(cfg.Catalog.HTTPTimeout) * time.Second
	rc.Logger = nil
	return rc.StandardClient()
}
