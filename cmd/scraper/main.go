// Command scraper reads the Wikipedia list of confirmed impact craters
// and writes the rows with parseable coordinates as a GeoJSON
// FeatureCollection, ready to feed into stacmap.
package main

import (
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/stacmap/internal/core/domain"
	"github.com/samirrijal/stacmap/internal/pkg/logging"
	"github.com/samirrijal/stacmap/internal/scrape"
)

const craterListURL = "https://en.wikipedia.org/wiki/List_of_impact_craters_on_Earth"

func main() {
	var (
		pageURL  = flag.String("url", craterListURL, "wiki page to scrape")
		match    = flag.String("match", "Coordinates", "header text identifying the tables to keep")
		coordCol = flag.String("coord-column", "coordinates", "slugified name of the coordinate column")
		outFile  = flag.String("out", filepath.Join("data", "craters.geojson"), "output GeoJSON file")
		logLevel = flag.String("log-level", "info", "log level: debug, info, warn, error")
	)
	flag.Parse()

	logging.Setup(*logLevel, "text")

	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.HTTPClient.Timeout = 30 * time.Second
	rc.Logger = nil

	resp, err := rc.StandardClient().Get(*pageURL)
	if err != nil {
		log.Fatalf("fetch %s: %v", *pageURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("fetch %s: status %d", *pageURL, resp.StatusCode)
	}

	tables, err := scrape.ParseTables(resp.Body, *match)
	if err != nil {
		log.Fatalf("parse %s: %v", *pageURL, err)
	}
	if len(tables) == 0 {
		log.Fatalf("no tables matching %q on %s", *match, *pageURL)
	}

	fc, skipped := scrape.Features(tables, *coordCol)
	if skipped > 0 {
		slog.Warn("rows without parseable coordinates skipped", "skipped", skipped)
	}
	if len(fc.Features) == 0 {
		log.Fatal("no features extracted")
	}

	if err := writeGeoJSON(*outFile, fc); err != nil {
		log.Fatalf("write %s: %v", *outFile, err)
	}
	slog.Info("features written", "output", *outFile, "tables", len(tables), "features", len(fc.Features))
}

func writeGeoJSON(path string, fc domain.FeatureCollection) error {
	out := geojson.NewFeatureCollection()
	for _, f := range fc.Features {
		gf := geojson.NewFeature(f.Geometry)
		for _, k := range f.Properties.Keys() {
			v, _ := f.Properties.Get(k)
			gf.Properties[k] = v.String()
		}
		out.Append(gf)
	}

	data, err := out.MarshalJSON()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
