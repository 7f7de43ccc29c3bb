package http

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/stacmap/internal/core/domain"
	"github.com/samirrijal/stacmap/internal/core/usecases"
	"github.com/samirrijal/stacmap/internal/pkg/metrics"
)

// MapHandler generates and returns the scene map as an HTML document.
//
// Query parameters (all optional, defaults from config):
//
//	geojson        feature source path or URL
//	catalog        STAC catalog root URL
//	collection     STAC collection to search
//	asset_key      scene asset to tile
//	search_period  window length in days
//	sort_on        ranking property, repeatable
//	descending     reverse the ranking order
//	query          JSON property-range filter, e.g. {"eo:cloud_cover":{"gte":0,"lte":10}}
func MapHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params, err := mapParamsFromRequest(c, deps)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		start := time.Now()
		html, err := deps.Maps.GenerateHTML(c.UserContext(), params)
		if err != nil {
			metrics.MapGenerationFailures.WithLabelValues(errKind(err)).Inc()
			LoggerFromCtx(c.UserContext()).Error("map generation failed", "error", err)
			return mapDomainError(c, err)
		}

		metrics.MapsRendered.Inc()
		metrics.MapGenerationDuration.Observe(time.Since(start).Seconds())

		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(html)
	}
}

func mapParamsFromRequest(c *fiber.Ctx, deps *Dependencies) (usecases.MapParams, error) {
	cfg := deps.Cfg

	period, err := queryInt(c, "search_period", cfg.Search.Period)
	if err != nil {
		return usecases.MapParams{}, err
	}
	zoom, err := queryInt(c, "zoom", cfg.Map.Zoom)
	if err != nil {
		return usecases.MapParams{}, err
	}

	params := usecases.MapParams{
		GeoJSONLocation: c.Query("geojson", cfg.Map.GeoJSON),
		CatalogURL:      c.Query("catalog"),
		Collection:      c.Query("collection", cfg.Catalog.Collection),
		AssetKey:        c.Query("asset_key", cfg.Catalog.AssetKey),
		SearchPeriod:    period,
		Query:           cfg.Search.DefaultQuery(),
		SortOn:          cfg.Search.SortOn,
		Descending:      c.QueryBool("descending", false),
		TilerURL:        cfg.Map.TilerURL,
		Zoom:            zoom,
	}

	if params.SearchPeriod < 1 {
		return usecases.MapParams{}, fmt.Errorf("search_period must be >= 1, got %d", params.SearchPeriod)
	}

	if raw := c.Query("query"); raw != "" {
		var q domain.Query
		if err := json.Unmarshal([]byte(raw), &q); err != nil {
			return usecases.MapParams{}, fmt.Errorf("query must be a JSON property-range object: %v", err)
		}
		params.Query = q
	}

	if args := c.Context().QueryArgs().PeekMulti("sort_on"); len(args) > 0 {
		sortOn := make([]string, 0, len(args))
		for _, a := range args {
			if len(a) > 0 {
				sortOn = append(sortOn, string(a))
			}
		}
		params.SortOn = sortOn
	}

	return params, nil
}

// queryInt parses an integer query parameter. Unlike fiber's QueryInt
// it rejects unparseable values instead of substituting the default.
func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, raw)
	}
	return n, nil
}
