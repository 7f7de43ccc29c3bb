// Package stac is a minimal client for the STAC API item-search
// endpoint, enough to drive the windowed scene search.
package stac

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/stacmap/internal/core/domain"
	"github.com/samirrijal/stacmap/internal/pkg/metrics"
)

const defaultLimit = 100

// Client talks to one STAC catalog.
type Client struct {
	searchURL string
	client    *http.Client
	limit     int
}

// NewClient creates a catalog client for the given root URL. A nil
// http client falls back to http.DefaultClient; callers normally pass
// a retrying client so transient transport failures are absorbed there.
func NewClient(catalogURL string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		searchURL: strings.TrimRight(catalogURL, "/") + "/search",
		client:    client,
		limit:     defaultLimit,
	}
}

type searchRequest struct {
	Collections []string          `json:"collections"`
	Datetime    string            `json:"datetime"`
	Intersects  *geojson.Geometry `json:"intersects"`
	Query       domain.Query      `json:"query,omitempty"`
	Limit       int               `json:"limit"`
}

type itemCollection struct {
	Features []item `json:"features"`
}

type item struct {
	ID         string                  `json:"id"`
	Collection string                  `json:"collection"`
	Geometry   *geojson.Geometry       `json:"geometry"`
	Properties map[string]any          `json:"properties"`
	Assets     map[string]domain.Asset `json:"assets"`
	Links      []link                  `json:"links"`
}

type link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

// Search implements ports.Catalog against the POST /search endpoint.
func (c *Client) Search(ctx context.Context, collection string, dates domain.DateRange,
	intersects orb.Geometry, query domain.Query) ([]domain.SceneItem, error) {

	ctx, span := otel.Tracer("stacmap/stac").Start(ctx, "catalog.search")
	defer span.End()
	span.SetAttributes(
		attribute.String("stac.collection", collection),
		attribute.String("stac.datetime", dates.String()),
	)

	body, err := json.Marshal(searchRequest{
		Collections: []string{collection},
		Datetime:    dates.String(),
		Intersects:  geojson.NewGeometry(intersects),
		Query:       query,
		Limit:       c.limit,
	})
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.searchURL, bytes.NewReader(body))
	if err != nil {
		return nil, &domain.RetrievalError{URL: c.searchURL, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/geo+json")

	metrics.CatalogSearches.WithLabelValues(collection).Inc()

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.CatalogSearchErrors.WithLabelValues(collection).Inc()
		return nil, &domain.RetrievalError{URL: c.searchURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.CatalogSearchErrors.WithLabelValues(collection).Inc()
		return nil, &domain.RetrievalError{URL: c.searchURL, Status: resp.StatusCode}
	}

	var items itemCollection
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		metrics.CatalogSearchErrors.WithLabelValues(collection).Inc()
		return nil, fmt.Errorf("decode catalog response from %s: %w", c.searchURL, err)
	}

	scenes := scenesOf(items)
	span.SetAttributes(attribute.Int("stac.matched", len(scenes)))
	return scenes, nil
}

func scenesOf(items itemCollection) []domain.SceneItem {
	out := make([]domain.SceneItem, 0, len(items.Features))
	for _, it := range items.Features {
		scene := domain.SceneItem{
			ID:         it.ID,
			Collection: it.Collection,
			Assets:     it.Assets,
			Properties: domain.PropertiesFromRaw(it.Properties),
		}
		if it.Geometry != nil {
			scene.Geometry = it.Geometry.Geometry()
		}
		for _, l := range it.Links {
			if l.Rel == "self" {
				scene.SelfHref = l.Href
				break
			}
		}
		out = append(out, scene)
	}
	return out
}
