package stac_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/paulmach/orb"

	"github.com/samirrijal/stacmap/internal/adapters/stac"
	"github.com/samirrijal/stacmap/internal/core/domain"
)

const searchResponse = `{
	"type": "FeatureCollection",
	"features": [
		{
			"id": "S2A_20230115",
			"collection": "sentinel-2-l2a",
			"geometry": {"type": "Polygon", "coordinates": [[[-106, 38], [-104, 38], [-104, 40], [-106, 40], [-106, 38]]]},
			"properties": {"datetime": "2023-01-15T10:30:00Z", "eo:cloud_cover": 3},
			"assets": {"visual": {"href": "https://example/scene.tif", "type": "image/tiff"}},
			"links": [
				{"rel": "collection", "href": "https://catalog.example/collections/sentinel-2-l2a"},
				{"rel": "self", "href": "https://catalog.example/items/S2A_20230115"}
			]
		}
	]
}`

func testRange(t *testing.T) domain.DateRange {
	t.Helper()
	r, err := domain.NewDateRange(time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC), 30)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestClient_Search(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/search" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = w.Write([]byte(searchResponse))
	}))
	defer srv.Close()

	client := stac.NewClient(srv.URL, srv.Client())
	lo, hi := 0.0, 10.0
	query := domain.Query{"eo:cloud_cover": {GTE: &lo, LTE: &hi}}

	scenes, err := client.Search(context.Background(), "sentinel-2-l2a", testRange(t), orb.Point{-105, 39}, query)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scenes) != 1 {
		t.Fatalf("expected 1 scene, got %d", len(scenes))
	}

	scene := scenes[0]
	if scene.ID != "S2A_20230115" {
		t.Errorf("scene id: %s", scene.ID)
	}
	if scene.SelfHref != "https://catalog.example/items/S2A_20230115" {
		t.Errorf("self link: %s", scene.SelfHref)
	}
	if scene.Assets["visual"].Href != "https://example/scene.tif" {
		t.Errorf("asset href: %+v", scene.Assets)
	}
	if v, _ := scene.Properties.Get("eo:cloud_cover"); v.Num != 3 {
		t.Errorf("cloud cover: %+v", v)
	}
	if _, ok := scene.Geometry.(orb.Polygon); !ok {
		t.Errorf("geometry type: %T", scene.Geometry)
	}

	// Request body carries the search constraints.
	if captured["datetime"] != "2023-01-01/2023-01-31" {
		t.Errorf("request datetime: %v", captured["datetime"])
	}
	q := captured["query"].(map[string]any)["eo:cloud_cover"].(map[string]any)
	if q["gte"] != 0.0 || q["lte"] != 10.0 {
		t.Errorf("request query: %v", q)
	}
	geom := captured["intersects"].(map[string]any)
	if geom["type"] != "Point" {
		t.Errorf("request intersects: %v", geom)
	}
}

func TestClient_EmptyResultIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"type": "FeatureCollection", "features": []}`))
	}))
	defer srv.Close()

	client := stac.NewClient(srv.URL, srv.Client())
	scenes, err := client.Search(context.Background(), "sentinel-2-l2a", testRange(t), orb.Point{-105, 39}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scenes) != 0 {
		t.Errorf("expected no scenes, got %d", len(scenes))
	}
}

func TestClient_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := stac.NewClient(srv.URL, srv.Client())
	_, err := client.Search(context.Background(), "sentinel-2-l2a", testRange(t), orb.Point{-105, 39}, nil)

	var retrieval *domain.RetrievalError
	if !errors.As(err, &retrieval) {
		t.Fatalf("expected RetrievalError, got %v", err)
	}
	if retrieval.Status != http.StatusBadGateway {
		t.Errorf("expected 502 in error, got %d", retrieval.Status)
	}
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := stac.NewClient(srv.URL, nil)
	_, err := client.Search(context.Background(), "sentinel-2-l2a", testRange(t), orb.Point{-105, 39}, nil)

	var retrieval *domain.RetrievalError
	if !errors.As(err, &retrieval) {
		t.Fatalf("expected RetrievalError, got %v", err)
	}
}
