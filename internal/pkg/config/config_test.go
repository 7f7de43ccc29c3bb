package config

import (
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("stacmap-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Catalog.URL != "https://earth-search.aws.element84.com/v1" {
		t.Errorf("unexpected default catalog URL: %s", cfg.Catalog.URL)
	}
	if cfg.Catalog.Collection != "sentinel-2-l2a" {
		t.Errorf("unexpected default collection: %s", cfg.Catalog.Collection)
	}

	wantKeys := []string{"s2:nodata_pixel_percentage", "eo:cloud_cover"}
	if !reflect.DeepEqual(cfg.Search.QueryKeys, wantKeys) {
		t.Errorf("default query keys = %v, want %v", cfg.Search.QueryKeys, wantKeys)
	}
	if !reflect.DeepEqual(cfg.Search.SortOn, wantKeys) {
		t.Errorf("default sort keys = %v, want %v", cfg.Search.SortOn, wantKeys)
	}
}

func TestDefaultQueryBoundsEveryKey(t *testing.T) {
	s := SearchConfig{
		QueryKeys: []string{"s2:nodata_pixel_percentage", "eo:cloud_cover"},
		QueryMin:  0,
		QueryMax:  10,
	}

	q := s.DefaultQuery()
	if len(q) != 2 {
		t.Fatalf("expected 2 query entries, got %d", len(q))
	}
	for _, k := range s.QueryKeys {
		b, ok := q[k]
		if !ok {
			t.Fatalf("query missing key %s", k)
		}
		if b.GTE == nil || *b.GTE != 0 || b.LTE == nil || *b.LTE != 10 {
			t.Errorf("key %s bounds = [%v, %v], want [0, 10]", k, b.GTE, b.LTE)
		}
	}

	// Bounds must be independent so widening one key cannot leak into
	// another.
	*q["eo:cloud_cover"].LTE += 5
	if *q["s2:nodata_pixel_percentage"].LTE != 10 {
		t.Error("widening one key's bound mutated another")
	}
}

func TestValidateRejectsInvertedBounds(t *testing.T) {
	cfg, err := Load("stacmap-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg.Search.QueryMin = 50
	cfg.Search.QueryMax = 10

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for inverted query bounds")
	}
}
