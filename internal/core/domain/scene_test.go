package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/samirrijal/stacmap/internal/core/domain"
)

func TestNewDateRange_Format(t *testing.T) {
	end := time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC)

	r, err := domain.NewDateRange(end, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := r.String(); got != "2023-01-01/2023-01-31" {
		t.Errorf("expected 2023-01-01/2023-01-31, got %s", got)
	}
}

func TestNewDateRange_ZeroPadding(t *testing.T) {
	end := time.Date(2022, 3, 5, 0, 0, 0, 0, time.UTC)

	r, err := domain.NewDateRange(end, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := r.String(); got != "2022-03-04/2022-03-05" {
		t.Errorf("expected 2022-03-04/2022-03-05, got %s", got)
	}
}

func TestNewDateRange_RejectsShortPeriod(t *testing.T) {
	end := time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC)

	if _, err := domain.NewDateRange(end, 0); err == nil {
		t.Error("expected error for period 0")
	}
	if _, err := domain.NewDateRange(end, -7); err == nil {
		t.Error("expected error for negative period")
	}
}

func TestSceneItem_Asset_Missing(t *testing.T) {
	scene := domain.SceneItem{
		ID:     "S2A_TEST",
		Assets: map[string]domain.Asset{"visual": {Href: "https://example/scene.tif"}},
	}

	if _, err := scene.Asset("visual"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := scene.Asset("nonexistent")
	var missing *domain.MissingAssetError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingAssetError, got %v", err)
	}
	if missing.Key != "nonexistent" || missing.ItemID != "S2A_TEST" {
		t.Errorf("error missing context: %+v", missing)
	}
}

func TestPropertyMap_InsertionOrder(t *testing.T) {
	pm := domain.NewPropertyMap()
	pm.Set("name", domain.StringValue("Barringer"))
	pm.Set("diameter_km", domain.NumberValue(1.18))
	pm.Set("confirmed", domain.BoolValue(true))
	pm.Set("name", domain.StringValue("Barringer Crater")) // update, not reorder

	keys := pm.Keys()
	want := []string{"name", "diameter_km", "confirmed"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(keys))
	}
	for i, k := range want {
		if keys[i] != k {
			t.Errorf("key %d: expected %s, got %s", i, k, keys[i])
		}
	}

	v, ok := pm.Get("name")
	if !ok || v.String() != "Barringer Crater" {
		t.Errorf("expected updated name, got %v", v)
	}
}

func TestPropertyMap_CloneIsIndependent(t *testing.T) {
	pm := domain.NewPropertyMap()
	pm.Set("eo:cloud_cover", domain.NumberValue(3))

	clone := pm.Clone()
	clone.Set("eo:cloud_cover", domain.NumberValue(99))
	clone.Set("Date", domain.StringValue("2023-01-15"))

	if v, _ := pm.Get("eo:cloud_cover"); v.Num != 3 {
		t.Errorf("original mutated: %v", v)
	}
	if _, ok := pm.Get("Date"); ok {
		t.Error("original gained a key from the clone")
	}
}

func TestPropertiesFromRaw_TaggedKinds(t *testing.T) {
	pm := domain.PropertiesFromRaw(map[string]any{
		"eo:cloud_cover": 12.5,
		"constellation":  "sentinel-2",
		"s2:processed":   true,
	})

	if v, _ := pm.Get("eo:cloud_cover"); v.Kind != domain.KindNumber || v.Num != 12.5 {
		t.Errorf("cloud cover: %+v", v)
	}
	if v, _ := pm.Get("constellation"); v.Kind != domain.KindString || v.Str != "sentinel-2" {
		t.Errorf("constellation: %+v", v)
	}
	if v, _ := pm.Get("s2:processed"); v.Kind != domain.KindBool || !v.Bool {
		t.Errorf("processed: %+v", v)
	}
}

func TestQuery_CloneWidensIndependently(t *testing.T) {
	lo, hi := 0.0, 10.0
	q := domain.Query{"eo:cloud_cover": domain.Bounds{GTE: &lo, LTE: &hi}}

	c := q.Clone()
	*c["eo:cloud_cover"].LTE += 5

	if *q["eo:cloud_cover"].LTE != 10 {
		t.Errorf("original query widened: %v", *q["eo:cloud_cover"].LTE)
	}
	if *c["eo:cloud_cover"].LTE != 15 {
		t.Errorf("clone not widened: %v", *c["eo:cloud_cover"].LTE)
	}
}
