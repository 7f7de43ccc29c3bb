package geojsonsrc_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/paulmach/orb"

	"github.com/samirrijal/stacmap/internal/adapters/geojsonsrc"
	"github.com/samirrijal/stacmap/internal/core/domain"
)

const craterFC = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"geometry": {"type": "Point", "coordinates": [-111.022, 35.027]},
			"properties": {"name": "Barringer", "diameter_km": 1.18}
		},
		{
			"type": "Feature",
			"geometry": {"type": "Point", "coordinates": [27.36, -27.0]},
			"properties": {"name": "Vredefort", "diameter_km": 160}
		}
	]
}`

const barePolygon = `{
	"type": "Polygon",
	"coordinates": [[[-106, 38], [-104, 38], [-104, 40], [-106, 40], [-106, 38]]]
}`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.geojson")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReader_FeatureCollection(t *testing.T) {
	reader := geojsonsrc.NewReader(nil)

	fc, err := reader.Read(context.Background(), writeTemp(t, craterFC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(fc.Features))
	}
	if v, _ := fc.Features[0].Properties.Get("name"); v.String() != "Barringer" {
		t.Errorf("expected Barringer, got %s", v.String())
	}
	if _, ok := fc.Features[0].Geometry.(orb.Point); !ok {
		t.Errorf("expected Point geometry, got %T", fc.Features[0].Geometry)
	}
}

func TestReader_Idempotent(t *testing.T) {
	reader := geojsonsrc.NewReader(nil)
	path := writeTemp(t, craterFC)

	first, err := reader.Read(context.Background(), path)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	second, err := reader.Read(context.Background(), path)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("two reads of the same input differ")
	}
}

func TestReader_NormalizesBareGeometry(t *testing.T) {
	reader := geojsonsrc.NewReader(nil)

	fc, err := reader.Read(context.Background(), writeTemp(t, barePolygon))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fc.Features) != 1 {
		t.Fatalf("expected bare geometry wrapped into 1 feature, got %d", len(fc.Features))
	}
	if _, ok := fc.Features[0].Geometry.(orb.Polygon); !ok {
		t.Errorf("expected Polygon geometry, got %T", fc.Features[0].Geometry)
	}
}

func TestReader_NormalizesSingleFeature(t *testing.T) {
	reader := geojsonsrc.NewReader(nil)
	single := `{"type": "Feature", "geometry": {"type": "Point", "coordinates": [1, 2]}, "properties": {"name": "x"}}`

	fc, err := reader.Read(context.Background(), writeTemp(t, single))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fc.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(fc.Features))
	}
}

func TestReader_CollectionRoundTrip(t *testing.T) {
	// An already-valid collection passes through structurally unchanged.
	direct, err := geojsonsrc.Parse("inline", []byte(craterFC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reader := geojsonsrc.NewReader(nil)
	viaFile, err := reader.Read(context.Background(), writeTemp(t, craterFC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(direct, viaFile) {
		t.Error("collection changed between parse paths")
	}
}

func TestReader_MissingFile(t *testing.T) {
	reader := geojsonsrc.NewReader(nil)

	_, err := reader.Read(context.Background(), filepath.Join(t.TempDir(), "nope.geojson"))
	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestReader_MalformedContent(t *testing.T) {
	reader := geojsonsrc.NewReader(nil)

	for name, content := range map[string]string{
		"not json":         "<html>not geojson</html>",
		"unknown type":     `{"type": "Banana"}`,
		"broken structure": `{"type": "FeatureCollection", "features": [{"type": "Feature", "geometry": 42}]}`,
	} {
		_, err := reader.Read(context.Background(), writeTemp(t, content))
		var parseErr *domain.ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("%s: expected ParseError, got %v", name, err)
		}
	}
}

func TestReader_RemoteURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = w.Write([]byte(craterFC))
	}))
	defer srv.Close()

	reader := geojsonsrc.NewReader(srv.Client())
	fc, err := reader.Read(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fc.Features) != 2 {
		t.Errorf("expected 2 features, got %d", len(fc.Features))
	}
}

func TestReader_RemoteNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	reader := geojsonsrc.NewReader(srv.Client())
	_, err := reader.Read(context.Background(), srv.URL)

	var retrieval *domain.RetrievalError
	if !errors.As(err, &retrieval) {
		t.Fatalf("expected RetrievalError, got %v", err)
	}
	if retrieval.Status != http.StatusNotFound {
		t.Errorf("expected status 404 in error, got %d", retrieval.Status)
	}
}
