// Package geojsonsrc loads GeoJSON feature collections from local files
// or HTTP(S) URLs and normalizes bare geometries and single features
// into one-element collections.
package geojsonsrc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/stacmap/internal/core/domain"
)

// Reader implements ports.FeatureSource.
type Reader struct {
	client *http.Client
}

// NewReader creates a Reader. A nil client falls back to
// http.DefaultClient; callers normally pass a retrying client.
func NewReader(client *http.Client) *Reader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Reader{client: client}
}

// Read loads and parses the GeoJSON document at location, which is
// either an HTTP(S) URL or a local file path.
func (r *Reader) Read(ctx context.Context, location string) (domain.FeatureCollection, error) {
	var (
		data []byte
		err  error
	)
	if isRemote(location) {
		data, err = r.fetch(ctx, location)
	} else {
		data, err = readFile(location)
	}
	if err != nil {
		return domain.FeatureCollection{}, err
	}
	return Parse(location, data)
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") ||
		strings.HasPrefix(location, "https://") ||
		strings.HasPrefix(location, "www.")
}

func (r *Reader) fetch(ctx context.Context, location string) ([]byte, error) {
	url := location
	if strings.HasPrefix(url, "www.") {
		url = "https://" + url
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &domain.RetrievalError{URL: url, Err: err}
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &domain.RetrievalError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.RetrievalError{URL: url, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.RetrievalError{URL: url, Err: err}
	}
	return data, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &domain.NotFoundError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// Parse decodes a GeoJSON document. A single Feature or bare Geometry
// is wrapped into a one-element collection so downstream code can
// always assume a collection.
func Parse(source string, data []byte) (domain.FeatureCollection, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return domain.FeatureCollection{}, &domain.ParseError{Source: source, Err: err}
	}

	switch probe.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return domain.FeatureCollection{}, &domain.ParseError{Source: source, Err: err}
		}
		out := domain.FeatureCollection{Features: make([]domain.Feature, 0, len(fc.Features))}
		for _, f := range fc.Features {
			out.Features = append(out.Features, toDomain(f))
		}
		return out, nil

	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return domain.FeatureCollection{}, &domain.ParseError{Source: source, Err: err}
		}
		return domain.FeatureCollection{Features: []domain.Feature{toDomain(f)}}, nil

	case "Point", "MultiPoint", "LineString", "MultiLineString",
		"Polygon", "MultiPolygon", "GeometryCollection":
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return domain.FeatureCollection{}, &domain.ParseError{Source: source, Err: err}
		}
		return domain.FeatureCollection{Features: []domain.Feature{{
			Geometry:   g.Geometry(),
			Properties: domain.NewPropertyMap(),
		}}}, nil

	default:
		return domain.FeatureCollection{}, &domain.ParseError{
			Source: source,
			Err:    fmt.Errorf("unrecognized GeoJSON type %q", probe.Type),
		}
	}
}

func toDomain(f *geojson.Feature) domain.Feature {
	return domain.Feature{
		Geometry:   f.Geometry,
		Properties: domain.PropertiesFromRaw(f.Properties),
	}
}
