// Package render turns a composed map document into a self-contained
// Leaflet HTML page.
package render

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/stacmap/internal/core/domain"
)

//go:embed map.html.tmpl
var mapTemplate string

// Leaflet renders MapDocuments with the Leaflet JS library.
type Leaflet struct {
	tmpl *template.Template
}

// NewLeaflet parses the embedded page template.
func NewLeaflet() (*Leaflet, error) {
	tmpl, err := template.New("map").Parse(mapTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse map template: %w", err)
	}
	return &Leaflet{tmpl: tmpl}, nil
}

// layerConfig mirrors what the page script expects.
type layerConfig struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
}

type pageConfig struct {
	// Center is lat/lon, the order Leaflet expects.
	Center      [2]float64                 `json:"center"`
	Zoom        int                        `json:"zoom"`
	Base        layerConfig                `json:"base"`
	Scene       layerConfig                `json:"scene"`
	Marker      *geojson.FeatureCollection `json:"marker"`
	PopupFields []string                   `json:"popupFields"`
}

// Render implements ports.MapRenderer.
func (l *Leaflet) Render(doc *domain.MapDocument) ([]byte, error) {
	cfg := pageConfig{
		Center:      [2]float64{doc.Center.Lat(), doc.Center.Lon()},
		Zoom:        doc.Zoom,
		Base:        layerConfig{Name: doc.Base.Name, URL: doc.Base.URL, Attribution: doc.Base.Attribution},
		Scene:       layerConfig{Name: doc.Scene.Name, URL: doc.Scene.URL, Attribution: doc.Scene.Attribution},
		Marker:      toGeoJSON(doc.Marker),
		PopupFields: doc.PopupFields,
	}

	encoded, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode map config: %w", err)
	}

	var buf bytes.Buffer
	err = l.tmpl.Execute(&buf, struct {
		Title  string
		Config template.JS
	}{
		Title:  "stacmap",
		Config: template.JS(encoded),
	})
	if err != nil {
		return nil, fmt.Errorf("render map: %w", err)
	}
	return buf.Bytes(), nil
}

// toGeoJSON converts the domain collection back to wire GeoJSON.
// Property values are rendered as display strings so popup HTML
// (links) survives the trip.
func toGeoJSON(fc domain.FeatureCollection) *geojson.FeatureCollection {
	out := geojson.NewFeatureCollection()
	for _, f := range fc.Features {
		gf := geojson.NewFeature(f.Geometry)
		for _, k := range f.Properties.Keys() {
			v, _ := f.Properties.Get(k)
			gf.Properties[k] = v.String()
		}
		out.Append(gf)
	}
	return out
}
