package usecases

import (
	"fmt"

	"github.com/paulmach/orb/planar"

	"github.com/samirrijal/stacmap/internal/core/domain"
)

const (
	// DefaultTilerURL is a public COG tiler endpoint.
	DefaultTilerURL = "https://api.cogeo.xyz/cog/tiles/{z}/{x}/{y}"

	// DefaultBaseTilesURL is the light CARTO basemap.
	DefaultBaseTilesURL = "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}.png"

	defaultBaseAttribution = "&copy; OpenStreetMap contributors &copy; CARTO"
	defaultZoom            = 10
)

// ComposeParams are the inputs to ComposeMap.
type ComposeParams struct {
	Scene    domain.SceneItem
	Feature  domain.Feature
	AssetKey string

	// TilerURL is a templated {z}/{x}/{y} tile endpoint; the scene
	// asset href is appended as a url query parameter. Empty selects
	// DefaultTilerURL.
	TilerURL string
	Zoom     int
}

// ComposeMap builds the renderable map for one scene and one feature.
// The view centers on the scene centroid with the scene asset as a tile
// overlay; the feature becomes a marker whose popup carries its
// properties enriched with the scene date and links.
//
// The caller's feature is not mutated; enrichment happens on a copy.
func ComposeMap(p ComposeParams) (*domain.MapDocument, error) {
	asset, err := p.Scene.Asset(p.AssetKey)
	if err != nil {
		return nil, err
	}

	acquired, err := p.Scene.Datetime()
	if err != nil {
		return nil, err
	}

	tiler := p.TilerURL
	if tiler == "" {
		tiler = DefaultTilerURL
	}
	zoom := p.Zoom
	if zoom <= 0 {
		zoom = defaultZoom
	}

	centroid, _ := planar.CentroidArea(p.Scene.Geometry)

	annotated := p.Feature.Clone()
	if annotated.Properties == nil {
		annotated.Properties = domain.NewPropertyMap()
	}
	annotated.Properties.Set("Date", domain.StringValue(acquired.Format("2006-01-02")))
	annotated.Properties.Set("STAC Item", domain.StringValue(anchor(p.Scene.SelfHref, p.Scene.ID)))
	annotated.Properties.Set("Download", domain.StringValue(anchor(asset.Href, "click here")))

	return &domain.MapDocument{
		Center: centroid,
		Zoom:   zoom,
		Base: domain.TileLayer{
			Name:        "Base",
			URL:         DefaultBaseTilesURL,
			Attribution: defaultBaseAttribution,
		},
		Scene: domain.TileLayer{
			Name:        "COG",
			URL:         fmt.Sprintf("%s?url=%s", tiler, asset.Href),
			Attribution: p.Scene.Collection,
		},
		Marker:      domain.FeatureCollection{Features: []domain.Feature{annotated}},
		PopupFields: annotated.Properties.Keys(),
	}, nil
}

func anchor(href, label string) string {
	return fmt.Sprintf("<a target='_blank' href=%s>%s</a>", href, label)
}
