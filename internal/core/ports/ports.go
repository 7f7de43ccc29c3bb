package ports

import (
	"context"

	"github.com/paulmach/orb"

	"github.com/samirrijal/stacmap/internal/core/domain"
)

// Catalog searches an external STAC catalog for imagery scenes.
type Catalog interface {
	// Search returns scenes from the collection that intersect the
	// geometry within the date range and satisfy the property query.
	// An empty result is not an error.
	Search(ctx context.Context, collection string, dates domain.DateRange,
		intersects orb.Geometry, query domain.Query) ([]domain.SceneItem, error)
}

// FeatureSource loads a GeoJSON feature collection from a path or URL.
type FeatureSource interface {
	Read(ctx context.Context, location string) (domain.FeatureCollection, error)
}

// MapRenderer turns a composed map document into a self-contained
// HTML page.
type MapRenderer interface {
	Render(doc *domain.MapDocument) ([]byte, error)
}
