package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/paulmach/orb"

	"github.com/samirrijal/stacmap/internal/core/domain"
	"github.com/samirrijal/stacmap/internal/core/ports"
)

const (
	// DefaultMaxIterations bounds the windowed retry loop.
	DefaultMaxIterations = 12

	cloudCoverKey  = "eo:cloud_cover"
	cloudCoverStep = 5
)

// SceneFinder searches a catalog for scenes covering a geometry,
// stepping the search window backward in time until something matches
// or the iteration budget runs out.
type SceneFinder struct {
	catalog       ports.Catalog
	maxIterations int
}

// NewSceneFinder creates a SceneFinder. maxIterations <= 0 selects
// DefaultMaxIterations.
func NewSceneFinder(catalog ports.Catalog, maxIterations int) *SceneFinder {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &SceneFinder{catalog: catalog, maxIterations: maxIterations}
}

// Find searches the collection for scenes intersecting the geometry.
//
// Each empty iteration steps the window back by periodDays and, when the
// query carries an eo:cloud_cover upper bound, loosens it by 5 points.
// The caller's query is never mutated. Catalog transport errors
// propagate immediately; an exhausted budget returns NoScenesFoundError.
func (f *SceneFinder) Find(ctx context.Context, collection string, intersects orb.Geometry,
	end time.Time, periodDays int, query domain.Query) ([]domain.SceneItem, error) {

	if periodDays < 1 {
		return nil, fmt.Errorf("search period must be >= 1 day, got %d", periodDays)
	}

	q := query.Clone()
	searched := make([]string, 0, f.maxIterations)

	for i := 0; i < f.maxIterations; i++ {
		dates, err := domain.NewDateRange(end, periodDays)
		if err != nil {
			return nil, err
		}

		slog.Info("searching catalog",
			"collection", collection,
			"dates", dates.String(),
			"iteration", i+1,
		)

		scenes, err := f.catalog.Search(ctx, collection, dates, intersects, q)
		if err != nil {
			return nil, fmt.Errorf("catalog search %s %s: %w", collection, dates, err)
		}
		if len(scenes) > 0 {
			slog.Info("scenes found", "collection", collection, "dates", dates.String(), "count", len(scenes))
			return scenes, nil
		}

		searched = append(searched, dates.String())
		end = end.AddDate(0, 0, -periodDays)
		q = loosenCloudCover(q)
	}

	return nil, &domain.NoScenesFoundError{Collection: collection, Searched: searched}
}

// loosenCloudCover raises the eo:cloud_cover upper bound by one step.
// Queries without that bound are returned untouched.
func loosenCloudCover(q domain.Query) domain.Query {
	b, ok := q[cloudCoverKey]
	if !ok || b.LTE == nil {
		return q
	}
	out := q.Clone()
	*out[cloudCoverKey].LTE += cloudCoverStep
	return out
}
