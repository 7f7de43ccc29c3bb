package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/samirrijal/stacmap/internal/core/domain"
	"github.com/samirrijal/stacmap/internal/core/ports"
)

// MapParams are the per-request inputs for one map generation.
type MapParams struct {
	GeoJSONLocation string

	// CatalogURL overrides the default catalog for this request.
	// Requires a catalog factory on the service; empty keeps the default.
	CatalogURL string

	Collection   string
	AssetKey     string
	SearchPeriod int
	Query        domain.Query
	SortOn       []string
	Descending   bool
	TilerURL     string
	Zoom         int
}

// MapService wires the full pipeline: load features, pick one at
// random, find the best scene covering it, compose and render the map.
type MapService struct {
	source     ports.FeatureSource
	finder     *SceneFinder
	newCatalog func(url string) ports.Catalog
	renderer   ports.MapRenderer
	now        func() time.Time

	// mu guards rng; requests run concurrently under the HTTP server
	// and rand.Rand is not safe for concurrent use.
	mu  sync.Mutex
	rng *rand.Rand
}

// NewMapService creates a MapService. seed 0 selects a time-based
// random source.
func NewMapService(source ports.FeatureSource, finder *SceneFinder, renderer ports.MapRenderer, seed int64) *MapService {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &MapService{
		source:   source,
		finder:   finder,
		renderer: renderer,
		rng:      rand.New(rand.NewSource(seed)),
		now:      time.Now,
	}
}

// WithCatalogFactory enables per-request catalog overrides via
// MapParams.CatalogURL.
func (s *MapService) WithCatalogFactory(f func(url string) ports.Catalog) *MapService {
	s.newCatalog = f
	return s
}

// Generate runs the pipeline up to the composed map document.
func (s *MapService) Generate(ctx context.Context, p MapParams) (*domain.MapDocument, error) {
	fc, err := s.source.Read(ctx, p.GeoJSONLocation)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	feature, ok := fc.Random(s.rng)
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("feature collection %s is empty", p.GeoJSONLocation)
	}
	slog.Info("feature selected", "source", p.GeoJSONLocation, "features", len(fc.Features))

	finder := s.finder
	if p.CatalogURL != "" {
		if s.newCatalog == nil {
			return nil, fmt.Errorf("catalog override %s not supported here", p.CatalogURL)
		}
		finder = NewSceneFinder(s.newCatalog(p.CatalogURL), s.finder.maxIterations)
	}

	scenes, err := finder.Find(ctx, p.Collection, feature.Geometry, s.now().UTC(), p.SearchPeriod, p.Query)
	if err != nil {
		return nil, err
	}

	ranked, err := RankScenes(scenes, p.SortOn, p.Descending)
	if err != nil {
		return nil, err
	}
	best := ranked[0]
	slog.Info("scene selected", "scene", best.ID, "collection", best.Collection)

	return ComposeMap(ComposeParams{
		Scene:    best,
		Feature:  feature,
		AssetKey: p.AssetKey,
		TilerURL: p.TilerURL,
		Zoom:     p.Zoom,
	})
}

// GenerateHTML runs the pipeline and renders the final HTML document.
func (s *MapService) GenerateHTML(ctx context.Context, p MapParams) ([]byte, error) {
	doc, err := s.Generate(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.renderer.Render(doc)
}
