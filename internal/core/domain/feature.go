package domain

import (
	"math/rand"

	"github.com/paulmach/orb"
)

// Feature is a geographic geometry plus its property bag.
type Feature struct {
	Geometry   orb.Geometry
	Properties *PropertyMap
}

// Clone returns a copy of the feature with an independent property bag.
// The geometry is shared; nothing in this package mutates geometries.
func (f Feature) Clone() Feature {
	return Feature{Geometry: f.Geometry, Properties: f.Properties.Clone()}
}

// FeatureCollection is an ordered sequence of features.
type FeatureCollection struct {
	Features []Feature
}

// Random picks one feature using the supplied source.
// Returns false when the collection is empty.
func (fc FeatureCollection) Random(rng *rand.Rand) (Feature, bool) {
	if len(fc.Features) == 0 {
		return Feature{}, false
	}
	return fc.Features[rng.Intn(len(fc.Features))], true
}
