package domain

import "github.com/paulmach/orb"

// TileLayer is a remote raster overlay addressed by a templated
// {z}/{x}/{y} URL.
type TileLayer struct {
	Name        string
	URL         string
	Attribution string
}

// MapDocument is the renderable result of composing a scene with a
// feature: a base map centered on the scene, one tile overlay, and one
// marker layer with a metadata popup.
type MapDocument struct {
	// Center is the scene geometry centroid, lon/lat.
	Center orb.Point
	Zoom   int

	Base  TileLayer
	Scene TileLayer

	// Marker carries the annotated feature; PopupFields lists every
	// property key to show in its popup, in display order.
	Marker      FeatureCollection
	PopupFields []string
}
