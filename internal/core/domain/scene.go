package domain

import (
	"fmt"
	"time"

	"github.com/paulmach/orb"
)

// Asset is a named downloadable resource attached to a scene,
// e.g. a cloud-optimized GeoTIFF.
type Asset struct {
	Href  string `json:"href"`
	Type  string `json:"type,omitempty"`
	Title string `json:"title,omitempty"`
}

// SceneItem is one satellite-imagery record returned by a STAC catalog.
type SceneItem struct {
	ID         string
	Collection string
	Geometry   orb.Geometry
	SelfHref   string
	Assets     map[string]Asset
	Properties *PropertyMap
}

// Asset returns the named asset, or a MissingAssetError when the
// catalog schema does not carry that key on this scene.
func (s SceneItem) Asset(key string) (Asset, error) {
	a, ok := s.Assets[key]
	if !ok {
		return Asset{}, &MissingAssetError{ItemID: s.ID, Key: key}
	}
	return a, nil
}

// Datetime parses the scene acquisition timestamp from its properties.
func (s SceneItem) Datetime() (time.Time, error) {
	v, ok := s.Properties.Get("datetime")
	if !ok {
		return time.Time{}, &MissingPropertyError{ItemID: s.ID, Key: "datetime"}
	}
	t, err := time.Parse(time.RFC3339, v.String())
	if err != nil {
		return time.Time{}, fmt.Errorf("scene %s: parse datetime %q: %w", s.ID, v.String(), err)
	}
	return t, nil
}

// DateRange is a calendar-date interval serialized in the STAC search
// form "YYYY-MM-DD/YYYY-MM-DD". Start is End minus the period.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange builds the range ending at end and starting periodDays
// earlier. periodDays must be at least 1.
func NewDateRange(end time.Time, periodDays int) (DateRange, error) {
	if periodDays < 1 {
		return DateRange{}, fmt.Errorf("search period must be >= 1 day, got %d", periodDays)
	}
	return DateRange{
		Start: end.AddDate(0, 0, -periodDays),
		End:   end,
	}, nil
}

// String renders the STAC datetime search string, zero-padded.
func (r DateRange) String() string {
	return r.Start.Format("2006-01-02") + "/" + r.End.Format("2006-01-02")
}

// Bounds is a numeric range filter on one scene property.
// Nil ends are unbounded.
type Bounds struct {
	GTE *float64 `json:"gte,omitempty"`
	LTE *float64 `json:"lte,omitempty"`
}

// Query maps property names to range filters, matching the STAC API
// query extension shape, e.g. {"eo:cloud_cover": {"gte": 0, "lte": 10}}.
type Query map[string]Bounds

// Clone returns an independent copy so retry policies can widen bounds
// without touching the caller's query.
func (q Query) Clone() Query {
	if q == nil {
		return nil
	}
	out := make(Query, len(q))
	for k, b := range q {
		var c Bounds
		if b.GTE != nil {
			v := *b.GTE
			c.GTE = &v
		}
		if b.LTE != nil {
			v := *b.LTE
			c.LTE = &v
		}
		out[k] = c
	}
	return out
}
