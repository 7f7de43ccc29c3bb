package usecases

import (
	"sort"

	"github.com/samirrijal/stacmap/internal/core/domain"
)

// RankScenes orders scenes ascending by the tuple of the named numeric
// properties, first key most significant. Ties keep their catalog
// order. With no sort keys the catalog order is returned as-is.
// A scene lacking a requested key (or carrying a non-numeric value)
// yields MissingPropertyError.
func RankScenes(scenes []domain.SceneItem, sortOn []string, descending bool) ([]domain.SceneItem, error) {
	if len(sortOn) == 0 {
		out := make([]domain.SceneItem, len(scenes))
		copy(out, scenes)
		return out, nil
	}

	type ranked struct {
		scene domain.SceneItem
		tuple []float64
	}

	rows := make([]ranked, len(scenes))
	for i, s := range scenes {
		tuple := make([]float64, len(sortOn))
		for j, prop := range sortOn {
			v, ok := s.Properties.Get(prop)
			if !ok {
				return nil, &domain.MissingPropertyError{ItemID: s.ID, Key: prop}
			}
			n, ok := v.Number()
			if !ok {
				return nil, &domain.MissingPropertyError{ItemID: s.ID, Key: prop}
			}
			tuple[j] = n
		}
		rows[i] = ranked{scene: s, tuple: tuple}
	}

	sort.SliceStable(rows, func(a, b int) bool {
		less := tupleLess(rows[a].tuple, rows[b].tuple)
		if descending {
			return tupleLess(rows[b].tuple, rows[a].tuple)
		}
		return less
	})

	out := make([]domain.SceneItem, len(rows))
	for i, r := range rows {
		out[i] = r.scene
	}
	return out, nil
}

// tupleLess compares lexicographically; tuples are equal length.
func tupleLess(a, b []float64) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
