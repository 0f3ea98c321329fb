package filter

import (
	"sort"

	"mxbridge/internal/engine"
	"mxbridge/internal/logger"
	"mxbridge/internal/mxarray"
)

// ID is the opaque identifier a host uses to select a filter.
type ID string

const (
	// None leaves images untouched.
	None ID = "none"
	// ObjectCentroids finds objects lying on the largest background surface and circles their
	// centroids.
	ObjectCentroids ID = "object-centroids"
	// KMeansOverlay colours k-means segmentation labels over the image.
	KMeansOverlay ID = "kmeans-overlay"
)

// colorFilter runs one filter against a started session, replacing img's pixels in place.
type colorFilter interface {
	Name() string
	Apply(s *engine.Session, img *mxarray.Array, p Params, log logger.Logger) (Centroids, error)
}

// colorFilters is the single dispatch table for colour stream filters. IDs missing from it,
// None included, are no-ops.
var colorFilters = map[ID]colorFilter{
	ObjectCentroids: centroidFilter{},
	KMeansOverlay:   kmeansFilter{},
}

// ColorFilterIDs lists the selectable colour filters, None first.
func ColorFilterIDs() []ID {
	ids := make([]ID, 0, len(colorFilters)+1)
	for id := range colorFilters {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return append([]ID{None}, ids...)
}

// Known reports whether id selects a registered filter or None.
func Known(id ID) bool {
	if id == None {
		return true
	}
	_, ok := colorFilters[id]
	return ok
}
