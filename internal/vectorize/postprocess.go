package vectorize

import (
	"fmt"
	"sort"

	"geovector/pkg/geometry"

	"github.com/rs/zerolog/log"
	"github.com/twpayne/go-geos"
)

// PostProcessOptions configures polygon regularization and merging. Both
// transforms stay in pixel space; they run before georeferencing.
type PostProcessOptions struct {
	// RegularizeRatio is the polygon-area to bounding-box-area ratio above
	// which a shape is snapped to its bounding rectangle.
	RegularizeRatio float64
	// MergeBuffer is the outward buffer distance in px used to close small
	// gaps between fragments of the same real-world feature. Too small
	// under-merges, too large fuses distinct nearby features.
	MergeBuffer float64
	// BufferSegments controls the arc approximation of buffered corners.
	BufferSegments int
}

// DefaultPostProcessOptions returns sensible defaults for post-processing.
func DefaultPostProcessOptions() PostProcessOptions {
	return PostProcessOptions{
		RegularizeRatio: 0.8,
		MergeBuffer:     5.0,
		BufferSegments:  8,
	}
}

// Regularize snaps near-rectangular polygons to their axis-aligned bounding
// rectangles. Segmentation noise produces jagged edges on shapes that are
// true rectangles; shapes failing the ratio test pass through unchanged.
// Reapplying the transform to an already-snapped rectangle yields the same
// rectangle.
func Regularize(rings []geometry.Ring, ratio float64) []geometry.Ring {
	out := make([]geometry.Ring, 0, len(rings))
	for _, r := range rings {
		bounds := r.Bounds()
		boxArea := bounds.Area()
		if boxArea > 0 && r.Area()/boxArea > ratio {
			out = append(out, geometry.Rectangle(bounds))
		} else {
			out = append(out, r)
		}
	}
	return out
}

// MergeNearby expands every polygon outward by the buffer distance, unions
// the expanded shapes, and returns each connected component of the union as
// one merged polygon. Polygons with no mutual proximity within the buffer
// distance survive as individual (buffer-expanded) shapes.
func MergeNearby(rings []geometry.Ring, opts PostProcessOptions) ([]geometry.Ring, error) {
	if len(rings) == 0 {
		return nil, nil
	}

	var union *geos.Geom
	for _, r := range rings {
		g, err := ringToGeos(r)
		if err != nil {
			log.Warn().Err(err).Msg("skipping unmergeable polygon")
			continue
		}
		buffered := g.Buffer(opts.MergeBuffer, opts.BufferSegments)
		if union == nil {
			union = buffered
		} else {
			union = union.Union(buffered)
		}
	}
	if union == nil {
		return nil, fmt.Errorf("vectorize: no polygons survived buffering")
	}

	merged, err := geosToRings(union)
	if err != nil {
		return nil, err
	}

	// GEOS does not guarantee component order within a union. Feature IDs are
	// assigned positionally downstream, so order by centroid, row-major.
	sort.Slice(merged, func(i, j int) bool {
		ci := geometry.Centroid(merged[i])
		cj := geometry.Centroid(merged[j])
		if ci.Y != cj.Y {
			return ci.Y < cj.Y
		}
		return ci.X < cj.X
	})
	return merged, nil
}

// PostProcess applies regularization and merging. Regularization runs both
// before and after the merge: first to clean jagged traced edges, then again
// because buffering rounds every convex corner into an arc and would
// otherwise turn a snapped rectangle into a many-vertex rounded ring. The
// second pass collapses those arcs back to the bounding rectangle.
func PostProcess(rings []geometry.Ring, regularize bool, opts PostProcessOptions) ([]geometry.Ring, error) {
	if regularize {
		rings = Regularize(rings, opts.RegularizeRatio)
	}
	merged, err := MergeNearby(rings, opts)
	if err != nil {
		return nil, err
	}
	if regularize {
		merged = Regularize(merged, opts.RegularizeRatio)
	}
	return merged, nil
}
