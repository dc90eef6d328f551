// Package vectorize traces segmentation mask boundaries into simplified
// pixel-space polygons and post-processes the resulting polygon set.
package vectorize

import (
	"geovector/pkg/geometry"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"
)

// Options configures contour extraction and simplification.
type Options struct {
	MinArea           float64 // minimum enclosed area in px² to keep a boundary
	EpsilonFactor     float64 // Douglas-Peucker epsilon as a fraction of the boundary perimeter
	SimplifyTolerance float64 // secondary simplification tolerance in px
}

// DefaultOptions returns sensible defaults for vectorization.
func DefaultOptions() Options {
	return Options{
		MinArea:           50,    // noise-scale artifacts
		EpsilonFactor:     0.002, // epsilon = perimeter * 0.002
		SimplifyTolerance: 2.0,
	}
}

// Result holds the extracted polygons plus the count of boundaries dropped
// for failing geometric validity, kept for diagnosability.
type Result struct {
	Polygons []geometry.Ring
	Dropped  int
}

// ExtractPolygons traces the external boundaries of connected foreground
// regions in a binary mask and returns them as closed, simplified polygons.
// Outer contours only; holes are not separately tracked. Boundaries below
// the minimum area are skipped, and rings that end up degenerate or
// topologically invalid are dropped and counted.
func ExtractPolygons(mask gocv.Mat, opts Options) Result {
	if mask.Empty() {
		return Result{}
	}

	// Re-threshold so any non-binary input still yields a two-level image.
	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(mask, &thresh, 127, 255, gocv.ThresholdBinary)

	contours := gocv.FindContours(thresh, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var res Result
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)

		if gocv.ContourArea(contour) < opts.MinArea {
			continue
		}

		epsilon := opts.EpsilonFactor * gocv.ArcLength(contour, true)
		approx := gocv.ApproxPolyDP(contour, epsilon, true)
		if approx.Size() < 3 {
			approx.Close()
			res.Dropped++
			continue
		}

		ring := make(geometry.Ring, 0, approx.Size()+1)
		for j := 0; j < approx.Size(); j++ {
			pt := approx.At(j)
			ring = append(ring, geometry.Point2D{X: float64(pt.X), Y: float64(pt.Y)})
		}
		approx.Close()

		ring = simplifyRing(ring.Close(), opts.SimplifyTolerance)
		if ring.VertexCount() < 3 || !ringValid(ring) {
			res.Dropped++
			continue
		}

		res.Polygons = append(res.Polygons, ring)
	}

	if res.Dropped > 0 {
		log.Info().Int("dropped", res.Dropped).Msg("discarded invalid polygons during vectorization")
	}
	if len(res.Polygons) > 0 {
		extent := res.Polygons[0].Bounds()
		for _, r := range res.Polygons[1:] {
			extent = extent.Union(r.Bounds())
		}
		log.Debug().
			Int("polygons", len(res.Polygons)).
			Float64("extent_w", extent.Width).
			Float64("extent_h", extent.Height).
			Msg("vectorization complete")
	}
	return res
}

// simplifyRing applies a tolerance-based Douglas-Peucker pass on top of the
// perimeter-proportional one done during tracing.
func simplifyRing(r geometry.Ring, tolerance float64) geometry.Ring {
	if tolerance <= 0 || len(r) < 5 {
		return r
	}
	simplified := simplify.DouglasPeucker(tolerance).Simplify(ringToOrb(r).Clone())
	out, ok := simplified.(orb.Ring)
	if !ok {
		return r
	}
	return orbToRing(out)
}
