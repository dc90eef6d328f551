// Package georef resolves the geographic bounding box of a raster from its
// embedded metadata, with tiered fallbacks for rasters carrying less.
package georef

import (
	"geovector/internal/raster"

	"github.com/rs/zerolog/log"
)

// BoundingBox is a geographic extent in WGS84 lon/lat.
type BoundingBox struct {
	West  float64 `json:"west"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	North float64 `json:"north"`
}

// Valid reports whether the box has positive extent on both axes.
func (b BoundingBox) Valid() bool {
	return b.West < b.East && b.South < b.North
}

// Width returns the longitudinal extent in degrees.
func (b BoundingBox) Width() float64 { return b.East - b.West }

// Height returns the latitudinal extent in degrees.
func (b BoundingBox) Height() float64 { return b.North - b.South }

// DefaultBoundingBox is the placeholder used when every georeferencing
// source fails: a patch of the mid-Atlantic, deliberately not a real
// location. Geometry placed here is geographically meaningless and the
// degraded mode must be surfaced to the caller.
var DefaultBoundingBox = BoundingBox{West: -30, South: 0, East: -20, North: 10}

// Source is one georeferencing heuristic. Extract returns the raster's
// bounding box and true on success; any internal failure is absorbed and
// reported as false so the chain proceeds to the next source.
type Source interface {
	Name() string
	Extract(r *raster.Raster) (BoundingBox, bool)
}

// Resolution is the outcome of resolving a raster's bounding box. Exactly
// one Resolution is produced per raster and reused for every polygon derived
// from it.
type Resolution struct {
	Box      BoundingBox
	Method   string
	Degraded bool
}

// DefaultSources returns the fallback chain in priority order: embedded
// GeoTIFF CRS and transform, bare tie-point/pixel-scale tags, EXIF GPS.
func DefaultSources() []Source {
	return []Source{
		&geotiffSource{},
		&tiePointSource{},
		&exifGPSSource{},
	}
}

// Resolve applies the sources in order; the first success short-circuits.
// Exhausting the chain falls back to DefaultBoundingBox and flags the
// resolution as degraded.
func Resolve(r *raster.Raster, sources []Source) Resolution {
	for _, src := range sources {
		if box, ok := src.Extract(r); ok && box.Valid() {
			log.Debug().
				Str("method", src.Name()).
				Float64("west", box.West).Float64("south", box.South).
				Float64("east", box.East).Float64("north", box.North).
				Msg("georeferencing resolved")
			return Resolution{Box: box, Method: src.Name()}
		}
	}

	log.Warn().
		Str("path", r.Path).
		Msg("georeference degraded: no metadata found, using placeholder bounding box")
	return Resolution{Box: DefaultBoundingBox, Method: "default", Degraded: true}
}
