package georef

import (
	"bytes"
	"math"
	"os"

	"geovector/internal/raster"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
	"github.com/rs/zerolog/log"
	"github.com/rwcarlsen/goexif/tiff"
)

// GeoTIFF tag and geo-key IDs.
const (
	tagModelPixelScale     = 33550
	tagModelTiepoint       = 33922
	tagModelTransformation = 34264
	tagGeoKeyDirectory     = 34735

	geoKeyGeographicType = 2048
	geoKeyProjectedCS    = 3072

	epsgWGS84       = 4326
	epsgWebMercator = 3857
)

// geoTags is the subset of TIFF metadata the georeferencer consumes.
type geoTags struct {
	pixelScale     []float64 // sx, sy, sz
	tiePoint       []float64 // i, j, k, x, y, z
	transformation []float64 // 4x4 row-major model transformation
	epsg           int       // 0 when no geo-key CRS present
}

// readGeoTags parses the first IFD of a TIFF file. Returns false for
// non-TIFF inputs or files without any geo tags.
func readGeoTags(path string) (geoTags, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return geoTags{}, false
	}

	tf, err := tiff.Decode(bytes.NewReader(data))
	if err != nil || len(tf.Dirs) == 0 {
		return geoTags{}, false
	}

	var tags geoTags
	found := false
	for _, t := range tf.Dirs[0].Tags {
		switch t.Id {
		case tagModelPixelScale:
			tags.pixelScale = floatVals(t, 3)
			found = found || tags.pixelScale != nil
		case tagModelTiepoint:
			tags.tiePoint = floatVals(t, 6)
			found = found || tags.tiePoint != nil
		case tagModelTransformation:
			tags.transformation = floatVals(t, 16)
			found = found || tags.transformation != nil
		case tagGeoKeyDirectory:
			tags.epsg = parseGeoKeyCRS(t)
			found = found || tags.epsg != 0
		}
	}
	return tags, found
}

func floatVals(t *tiff.Tag, n int) []float64 {
	if int(t.Count) < n {
		return nil
	}
	vals := make([]float64, n)
	for i := 0; i < n; i++ {
		f, err := t.Float(i)
		if err != nil {
			return nil
		}
		vals[i] = f
	}
	return vals
}

// parseGeoKeyCRS walks the geo-key directory (header of 4 shorts, then 4
// shorts per key) looking for a projected or geographic CRS code. Projected
// wins when both are present.
func parseGeoKeyCRS(t *tiff.Tag) int {
	count := int(t.Count)
	if count < 4 {
		return 0
	}

	numKeys64, err := t.Int64(3)
	if err != nil {
		return 0
	}
	numKeys := int(numKeys64)

	geographic := 0
	for k := 0; k < numKeys; k++ {
		base := 4 + k*4
		if base+3 >= count {
			break
		}
		keyID, err1 := t.Int64(base)
		location, err2 := t.Int64(base + 1)
		value, err3 := t.Int64(base + 3)
		if err1 != nil || err2 != nil || err3 != nil || location != 0 {
			continue
		}
		switch keyID {
		case geoKeyProjectedCS:
			return int(value)
		case geoKeyGeographicType:
			geographic = int(value)
		}
	}
	return geographic
}

// geotiffSource reads an embedded affine transform and CRS directly from the
// raster and reprojects non-WGS84 corner bounds into WGS84.
type geotiffSource struct{}

func (s *geotiffSource) Name() string { return "geotiff" }

func (s *geotiffSource) Extract(r *raster.Raster) (BoundingBox, bool) {
	tags, ok := readGeoTags(r.Path)
	if !ok || tags.epsg == 0 {
		return BoundingBox{}, false
	}

	box, ok := modelBounds(tags, r.Width, r.Height)
	if !ok {
		return BoundingBox{}, false
	}

	switch tags.epsg {
	case epsgWGS84:
		return box, true
	case epsgWebMercator:
		sw := project.Mercator.ToWGS84(orb.Point{box.West, box.South})
		ne := project.Mercator.ToWGS84(orb.Point{box.East, box.North})
		return BoundingBox{West: sw[0], South: sw[1], East: ne[0], North: ne[1]}, true
	default:
		log.Warn().Int("epsg", tags.epsg).Str("path", r.Path).
			Msg("unsupported embedded CRS, trying next georeferencing source")
		return BoundingBox{}, false
	}
}

// modelBounds computes raster corner coordinates in the embedded CRS from
// either the model transformation matrix or the tie-point/scale pair.
func modelBounds(tags geoTags, width, height int) (BoundingBox, bool) {
	w, h := float64(width), float64(height)

	if m := tags.transformation; m != nil {
		// All four raster corners: rotation or shear terms can push any of
		// them to an extreme of either axis.
		corners := [4][2]float64{{0, 0}, {w, 0}, {0, h}, {w, h}}
		box := BoundingBox{West: math.Inf(1), South: math.Inf(1), East: math.Inf(-1), North: math.Inf(-1)}
		for _, c := range corners {
			x := m[0]*c[0] + m[1]*c[1] + m[3]
			y := m[4]*c[0] + m[5]*c[1] + m[7]
			box.West = min(box.West, x)
			box.East = max(box.East, x)
			box.South = min(box.South, y)
			box.North = max(box.North, y)
		}
		return box, true
	}

	if tags.tiePoint != nil && tags.pixelScale != nil {
		return tiePointBounds(tags, width, height), true
	}

	return BoundingBox{}, false
}

// tiePointBounds applies the tie-point/pixel-scale bounding box formula:
// the origin anchors the top-left corner, y decreases with increasing row.
func tiePointBounds(tags geoTags, width, height int) BoundingBox {
	sx, sy := tags.pixelScale[0], tags.pixelScale[1]
	originX := tags.tiePoint[3] - tags.tiePoint[0]*sx
	originY := tags.tiePoint[4] + tags.tiePoint[1]*sy

	return BoundingBox{
		West:  originX,
		North: originY,
		East:  originX + float64(width)*sx,
		South: originY - float64(height)*sy,
	}
}

// tiePointSource handles rasters carrying tie-point and pixel-scale tags but
// no usable CRS declaration. Coordinates are taken as geographic as written.
type tiePointSource struct{}

func (s *tiePointSource) Name() string { return "tiepoint" }

func (s *tiePointSource) Extract(r *raster.Raster) (BoundingBox, bool) {
	tags, ok := readGeoTags(r.Path)
	if !ok || tags.tiePoint == nil || tags.pixelScale == nil {
		return BoundingBox{}, false
	}
	return tiePointBounds(tags, r.Width, r.Height), true
}
