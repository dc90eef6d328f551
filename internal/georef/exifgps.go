package georef

import (
	"os"
	"path/filepath"
	"strings"

	"geovector/internal/raster"

	"github.com/rs/zerolog/log"
	"github.com/rwcarlsen/goexif/exif"
)

// pointBuffer is the half-width in degrees of the box built around a single
// GPS fix: 0.001° is roughly 111 m at the equator.
const pointBuffer = 0.001

// exifGPSSource reads a GPS fix from photographic EXIF metadata and builds a
// small fixed-radius box around the point.
type exifGPSSource struct{}

func (s *exifGPSSource) Name() string { return "exif-gps" }

func (s *exifGPSSource) Extract(r *raster.Raster) (BoundingBox, bool) {
	switch strings.ToLower(filepath.Ext(r.Path)) {
	case ".jpg", ".jpeg":
	default:
		return BoundingBox{}, false
	}

	f, err := os.Open(r.Path)
	if err != nil {
		return BoundingBox{}, false
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		log.Debug().Err(err).Str("path", r.Path).Msg("no EXIF metadata")
		return BoundingBox{}, false
	}

	lat, ok := dmsValue(x, exif.GPSLatitude, exif.GPSLatitudeRef, "S")
	if !ok {
		return BoundingBox{}, false
	}
	lon, ok := dmsValue(x, exif.GPSLongitude, exif.GPSLongitudeRef, "W")
	if !ok {
		return BoundingBox{}, false
	}

	return BoundingBox{
		West:  lon - pointBuffer,
		South: lat - pointBuffer,
		East:  lon + pointBuffer,
		North: lat + pointBuffer,
	}, true
}

// dmsValue converts a degrees/minutes/seconds GPS tag to decimal degrees,
// negated when the hemisphere reference matches negRef (south or west).
func dmsValue(x *exif.Exif, field, refField exif.FieldName, negRef string) (float64, bool) {
	tag, err := x.Get(field)
	if err != nil || tag.Count < 3 {
		return 0, false
	}

	var parts [3]float64
	for i := 0; i < 3; i++ {
		rat, err := tag.Rat(i)
		if err != nil {
			return 0, false
		}
		parts[i], _ = rat.Float64()
	}
	deg := parts[0] + parts[1]/60 + parts[2]/3600

	if ref, err := x.Get(refField); err == nil {
		if v, err := ref.StringVal(); err == nil && strings.EqualFold(strings.TrimSpace(v), negRef) {
			deg = -deg
		}
	}
	return deg, true
}
