// Package feature assembles georeferenced polygons into GeoJSON
// FeatureCollections, the contract boundary with all downstream consumers.
package feature

import (
	"encoding/json"
	"fmt"
	"os"

	"geovector/internal/georef"
	"geovector/pkg/geometry"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Assemble maps pixel-space polygons into geographic space and packages them
// as a FeatureCollection. Every vertex is transformed by independent linear
// interpolation per axis against the single bounding box shared by all
// polygons of one raster; the vertical axis is inverted because image rows
// grow downward while latitude grows northward. This is an affine
// approximation, valid only for boxes small enough that curvature is
// negligible.
//
// Features receive sequential integer identifiers starting at 1 and a
// minimal properties map. The feature type is attached once to the
// collection, not per feature.
func Assemble(rings []geometry.Ring, width, height int, box georef.BoundingBox, featureType string) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.ExtraMembers = geojson.Properties{"feature_type": featureType}

	if width <= 0 || height <= 0 {
		return fc
	}

	for i, ring := range rings {
		geoRing := make(orb.Ring, len(ring))
		for j, p := range ring {
			geoRing[j] = transformPoint(p, width, height, box)
		}

		f := geojson.NewFeature(orb.Polygon{geoRing})
		f.ID = i + 1
		f.Properties = geojson.Properties{
			"id":   i + 1,
			"name": fmt.Sprintf("Feature %d", i+1),
		}
		fc.Append(f)
	}

	return fc
}

// transformPoint interpolates a pixel coordinate into lon/lat.
func transformPoint(p geometry.Point2D, width, height int, box georef.BoundingBox) orb.Point {
	lon := box.West + (p.X/float64(width))*box.Width()
	lat := box.North - (p.Y/float64(height))*box.Height()
	return orb.Point{lon, lat}
}

// Write persists the collection as GeoJSON at path.
func Write(fc *geojson.FeatureCollection, path string) error {
	data, err := json.Marshal(fc)
	if err != nil {
		return fmt.Errorf("feature: encoding collection: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("feature: writing %s: %w", path, err)
	}
	return nil
}

// Read loads a GeoJSON FeatureCollection from path. Used to round-trip
// persisted collections back into the application.
func Read(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("feature: reading %s: %w", path, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("feature: decoding %s: %w", path, err)
	}
	return fc, nil
}
