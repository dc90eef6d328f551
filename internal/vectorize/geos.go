package vectorize

import (
	"encoding/json"
	"fmt"

	"geovector/pkg/geometry"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-geos"
)

// Geometries cross the orb/GEOS boundary as GeoJSON, which keeps this package
// independent of GEOS coordinate-sequence internals.

func ringToOrb(r geometry.Ring) orb.Ring {
	out := make(orb.Ring, len(r))
	for i, p := range r {
		out[i] = orb.Point{p.X, p.Y}
	}
	return out
}

func orbToRing(r orb.Ring) geometry.Ring {
	out := make(geometry.Ring, len(r))
	for i, p := range r {
		out[i] = geometry.Point2D{X: p[0], Y: p[1]}
	}
	return out.Close()
}

func ringToGeos(r geometry.Ring) (*geos.Geom, error) {
	poly := orb.Polygon{ringToOrb(r.Close())}
	data, err := json.Marshal(geojson.NewGeometry(poly))
	if err != nil {
		return nil, fmt.Errorf("vectorize: encoding ring: %w", err)
	}
	g, err := geos.NewGeomFromGeoJSON(string(data))
	if err != nil {
		return nil, fmt.Errorf("vectorize: building GEOS geometry: %w", err)
	}
	return g, nil
}

// geosToRings extracts the exterior ring of every polygon in g. Holes are not
// tracked by the pipeline and are discarded here.
func geosToRings(g *geos.Geom) ([]geometry.Ring, error) {
	if g == nil || g.IsEmpty() {
		return nil, nil
	}

	geom, err := geojson.UnmarshalGeometry([]byte(g.ToGeoJSON(-1)))
	if err != nil {
		return nil, fmt.Errorf("vectorize: decoding GEOS geometry: %w", err)
	}

	switch v := geom.Geometry().(type) {
	case orb.Polygon:
		if len(v) == 0 {
			return nil, nil
		}
		return []geometry.Ring{orbToRing(v[0])}, nil
	case orb.MultiPolygon:
		rings := make([]geometry.Ring, 0, len(v))
		for _, poly := range v {
			if len(poly) > 0 {
				rings = append(rings, orbToRing(poly[0]))
			}
		}
		return rings, nil
	default:
		return nil, nil
	}
}

// ringValid reports whether the closed ring forms a topologically simple
// polygon.
func ringValid(r geometry.Ring) bool {
	g, err := ringToGeos(r)
	if err != nil {
		return false
	}
	return g.IsValid()
}
