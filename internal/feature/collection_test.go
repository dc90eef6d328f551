package feature

import (
	"math"
	"path/filepath"
	"testing"

	"geovector/internal/georef"
	"geovector/pkg/geometry"

	"github.com/paulmach/orb"
)

var testBox = georef.BoundingBox{West: -75, South: 40, East: -73, North: 42}

func TestTransformTopLeftCorner(t *testing.T) {
	// Pixel (0,0) is the top-left corner: west edge, north edge. Confirms
	// the y-axis inversion for latitude.
	ring := geometry.Ring{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}}.Close()

	fc := Assemble([]geometry.Ring{ring}, 100, 100, testBox, "buildings")
	if len(fc.Features) != 1 {
		t.Fatalf("got %d features, want 1", len(fc.Features))
	}

	poly, ok := fc.Features[0].Geometry.(orb.Polygon)
	if !ok {
		t.Fatalf("geometry is %T, want orb.Polygon", fc.Features[0].Geometry)
	}

	first := poly[0][0]
	if math.Abs(first[0]-(-75)) > 1e-9 || math.Abs(first[1]-42) > 1e-9 {
		t.Errorf("pixel (0,0) mapped to (%v, %v), want (-75, 42)", first[0], first[1])
	}

	// Bottom-right pixel corner maps to (east, south).
	third := poly[0][2]
	if math.Abs(third[0]-(-73)) > 1e-9 || math.Abs(third[1]-40) > 1e-9 {
		t.Errorf("pixel (100,100) mapped to (%v, %v), want (-73, 40)", third[0], third[1])
	}
}

func TestAssembleSequentialIDs(t *testing.T) {
	rings := []geometry.Ring{
		geometry.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}}.Close(),
		geometry.Ring{{20, 20}, {30, 20}, {30, 30}, {20, 30}}.Close(),
		geometry.Ring{{50, 50}, {60, 50}, {60, 60}, {50, 60}}.Close(),
	}

	fc := Assemble(rings, 100, 100, testBox, "water")
	if len(fc.Features) != 3 {
		t.Fatalf("got %d features, want 3", len(fc.Features))
	}

	for i, f := range fc.Features {
		if f.ID != i+1 {
			t.Errorf("feature %d has ID %v, want %d", i, f.ID, i+1)
		}
		if name, _ := f.Properties["name"].(string); name == "" {
			t.Errorf("feature %d has no name property", i)
		}
	}
}

func TestAssembleFeatureTypeOnCollection(t *testing.T) {
	fc := Assemble(nil, 100, 100, testBox, "trees")

	if got := fc.ExtraMembers["feature_type"]; got != "trees" {
		t.Errorf("feature_type = %v, want trees", got)
	}
	if len(fc.Features) != 0 {
		t.Errorf("got %d features from no polygons, want 0", len(fc.Features))
	}
	for _, f := range fc.Features {
		if _, ok := f.Properties["feature_type"]; ok {
			t.Error("feature_type must not be nested per-feature")
		}
	}
}

func TestAssembleCoordinatesWithinBox(t *testing.T) {
	unit := georef.BoundingBox{West: 0, South: 0, East: 1, North: 1}
	ring := geometry.Ring{{10, 10}, {30, 10}, {30, 30}, {10, 30}}.Close()

	fc := Assemble([]geometry.Ring{ring}, 100, 100, unit, "buildings")
	poly := fc.Features[0].Geometry.(orb.Polygon)
	for _, p := range poly[0] {
		if p[0] < 0 || p[0] > 1 || p[1] < 0 || p[1] > 1 {
			t.Errorf("coordinate (%v, %v) outside [0,1]x[0,1]", p[0], p[1])
		}
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	ring := geometry.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}}.Close()
	fc := Assemble([]geometry.Ring{ring}, 100, 100, testBox, "roads")

	path := filepath.Join(t.TempDir(), "out.geojson")
	if err := Write(fc, path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Features) != 1 {
		t.Fatalf("got %d features after round trip, want 1", len(loaded.Features))
	}
	if got := loaded.ExtraMembers["feature_type"]; got != "roads" {
		t.Errorf("feature_type = %v, want roads", got)
	}
}
