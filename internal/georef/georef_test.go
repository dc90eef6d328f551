package georef

import (
	"testing"

	"geovector/internal/raster"
)

// probeSource records whether it was consulted and returns a fixed answer.
type probeSource struct {
	name   string
	box    BoundingBox
	ok     bool
	called bool
}

func (p *probeSource) Name() string { return p.name }

func (p *probeSource) Extract(r *raster.Raster) (BoundingBox, bool) {
	p.called = true
	return p.box, p.ok
}

func TestResolveFirstSuccessShortCircuits(t *testing.T) {
	// The embedded-transform source wins even when a later source (such as
	// conflicting EXIF data) would also produce a box.
	embedded := &probeSource{name: "geotiff", box: BoundingBox{West: -75, South: 40, East: -73, North: 42}, ok: true}
	exif := &probeSource{name: "exif-gps", box: BoundingBox{West: 10, South: 10, East: 11, North: 11}, ok: true}

	res := Resolve(&raster.Raster{Path: "x.tif"}, []Source{embedded, exif})

	if res.Degraded {
		t.Fatal("resolution flagged degraded")
	}
	if res.Method != "geotiff" {
		t.Errorf("Method = %q, want geotiff", res.Method)
	}
	if res.Box != embedded.box {
		t.Errorf("Box = %+v, want %+v", res.Box, embedded.box)
	}
	if exif.called {
		t.Error("later source was consulted after an earlier success")
	}
}

func TestResolveFallsThroughFailures(t *testing.T) {
	first := &probeSource{name: "geotiff"}
	second := &probeSource{name: "tiepoint"}
	third := &probeSource{name: "exif-gps", box: BoundingBox{West: 0, South: 0, East: 1, North: 1}, ok: true}

	res := Resolve(&raster.Raster{Path: "x.jpg"}, []Source{first, second, third})

	if !first.called || !second.called || !third.called {
		t.Error("fallback chain did not consult sources in order")
	}
	if res.Method != "exif-gps" || res.Degraded {
		t.Errorf("got method %q degraded=%v, want exif-gps non-degraded", res.Method, res.Degraded)
	}
}

func TestResolveRejectsInvalidBoxes(t *testing.T) {
	// An inverted box must not satisfy the chain.
	bad := &probeSource{name: "geotiff", box: BoundingBox{West: 5, South: 5, East: 4, North: 4}, ok: true}
	good := &probeSource{name: "tiepoint", box: BoundingBox{West: 0, South: 0, East: 1, North: 1}, ok: true}

	res := Resolve(&raster.Raster{Path: "x.tif"}, []Source{bad, good})
	if res.Method != "tiepoint" {
		t.Errorf("Method = %q, want tiepoint", res.Method)
	}
}

func TestResolveDegradedMode(t *testing.T) {
	res := Resolve(&raster.Raster{Path: "nothing.png"}, []Source{&probeSource{name: "geotiff"}})

	if !res.Degraded {
		t.Fatal("exhausted chain not flagged degraded")
	}
	if res.Box != DefaultBoundingBox {
		t.Errorf("Box = %+v, want placeholder %+v", res.Box, DefaultBoundingBox)
	}
	if res.Method != "default" {
		t.Errorf("Method = %q, want default", res.Method)
	}
}

func TestTiePointBounds(t *testing.T) {
	tags := geoTags{
		tiePoint:   []float64{0, 0, 0, -51.25, -22.17, 0},
		pixelScale: []float64{0.0001, 0.0001, 0},
	}

	box := tiePointBounds(tags, 100, 200)

	if box.West != -51.25 {
		t.Errorf("West = %v, want -51.25", box.West)
	}
	if box.North != -22.17 {
		t.Errorf("North = %v, want -22.17", box.North)
	}
	if got, want := box.East, -51.25+100*0.0001; !almost(got, want) {
		t.Errorf("East = %v, want %v", got, want)
	}
	if got, want := box.South, -22.17-200*0.0001; !almost(got, want) {
		t.Errorf("South = %v, want %v", got, want)
	}
	if !box.Valid() {
		t.Error("tie-point box invalid")
	}
}

func TestBoundingBoxValid(t *testing.T) {
	tests := []struct {
		box  BoundingBox
		want bool
	}{
		{BoundingBox{West: -75, South: 40, East: -73, North: 42}, true},
		{BoundingBox{West: -73, South: 40, East: -75, North: 42}, false},
		{BoundingBox{West: -75, South: 42, East: -73, North: 40}, false},
		{BoundingBox{}, false},
	}
	for _, tt := range tests {
		if got := tt.box.Valid(); got != tt.want {
			t.Errorf("Valid(%+v) = %v, want %v", tt.box, got, tt.want)
		}
	}
}

func almost(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
