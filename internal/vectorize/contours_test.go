package vectorize

import (
	"testing"

	"gocv.io/x/gocv"
)

// maskWithSquares builds a binary mask with filled foreground squares.
func maskWithSquares(w, h int, squares ...[3]int) gocv.Mat {
	mask := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8U)
	for _, s := range squares {
		x0, y0, size := s[0], s[1], s[2]
		for y := y0; y < y0+size && y < h; y++ {
			for x := x0; x < x0+size && x < w; x++ {
				mask.SetUCharAt(y, x, 255)
			}
		}
	}
	return mask
}

func TestExtractPolygonsSingleSquare(t *testing.T) {
	mask := maskWithSquares(100, 100, [3]int{10, 10, 20})
	defer mask.Close()

	res := ExtractPolygons(mask, DefaultOptions())
	if len(res.Polygons) != 1 {
		t.Fatalf("got %d polygons, want 1", len(res.Polygons))
	}

	ring := res.Polygons[0]
	if !ring.Closed() {
		t.Error("ring is not closed")
	}
	if ring.VertexCount() < 3 {
		t.Errorf("VertexCount = %d, want >= 3", ring.VertexCount())
	}

	// The traced square encloses roughly 20x20 px.
	if a := ring.Area(); a < 300 || a > 500 {
		t.Errorf("Area = %v, want near 400", a)
	}
}

func TestExtractPolygonsEmptyMask(t *testing.T) {
	mask := maskWithSquares(100, 100)
	defer mask.Close()

	res := ExtractPolygons(mask, DefaultOptions())
	if len(res.Polygons) != 0 {
		t.Errorf("got %d polygons from all-background mask, want 0", len(res.Polygons))
	}
	if res.Dropped != 0 {
		t.Errorf("Dropped = %d, want 0", res.Dropped)
	}
}

func TestExtractPolygonsMinAreaFilter(t *testing.T) {
	// 5x5 square: 25 px² is below the 50 px² default.
	mask := maskWithSquares(100, 100, [3]int{10, 10, 5}, [3]int{50, 50, 20})
	defer mask.Close()

	res := ExtractPolygons(mask, DefaultOptions())
	if len(res.Polygons) != 1 {
		t.Fatalf("got %d polygons, want 1 (noise square filtered)", len(res.Polygons))
	}
}

func TestExtractPolygonsAllClosed(t *testing.T) {
	mask := maskWithSquares(200, 200, [3]int{10, 10, 30}, [3]int{100, 20, 25}, [3]int{60, 140, 40})
	defer mask.Close()

	res := ExtractPolygons(mask, DefaultOptions())
	if len(res.Polygons) != 3 {
		t.Fatalf("got %d polygons, want 3", len(res.Polygons))
	}
	for i, ring := range res.Polygons {
		if !ring.Closed() {
			t.Errorf("polygon %d not closed", i)
		}
		if ring.VertexCount() < 3 {
			t.Errorf("polygon %d has %d vertices, want >= 3", i, ring.VertexCount())
		}
	}
}

func TestExtractPolygonsNonBinaryInput(t *testing.T) {
	// Mid-gray foreground must still come out as a traced region after the
	// internal re-threshold.
	mask := gocv.NewMatWithSize(100, 100, gocv.MatTypeCV8U)
	defer mask.Close()
	for y := 30; y < 60; y++ {
		for x := 30; x < 60; x++ {
			mask.SetUCharAt(y, x, 200)
		}
	}

	res := ExtractPolygons(mask, DefaultOptions())
	if len(res.Polygons) != 1 {
		t.Fatalf("got %d polygons, want 1", len(res.Polygons))
	}
}
