package geometry

// Ring is an ordered sequence of vertices forming a closed polygon boundary.
// A valid ring has at least 3 distinct vertices and repeats its first vertex
// as the last one.
type Ring []Point2D

// Closed returns true if the ring's first and last vertices coincide.
func (r Ring) Closed() bool {
	if len(r) < 2 {
		return false
	}
	return r[0] == r[len(r)-1]
}

// Close returns the ring with its first vertex appended as the last, if not
// already closed.
func (r Ring) Close() Ring {
	if len(r) == 0 || r.Closed() {
		return r
	}
	return append(r, r[0])
}

// VertexCount returns the number of distinct vertices, not counting the
// closing repeat.
func (r Ring) VertexCount() int {
	if r.Closed() {
		return len(r) - 1
	}
	return len(r)
}

// SignedArea computes the shoelace area of the ring. Positive for
// counter-clockwise winding in a y-down coordinate system.
func (r Ring) SignedArea() float64 {
	n := len(r)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += r[i].X*r[j].Y - r[j].X*r[i].Y
	}
	return sum / 2
}

// Area returns the absolute enclosed area.
func (r Ring) Area() float64 {
	a := r.SignedArea()
	if a < 0 {
		return -a
	}
	return a
}

// Perimeter returns the total boundary length, including the closing edge
// for open rings.
func (r Ring) Perimeter() float64 {
	n := len(r)
	if n < 2 {
		return 0
	}
	var total float64
	for i := 0; i < n-1; i++ {
		total += r[i].Distance(r[i+1])
	}
	if !r.Closed() {
		total += r[n-1].Distance(r[0])
	}
	return total
}

// Bounds returns the axis-aligned bounding box of the ring.
func (r Ring) Bounds() Rect {
	return BoundingBox(r)
}

// Rectangle builds a closed rectangular ring from a Rect, wound clockwise in
// image coordinates (y down).
func Rectangle(rect Rect) Ring {
	return Ring{
		{X: rect.X, Y: rect.Y},
		{X: rect.X + rect.Width, Y: rect.Y},
		{X: rect.X + rect.Width, Y: rect.Y + rect.Height},
		{X: rect.X, Y: rect.Y + rect.Height},
		{X: rect.X, Y: rect.Y},
	}
}
