package geom

// cross returns the z component of (a-c) x (b-c).
func cross(a, b, c Point) float64 {
	return (a.X-c.X)*(b.Y-c.Y) - (b.X-c.X)*(a.Y-c.Y)
}

// PointInTriangle reports whether p lies inside the triangle (a, b, c).
// Points on an edge count as inside. A triangle with zero area contains
// nothing.
func PointInTriangle(p, a, b, c Point) bool {
	if cross(a, b, c) == 0 {
		return false
	}

	d1 := cross(p, a, b)
	d2 := cross(p, b, c)
	d3 := cross(p, c, a)

	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0

	return !(hasNeg && hasPos)
}

// PointInQuad reports whether p lies inside the quadrilateral q, given in
// drawing order. The quad is split along the q[0]-q[2] diagonal.
func PointInQuad(p Point, q [4]Point) bool {
	return PointInTriangle(p, q[0], q[1], q[2]) || PointInTriangle(p, q[0], q[3], q[2])
}
