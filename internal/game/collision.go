package game

// Circle is a bounding circle used by both collision phases.
type Circle struct {
	Center Vec2
	Radius float64
}

// CirclesOverlap reports whether two circles intersect. Touching circles
// (distance exactly equal to the radius sum) do not count.
func CirclesOverlap(a, b Circle) bool {
	return a.Center.Dist(b.Center) < a.Radius+b.Radius
}

// Triangle is a hull given by three world-space vertices.
type Triangle [3]Vec2

// cross2D returns the 2D cross product of (b-a) and (p-a).
func cross2D(a, b, p Vec2) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

// PointInTriangle checks the sign of p against each edge. Points on an edge
// are inside.
func PointInTriangle(p Vec2, t Triangle) bool {
	d1 := cross2D(t[0], t[1], p)
	d2 := cross2D(t[1], t[2], p)
	d3 := cross2D(t[2], t[0], p)
	hasNeg := (d1 < 0) || (d2 < 0) || (d3 < 0)
	hasPos := (d1 > 0) || (d2 > 0) || (d3 > 0)
	return !(hasNeg && hasPos)
}
