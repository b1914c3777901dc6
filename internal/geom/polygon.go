package geom

// PointInPolygon is the even-odd ray casting test. The polygon is closed
// implicitly: the last vertex connects back to the first.
func PointInPolygon(p Vec2, poly []Vec2) bool {
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// SegmentIntersectsCircle reports whether the closest point of segment ab
// lies within r of c.
func SegmentIntersectsCircle(a, b, c Vec2, r float64) bool {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ab2 := ab.Len2()
	if ab2 == 0 {
		ab2 = 1
	}
	t := Clamp(ac.Dot(ab)/ab2, 0, 1)
	closest := a.Add(ab.Scale(t))
	return Distance2(closest, c) <= r*r
}

// PolygonIntersectsCircle checks every edge including the closing one.
func PolygonIntersectsCircle(poly []Vec2, c Vec2, r float64) bool {
	for i := range poly {
		if SegmentIntersectsCircle(poly[i], poly[(i+1)%len(poly)], c, r) {
			return true
		}
	}
	return false
}

// Encloses is the capture predicate: the circle centre is inside the loop and
// no loop edge clips through the circle.
func Encloses(poly []Vec2, c Vec2, r float64) bool {
	return PointInPolygon(c, poly) && !PolygonIntersectsCircle(poly, c, r)
}
