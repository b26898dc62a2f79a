package htm

import "github.com/TillFleisch/libtinyhtm/v3"

// Circle is a spherical cap: all points within radius (in the secant-
// squared sense) of Center. D2 == 0 degenerates to a single point;
// D2 >= 4 covers the whole sphere.
type Circle struct {
	Center v3.Vec
	D2     float64
}

// NewCircle builds a Circle from a center direction and an angular radius
// in degrees. Negative radii collapse to the empty circle (D2 < 0, so no
// point, not even Center, satisfies Dist2(p,Center) <= D2); radii >= 180
// degrees saturate to the whole-sphere circle (D2 == 4, since secant-
// squared distance never exceeds 4).
func NewCircle(center v3.Vec, radiusDeg float64) Circle {
	switch {
	case radiusDeg < 0:
		return Circle{Center: center, D2: -1}
	case radiusDeg >= 180:
		return Circle{Center: center, D2: 4}
	default:
		return Circle{Center: center, D2: v3.SecantSquared(radiusDeg)}
	}
}

// ContainsPoint reports whether p lies within the cap.
func (c Circle) ContainsPoint(p v3.Vec) bool {
	return v3.Dist2(p, c.Center) <= c.D2
}

// Classify implements Region for Circle.
func (c Circle) Classify(t Triangle) Classification {
	return classifyCircle(t, c)
}

func classifyCircle(t Triangle, c Circle) Classification {
	if c.D2 < 0 {
		return Disjoint
	}
	v0In := v3.Dist2(t.V0, c.Center) <= c.D2
	v1In := v3.Dist2(t.V1, c.Center) <= c.D2
	v2In := v3.Dist2(t.V2, c.Center) <= c.D2
	edges := [3][2]v3.Vec{{t.V1, t.V2}, {t.V2, t.V0}, {t.V0, t.V1}}
	if v0In && v1In && v2In {
		if c.D2 <= 2 || c.D2 >= 4 {
			return Contains
		}
		// A cap wider than a hemisphere leaves an uncovered cap around
		// -Center that can cross an edge or lie inside t even though all
		// three vertices are covered.
		anti := c.Center.Scale(-1)
		hole := t.ContainsPoint(anti)
		for _, e := range edges {
			if minDist2ToArc(anti, e[0], e[1]) < 4-c.D2 {
				hole = true
			}
		}
		if !hole {
			return Contains
		}
	}

	anyEdgeHit := false
	for _, e := range edges {
		if minDist2ToArc(c.Center, e[0], e[1]) <= c.D2 {
			anyEdgeHit = true
			break
		}
	}

	if t.ContainsPoint(c.Center) {
		if anyEdgeHit {
			return Intersect
		}
		return Inside
	}
	if anyEdgeHit {
		return Intersect
	}
	return Disjoint
}
