package htm

import (
	"math"

	"github.com/TillFleisch/libtinyhtm/v3"
)

// onArc reports whether q, known to lie on the great circle through va and
// vb, lies on the minor arc between them (inclusive of endpoints). n must
// be va.Cross(vb) (any positive scalar multiple works, the test is
// sign-only).
func onArc(va, vb, n, q v3.Vec) bool {
	const eps = -1e-12
	return n.Dot(va.Cross(q)) >= eps && n.Dot(q.Cross(vb)) >= eps
}

// closestOnArc returns the point on the geodesic segment [va,vb] closest
// to c, by projecting c onto the great circle through va,vb and clamping
// to the arc if the projection falls outside it.
func closestOnArc(c, va, vb v3.Vec) v3.Vec {
	n := va.Cross(vb)
	nn := n.Norm()
	if nn < 1e-15 {
		// va and vb (nearly) coincide; either endpoint is a valid answer.
		return va
	}
	nHat := n.Scale(1.0 / nn)
	proj := c.Sub(nHat.Scale(c.Dot(nHat)))
	pn := proj.Norm()
	if pn < 1e-15 {
		// c sits at the pole of this great circle: every point on the
		// circle is equidistant, so any point on the arc is a valid
		// closest point.
		return va
	}
	q := proj.Scale(1.0 / pn)
	if onArc(va, vb, n, q) {
		return q
	}
	if v3.Dist2(c, va) <= v3.Dist2(c, vb) {
		return va
	}
	return vb
}

// minDist2ToArc returns the minimum squared chord distance from c to the
// geodesic segment [va,vb].
func minDist2ToArc(c, va, vb v3.Vec) float64 {
	return v3.Dist2(c, closestOnArc(c, va, vb))
}

// greatCircleCrossing returns the point where the great circle through
// va,vb crosses the plane with normal n (n·p == 0), restricted to the arc
// [va,vb], plus whether such a crossing exists on that arc.
func greatCircleCrossing(va, vb, n v3.Vec) (v3.Vec, bool) {
	abn := va.Cross(vb)
	d := abn.Cross(n)
	dn := d.Norm()
	if dn < 1e-15 {
		return v3.Vec{}, false
	}
	d = d.Scale(1.0 / dn)
	if onArc(va, vb, abn, d) {
		return d, true
	}
	neg := d.Scale(-1)
	if onArc(va, vb, abn, neg) {
		return neg, true
	}
	return v3.Vec{}, false
}

// clipConvex runs one Sutherland-Hodgman pass, clipping the convex
// spherical polygon poly (vertices in order) against the half-space
// normal·p >= 0. Returns the clipped vertex list, which may be empty.
func clipConvex(poly []v3.Vec, normal v3.Vec) []v3.Vec {
	if len(poly) == 0 {
		return nil
	}
	out := make([]v3.Vec, 0, len(poly)+1)
	n := len(poly)
	for i := 0; i < n; i++ {
		cur := poly[i]
		next := poly[(i+1)%n]
		curIn := normal.Dot(cur) >= 0
		nextIn := normal.Dot(next) >= 0
		if curIn {
			out = append(out, cur)
		}
		if curIn != nextIn {
			if cp, ok := greatCircleCrossing(cur, next, normal); ok {
				out = append(out, cp)
			}
		}
	}
	return out
}

// quadraticFormArcExtrema returns the minimum and maximum of p^T Q p over
// the geodesic arc [va,vb], where Q is a symmetric 3x3 matrix. Used to
// test whether a triangle edge crosses an ellipse boundary.
func quadraticFormArcExtrema(q [3][3]float64, va, vb v3.Vec) (min, max float64) {
	u := vb.Sub(va.Scale(va.Dot(vb)))
	un := u.Norm()
	thetaMax := math.Acos(clamp(va.Dot(vb), -1, 1))
	if un < 1e-15 || thetaMax < 1e-12 {
		v := evalQuadForm(q, va)
		return v, v
	}
	u = u.Scale(1.0 / un)

	A := evalBilinear(q, va, va)
	B := evalBilinear(q, u, u)
	C := evalBilinear(q, va, u)

	M := (A + B) / 2
	P := (A - B) / 2
	R := C
	K := math.Hypot(P, R)

	f := func(theta float64) float64 {
		c2, s2 := math.Cos(2*theta), math.Sin(2*theta)
		return M + P*c2 + R*s2
	}

	fa := f(0)
	fb := f(thetaMax)
	min, max = fa, fa
	if fb < min {
		min = fb
	}
	if fb > max {
		max = fb
	}
	if K > 1e-15 {
		// Critical 2*theta where f attains M+K (max) and M-K (min).
		phi := math.Atan2(R, P)
		for _, twoTheta := range []float64{phi, phi + math.Pi} {
			theta := twoTheta / 2
			// Normalize theta into [0, pi) then check both theta and
			// theta+pi land in [0, thetaMax] modulo a full period of pi
			// in 2*theta (i.e. period pi/1 in theta... 2*theta periodic
			// by 2*pi means theta periodic by pi).
			t := math.Mod(theta, math.Pi)
			if t < 0 {
				t += math.Pi
			}
			if t >= 0 && t <= thetaMax {
				v := f(t)
				if v < min {
					min = v
				}
				if v > max {
					max = v
				}
			}
		}
	}
	return min, max
}

func evalQuadForm(q [3][3]float64, p v3.Vec) float64 {
	return evalBilinear(q, p, p)
}

func evalBilinear(q [3][3]float64, a, b v3.Vec) float64 {
	av := [3]float64{a.X, a.Y, a.Z}
	bv := [3]float64{b.X, b.Y, b.Z}
	var qb [3]float64
	for i := 0; i < 3; i++ {
		qb[i] = q[i][0]*bv[0] + q[i][1]*bv[1] + q[i][2]*bv[2]
	}
	return av[0]*qb[0] + av[1]*qb[1] + av[2]*qb[2]
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
