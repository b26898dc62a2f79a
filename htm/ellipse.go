package htm

import (
	"math"

	"github.com/TillFleisch/libtinyhtm/v3"
)

// Ellipse is a spherical ellipse expressed as an elliptical cone through
// the origin: a point p is inside the ellipse iff p^T Q p <= 0 and
// p·Center >= 0 (the half-space keeps the nappe of the cone around Center
// and drops its antipodal copy). Center is the ellipse's axis direction
// (the point the cone is centered on), carried alongside Q so
// triangle/region containment tests don't need to recover it from the
// matrix.
type Ellipse struct {
	Q      [3][3]float64
	Center v3.Vec
}

// NewEllipseFromFoci builds a spherical ellipse from its two foci and its
// full angular major axis (the angular analogue of 2a in the planar
// definition: the sum of a boundary point's angular distances to the two
// foci). The minor axis follows the planar Pythagorean relation
// semiMinor^2 = semiMajor^2 - semiFocalSep^2, applied to angles rather
// than chord lengths; this is exact only for small ellipses, but spec
// leaves the from-foci construction unconstrained so any representation
// agreeing with it in that regime is acceptable. When that relation gives
// no positive minor axis (the major axis does not exceed the focal
// separation, e.g. antipodal foci), the semi-minor axis is set to 1e-9
// radians so Q stays finite.
func NewEllipseFromFoci(f1, f2 v3.Vec, majorAxisDeg float64) Ellipse {
	center := f1.Add(f2)
	cn := center.Norm()
	if cn < 1e-15 {
		// Antipodal foci: fall back to an arbitrary axis through f1.
		center = f1
		cn = 1
	}
	center = center.Scale(1 / cn)

	focalSep := math.Acos(clamp(f1.Dot(f2), -1, 1))
	semiMajor := (majorAxisDeg * math.Pi / 180) / 2
	halfSep := focalSep / 2
	semiMinorSq := semiMajor*semiMajor - halfSep*halfSep
	if semiMinorSq < 0 {
		semiMinorSq = 0
	}
	semiMinor := math.Sqrt(semiMinorSq)
	const minSemiMinor = 1e-9
	if semiMinor < minSemiMinor {
		semiMinor = minSemiMinor
	}

	u := f2.Sub(f1.Scale(f1.Dot(f2)))
	un := u.Norm()
	if un < 1e-15 {
		u = arbitraryOrthogonal(center)
	} else {
		u = u.Scale(1 / un)
	}
	v := center.Cross(u)

	return NewEllipse(center, u, v, semiMajor*180/math.Pi, semiMinor*180/math.Pi)
}

// NewEllipse builds a spherical ellipse directly from its center axis,
// an orthonormal major-axis direction majorDir and minor-axis direction
// minorDir (both tangent to the sphere at center), and the semi-major and
// semi-minor angular radii in degrees.
func NewEllipse(center, majorDir, minorDir v3.Vec, semiMajorDeg, semiMinorDeg float64) Ellipse {
	alpha := semiMajorDeg * math.Pi / 180
	beta := semiMinorDeg * math.Pi / 180
	ta := math.Tan(alpha)
	tb := math.Tan(beta)

	var q [3][3]float64
	addOuter(&q, majorDir, 1/(ta*ta))
	addOuter(&q, minorDir, 1/(tb*tb))
	addOuter(&q, center, -1)
	return Ellipse{Q: q, Center: center}
}

func addOuter(q *[3][3]float64, v v3.Vec, scale float64) {
	arr := [3]float64{v.X, v.Y, v.Z}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			q[i][j] += scale * arr[i] * arr[j]
		}
	}
}

func arbitraryOrthogonal(v v3.Vec) v3.Vec {
	if math.Abs(v.X) < 0.9 {
		return v3.Vec{X: 1}.Cross(v).Normalized()
	}
	return v3.Vec{Y: 1}.Cross(v).Normalized()
}

// Eval returns p^T Q p: negative inside the elliptical cone, positive
// outside, zero on its boundary. The cone has two nappes, so -p gives the
// same value as p; ContainsPoint adds the half-space test.
func (e Ellipse) Eval(p v3.Vec) float64 {
	return evalQuadForm(e.Q, p)
}

// ContainsPoint reports whether p lies within the ellipse.
func (e Ellipse) ContainsPoint(p v3.Vec) bool {
	return e.Eval(p) <= 0 && p.Dot(e.Center) >= 0
}

// Classify implements Region for Ellipse.
func (e Ellipse) Classify(t Triangle) Classification {
	return classifyEllipse(t, e)
}

func classifyEllipse(t Triangle, e Ellipse) Classification {
	v0In := e.ContainsPoint(t.V0)
	v1In := e.ContainsPoint(t.V1)
	v2In := e.ContainsPoint(t.V2)
	if v0In && v1In && v2In {
		return Contains
	}

	edges := [3][2]v3.Vec{{t.V1, t.V2}, {t.V2, t.V0}, {t.V0, t.V1}}
	anyEdgeHit := false
	for _, ed := range edges {
		min, max := quadraticFormArcExtrema(e.Q, ed[0], ed[1])
		if min <= 0 && max >= 0 {
			anyEdgeHit = true
			break
		}
	}

	if t.ContainsPoint(e.Center) {
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
