// Package v3 provides unit-vector arithmetic on the sphere: dot/cross
// products, normalization, and the secant-squared distance used
// throughout the htm package as a monotone proxy for angular distance.
package v3

import "math"

// Vec is a point on or direction toward the unit sphere, or more
// generally any vector in R^3. Normalization is caller-maintained for
// inputs; operations that are defined to produce unit vectors (Cross
// followed by Normalized, Midpoint) renormalize internally.
type Vec struct {
	X, Y, Z float64
}

// Dot returns the dot product a·b.
func (a Vec) Dot(b Vec) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns the cross product a×b.
func (a Vec) Cross(b Vec) Vec {
	return Vec{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

// Add returns a+b.
func (a Vec) Add(b Vec) Vec {
	return Vec{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns a-b.
func (a Vec) Sub(b Vec) Vec {
	return Vec{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Scale returns a scaled by s.
func (a Vec) Scale(s float64) Vec {
	return Vec{a.X * s, a.Y * s, a.Z * s}
}

// Norm returns the Euclidean length of a.
func (a Vec) Norm() float64 {
	return math.Sqrt(a.Dot(a))
}

// Normalized returns a scaled to unit length. Returns the zero vector if
// a is (numerically) the zero vector.
func (a Vec) Normalized() Vec {
	n := a.Norm()
	if n < 1e-15 {
		return Vec{}
	}
	return a.Scale(1.0 / n)
}

// Dist2 returns the squared chord length |a-b|^2. For unit vectors this
// equals 2(1-a·b), the secant-squared distance used as a monotone proxy
// for angular separation.
func Dist2(a, b Vec) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}

// Midpoint returns the midpoint of a and b on the sphere: the sum of the
// two (assumed unit) vectors, renormalized to unit length. Used when
// subdividing an HTM triangle edge.
func Midpoint(a, b Vec) Vec {
	return a.Add(b).Normalized()
}

// SecantSquared converts an angular radius in degrees to the
// secant-squared (chord-squared) distance threshold 4*sin^2(r/2) used by
// Circle and by the HTM range enumerator.
func SecantSquared(radiusDeg float64) float64 {
	s := math.Sin(radiusDeg * 0.5 * math.Pi / 180.0)
	return 4.0 * s * s
}
