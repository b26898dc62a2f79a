package v3

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDist2MatchesSecantFormula(t *testing.T) {
	a := Vec{1, 0, 0}
	b := Vec{0, 1, 0}
	got := Dist2(a, b)
	want := 2 * (1 - a.Dot(b))
	assert.InDelta(t, want, got, 1e-12)
}

func TestDist2SamePoint(t *testing.T) {
	a := Vec{0, 0, 1}
	assert.Equal(t, 0.0, Dist2(a, a))
}

func TestNormalized(t *testing.T) {
	v := Vec{3, 4, 0}.Normalized()
	assert.InDelta(t, 1.0, v.Norm(), 1e-12)
	assert.InDelta(t, 0.6, v.X, 1e-12)
	assert.InDelta(t, 0.8, v.Y, 1e-12)
}

func TestNormalizedZero(t *testing.T) {
	assert.Equal(t, Vec{}, Vec{}.Normalized())
}

func TestMidpointIsUnitAndBetween(t *testing.T) {
	a := Vec{1, 0, 0}
	b := Vec{0, 1, 0}
	m := Midpoint(a, b)
	assert.InDelta(t, 1.0, m.Norm(), 1e-12)
	assert.True(t, m.Dot(a) > 0 && m.Dot(b) > 0)
}

func TestCrossOrthogonal(t *testing.T) {
	a := Vec{1, 0, 0}
	b := Vec{0, 1, 0}
	c := a.Cross(b)
	assert.InDelta(t, 0.0, c.Dot(a), 1e-12)
	assert.InDelta(t, 0.0, c.Dot(b), 1e-12)
	assert.InDelta(t, 1.0, c.Z, 1e-12)
}

func TestSecantSquaredDegenerateAngles(t *testing.T) {
	assert.InDelta(t, 0.0, SecantSquared(0), 1e-12)
	assert.InDelta(t, 4.0, SecantSquared(180), 1e-9)
}

func TestSecantSquaredMonotoneInRadius(t *testing.T) {
	prev := 0.0
	for _, r := range []float64{1, 10, 45, 90, 135, 179} {
		d2 := SecantSquared(r)
		assert.Greater(t, d2, prev)
		prev = d2
	}
}

func TestDist2EqualsSecantSquaredAtAngle(t *testing.T) {
	// Two unit vectors separated by angle theta have Dist2 == SecantSquared(theta-in-degrees).
	theta := 37.0
	rad := theta * math.Pi / 180.0
	a := Vec{1, 0, 0}
	b := Vec{math.Cos(rad), math.Sin(rad), 0}
	assert.InDelta(t, SecantSquared(theta), Dist2(a, b), 1e-9)
}
