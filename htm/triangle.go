package htm

import "github.com/TillFleisch/libtinyhtm/v3"

// Triangle is an HTM node: an integer ID plus the three unit-vector
// vertices, wound counter-clockwise as seen from outside the sphere.
type Triangle struct {
	ID         uint64
	V0, V1, V2 v3.Vec
}

// Level returns this triangle's subdivision depth (root triangles are
// level 0).
func (t Triangle) Level() int {
	return idLevel(t.ID)
}

// Midpoints returns the three edge midpoints, renormalized to unit
// length: w0 opposite V0 (midpoint of V1,V2), w1 opposite V1, w2 opposite
// V2. These are the points the 4-way subdivision pivots on.
func (t Triangle) Midpoints() (w0, w1, w2 v3.Vec) {
	w0 = v3.Midpoint(t.V1, t.V2)
	w1 = v3.Midpoint(t.V2, t.V0)
	w2 = v3.Midpoint(t.V0, t.V1)
	return
}

// Subdivide returns the 4 children of t, given its precomputed
// midpoints. Child 3 is the central triangle; children 0-2 each retain
// one of t's original vertices. IDs are t.ID*4 + {0,1,2,3}.
func (t Triangle) Subdivide(w0, w1, w2 v3.Vec) [4]Triangle {
	base := t.ID * 4
	return [4]Triangle{
		{ID: base + 0, V0: t.V0, V1: w2, V2: w1},
		{ID: base + 1, V0: t.V1, V1: w0, V2: w2},
		{ID: base + 2, V0: t.V2, V1: w1, V2: w0},
		{ID: base + 3, V0: w0, V1: w1, V2: w2},
	}
}

// Child returns the i-th child (0..3) of t directly, computing midpoints
// internally. Prefer Subdivide + Midpoints when visiting all 4 children,
// to compute the midpoints only once.
func (t Triangle) Child(i int) Triangle {
	w0, w1, w2 := t.Midpoints()
	return t.Subdivide(w0, w1, w2)[i]
}

// edgeNormals returns the 3 outward... actually inward-pointing plane
// normals for t's edges, oriented so a point p is inside t iff
// normal_i·p >= 0 for all 3 edges (the same convention ConvexPolygon
// uses). Edge i is opposite vertex i: edge 0 is V1->V2, etc.
func (t Triangle) edgeNormals() [3]v3.Vec {
	return [3]v3.Vec{
		t.V1.Cross(t.V2),
		t.V2.Cross(t.V0),
		t.V0.Cross(t.V1),
	}
}

// ContainsPoint reports whether p lies within t's spherical triangle
// (inclusive of the boundary).
func (t Triangle) ContainsPoint(p v3.Vec) bool {
	n := t.edgeNormals()
	return n[0].Dot(p) >= 0 && n[1].Dot(p) >= 0 && n[2].Dot(p) >= 0
}
