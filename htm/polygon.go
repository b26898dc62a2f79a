package htm

import (
	"fmt"

	"github.com/TillFleisch/libtinyhtm/v3"
)

// ConvexPolygon is a convex spherical polygon: the intersection of the
// half-spaces Normals[i]·p >= 0. Vertices is kept alongside Normals for
// containment and clipping; both are in the same counter-clockwise
// winding order required of Vertices[i], Vertices[i+1].
type ConvexPolygon struct {
	Vertices []v3.Vec
	Normals  []v3.Vec
}

// NewConvexPolygon builds a ConvexPolygon from vertices in counter-
// clockwise order (as seen from outside the sphere). Returns an error if
// fewer than 3 vertices are given or consecutive edges indicate the
// polygon is not convex (an edge normal that points more than 90 degrees
// away from the polygon's centroid).
func NewConvexPolygon(vertices []v3.Vec) (ConvexPolygon, error) {
	if len(vertices) < 3 {
		return ConvexPolygon{}, newErr(EInv, fmt.Sprintf("convex polygon needs at least 3 vertices, got %d", len(vertices)))
	}
	n := len(vertices)
	normals := make([]v3.Vec, n)
	var centroid v3.Vec
	for _, v := range vertices {
		centroid = centroid.Add(v)
	}
	for i := 0; i < n; i++ {
		a := vertices[i]
		b := vertices[(i+1)%n]
		nrm := a.Cross(b)
		if nrm.Norm() < 1e-15 {
			return ConvexPolygon{}, newErr(EInv, fmt.Sprintf("degenerate edge between vertices %d and %d", i, (i+1)%n))
		}
		normals[i] = nrm
	}
	for i, nrm := range normals {
		if nrm.Dot(centroid) < 0 {
			return ConvexPolygon{}, newErr(EInv, fmt.Sprintf("vertex list is not convex/counter-clockwise at edge %d", i))
		}
	}
	return ConvexPolygon{Vertices: vertices, Normals: normals}, nil
}

// ContainsPoint reports whether p lies within every half-space.
func (c ConvexPolygon) ContainsPoint(p v3.Vec) bool {
	for _, n := range c.Normals {
		if n.Dot(p) < 0 {
			return false
		}
	}
	return true
}

// Classify implements Region for ConvexPolygon.
func (c ConvexPolygon) Classify(t Triangle) Classification {
	return classifyPolygon(t, c)
}

func classifyPolygon(t Triangle, poly ConvexPolygon) Classification {
	allVertsIn := poly.ContainsPoint(t.V0) && poly.ContainsPoint(t.V1) && poly.ContainsPoint(t.V2)
	if allVertsIn {
		return Contains
	}

	clipped := []v3.Vec{t.V0, t.V1, t.V2}
	for _, n := range poly.Normals {
		clipped = clipConvex(clipped, n)
		if len(clipped) == 0 {
			return Disjoint
		}
	}

	allPolyVertsInTri := true
	for _, v := range poly.Vertices {
		if !t.ContainsPoint(v) {
			allPolyVertsInTri = false
			break
		}
	}
	if allPolyVertsInTri {
		return Inside
	}
	return Intersect
}
