package htm

import "github.com/TillFleisch/libtinyhtm/v3"

// Region is anything that can be tested against an HTM Triangle and
// against individual points. Circle, Ellipse and ConvexPolygon all
// implement it.
type Region interface {
	// Classify reports how t relates to the region: Disjoint, Intersect,
	// Contains (t entirely inside the region) or Inside (the region
	// entirely inside t).
	Classify(t Triangle) Classification
	// ContainsPoint reports whether p lies within the region.
	ContainsPoint(p v3.Vec) bool
}
