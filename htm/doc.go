// Package htm implements a Hierarchical Triangular Mesh (HTM) spatial
// search engine over points on the unit sphere: the recursive 8-root
// triangle decomposition, the four-valued region/triangle classification
// (Disjoint/Intersect/Contains/Inside), the adaptive ID-range enumerator,
// and the tree-walking query engine that consults a memory-mapped
// on-disk index plus point file.
//
// Quick start:
//
//	tree, err := htm.Open("catalog.dat", "catalog.idx", 24)
//	if err != nil { ... }
//	defer tree.Close()
//	circle := htm.NewCircle(v3.Vec{X: 1, Y: 0, Z: 0}, 0.5)
//	n, err := tree.TreeCount(circle)
package htm
