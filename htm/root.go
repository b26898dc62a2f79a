package htm

import "github.com/TillFleisch/libtinyhtm/v3"

// MaxLevel is HTM_MAX_LEVEL, the deepest subdivision level this package
// supports. 20 levels subdivide the sphere to sub-arcsecond triangles,
// which is as deep as a uint64 ID can address (4 bits for the root ID
// 8..15 + 2*20 path bits = 44 bits, comfortably under 64).
const MaxLevel = 20

// RootCount is the number of root triangles the sphere is split into.
const RootCount = 8

// Root identifies one of the 8 root triangles.
type Root uint8

// Root triangle identifiers. The southern cap uses the south pole as the
// shared apex, the northern cap the north pole, matching the "S0..S3,
// N0..N3" numbering named in the glossary.
const (
	RootS0 Root = 0
	RootS1 Root = 1
	RootS2 Root = 2
	RootS3 Root = 3
	RootN0 Root = 4
	RootN1 Root = 5
	RootN2 Root = 6
	RootN3 Root = 7
)

// rootVertexBase holds the 6 octahedron poles every root triangle is
// built from: north pole, +x, +y, -x, -y, south pole.
var rootVertexBase = [6]v3.Vec{
	{X: 0, Y: 0, Z: 1},
	{X: 1, Y: 0, Z: 0},
	{X: 0, Y: 1, Z: 0},
	{X: -1, Y: 0, Z: 0},
	{X: 0, Y: -1, Z: 0},
	{X: 0, Y: 0, Z: -1},
}

// rootVertexIdx[r] gives the 3 indices into rootVertexBase for root r's
// vertices, in counter-clockwise order as seen from outside the sphere.
// Northern roots share the north pole (index 0); southern roots share
// the south pole (index 5).
var rootVertexIdx = [RootCount][3]int{
	RootS0: {5, 2, 1},
	RootS1: {5, 3, 2},
	RootS2: {5, 4, 3},
	RootS3: {5, 1, 4},
	RootN0: {0, 1, 2},
	RootN1: {0, 2, 3},
	RootN2: {0, 3, 4},
	RootN3: {0, 4, 1},
}

// RootTriangle returns the level-0 triangle for root r.
func RootTriangle(r Root) Triangle {
	idx := rootVertexIdx[r]
	return Triangle{
		ID: uint64(8 + r),
		V0: rootVertexBase[idx[0]],
		V1: rootVertexBase[idx[1]],
		V2: rootVertexBase[idx[2]],
	}
}

// RootVertices returns the 8 canonical root triangles' vertex triples, in
// root order (RootS0..RootN3), each wound counter-clockwise as seen from
// outside the sphere. Equivalent to calling RootTriangle(r) for every r
// and keeping just the vertices; provided as a batch accessor for callers
// that want the whole octahedron at once.
func RootVertices() [RootCount][3]v3.Vec {
	var out [RootCount][3]v3.Vec
	for r := Root(0); r < RootCount; r++ {
		idx := rootVertexIdx[r]
		out[r] = [3]v3.Vec{rootVertexBase[idx[0]], rootVertexBase[idx[1]], rootVertexBase[idx[2]]}
	}
	return out
}

// IDRange returns the inclusive range of HTM IDs occupied by triangles at
// level in root r's subtree: [(8+r)<<2*level, (8+r+1)<<2*level - 1].
func IDRange(r Root, level int) (lo, hi uint64) {
	lo = uint64(8+r) << uint(2*level)
	hi = uint64(8+r+1)<<uint(2*level) - 1
	return lo, hi
}

// idLevel returns floor(log4(id)) - 1, the subdivision depth of the
// triangle identified by id (root triangles, id in [8,16), are level 0).
func idLevel(id uint64) int {
	k := 0
	for id > 3 {
		id >>= 2
		k++
	}
	return k - 1
}
