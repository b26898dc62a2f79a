package htm

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/TillFleisch/libtinyhtm/htm/store"
	"github.com/TillFleisch/libtinyhtm/v3"
)

// BuildIndex partitions points into HTM triangles down to leafThresh and
// serializes both the resulting tree index and a leaf-contiguous
// reordering of the points themselves (bare x,y,z entries, 24 bytes
// each — payload schemas are an external-ingest concern this builder
// doesn't need to reproduce). It exists purely to make Tree's on-disk
// reader testable without the HDF5 ingest pipeline that normally
// produces these files.
func BuildIndex(points []v3.Vec, leafThresh int) (indexBytes, pointBytes []byte, err error) {
	if leafThresh < 1 {
		return nil, nil, newErr(EInv, fmt.Sprintf("BuildIndex: leafThresh must be >= 1, got %d", leafThresh))
	}

	buckets := make([][]int, RootCount)
	for i, p := range points {
		root, ok := findRoot(p)
		if !ok {
			return nil, nil, newErr(EInv, fmt.Sprintf("BuildIndex: point %d (%v) lies in no root triangle", i, p))
		}
		buckets[root] = append(buckets[root], i)
	}

	reordered := make([]v3.Vec, 0, len(points))
	var roots [8]*store.NodeSpec
	for r := Root(0); r < RootCount; r++ {
		idxs := buckets[r]
		if len(idxs) == 0 {
			continue
		}
		roots[r] = buildNode(RootTriangle(r), idxs, points, &reordered, leafThresh)
	}

	indexBytes = store.EncodeTree(roots, uint64(leafThresh), uint64(len(points)))
	pointBytes = encodePoints(reordered)
	return indexBytes, pointBytes, nil
}

func findRoot(p v3.Vec) (Root, bool) {
	for r := Root(0); r < RootCount; r++ {
		if RootTriangle(r).ContainsPoint(p) {
			return r, true
		}
	}
	return 0, false
}

// buildNode recursively partitions the points named by idxs (indices
// into the original points slice) into tri's 4 children, appending
// leaves to reordered as they're settled so every node's final [Index,
// Index+Count) range is contiguous.
func buildNode(tri Triangle, idxs []int, points []v3.Vec, reordered *[]v3.Vec, leafThresh int) *store.NodeSpec {
	base := uint64(len(*reordered))
	if len(idxs) <= leafThresh {
		for _, i := range idxs {
			*reordered = append(*reordered, points[i])
		}
		return &store.NodeSpec{Index: base, Count: uint64(len(idxs))}
	}

	w0, w1, w2 := tri.Midpoints()
	children := tri.Subdivide(w0, w1, w2)
	var childIdxs [4][]int
	for _, i := range idxs {
		p := points[i]
		placed := false
		for c := 0; c < 4; c++ {
			if children[c].ContainsPoint(p) {
				childIdxs[c] = append(childIdxs[c], i)
				placed = true
				break
			}
		}
		if !placed {
			// Numerical edge case: a point exactly on a shared edge that
			// ContainsPoint rejected from all 4 due to floating-point
			// slack. Fall back to the central child rather than drop it.
			childIdxs[3] = append(childIdxs[3], i)
		}
	}

	spec := &store.NodeSpec{Index: base, Count: uint64(len(idxs))}
	for c := 0; c < 4; c++ {
		if len(childIdxs[c]) == 0 {
			continue
		}
		spec.Children[c] = buildNode(children[c], childIdxs[c], points, reordered, leafThresh)
	}
	return spec
}

func encodePoints(points []v3.Vec) []byte {
	buf := make([]byte, 24*len(points))
	for i, p := range points {
		binary.LittleEndian.PutUint64(buf[i*24:], math.Float64bits(p.X))
		binary.LittleEndian.PutUint64(buf[i*24+8:], math.Float64bits(p.Y))
		binary.LittleEndian.PutUint64(buf[i*24+16:], math.Float64bits(p.Z))
	}
	return buf
}
