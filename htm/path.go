package htm

import "github.com/TillFleisch/libtinyhtm/v3"

// pathNode is one level of a depth-first HTM descent: the triangle at
// this level, its lazily-computed edge midpoints, and a child cursor.
// child runs 0..3 while descending; child == 4 means every child of this
// node has been visited and the walk should ascend.
type pathNode struct {
	tri        Triangle
	w0, w1, w2 v3.Vec
	midsValid  bool
	child      int
}

func (n *pathNode) midpoints() (v3.Vec, v3.Vec, v3.Vec) {
	if !n.midsValid {
		n.w0, n.w1, n.w2 = n.tri.Midpoints()
		n.midsValid = true
	}
	return n.w0, n.w1, n.w2
}

// nodePath is a fixed-capacity depth-first traversal stack, sized to the
// deepest possible descent (MaxLevel+1 levels), so no heap allocation is
// needed while walking. depth is the index of the current (top) node;
// depth == -1 means the stack is empty.
type nodePath struct {
	nodes [MaxLevel + 1]pathNode
	depth int
}

// reset starts a fresh descent at root r.
func (p *nodePath) reset(r Root) {
	p.depth = 0
	p.nodes[0] = pathNode{tri: RootTriangle(r), child: 0}
}

// top returns the current (deepest) node on the stack.
func (p *nodePath) top() *pathNode {
	return &p.nodes[p.depth]
}

// level returns the current stack depth (0 == root).
func (p *nodePath) level() int {
	return p.depth
}

// pushChild descends into the i-th child of the current top node,
// computing its vertices from the parent's (possibly cached) midpoints.
// Panics if the stack is already at MaxLevel depth — callers must check
// p.level() < MaxLevel before calling, which the descent in ids.go
// always does.
func (p *nodePath) pushChild(i int) {
	cur := p.top()
	w0, w1, w2 := cur.midpoints()
	child := cur.tri.Subdivide(w0, w1, w2)[i]
	p.depth++
	p.nodes[p.depth] = pathNode{tri: child, child: 0}
}

// pop ascends one level. Returns false if the stack is already empty
// (depth < 0 after popping the root).
func (p *nodePath) pop() bool {
	p.depth--
	return p.depth >= 0
}
