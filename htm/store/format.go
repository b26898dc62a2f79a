package store

import "fmt"

// Offset convention used throughout this file: a stored offset value k
// at buffer position fieldStart means "k == 0 denotes absent; otherwise
// the target record begins at fieldStart + k". This resolves the two
// slightly inconsistent phrasings of the forward-offset contract (one
// describes it as 1 + a byte distance, the other pins it to "immediately
// after the offset field's first byte, plus k-1") in favor of the latter,
// more operationally precise one; see DESIGN.md.

// Header is the decoded form of the index file's fixed preamble.
type Header struct {
	LeafThresh uint64
	Count      uint64
	RootOffset [8]uint64 // absolute byte position of each root's record, 0 if absent
}

// NodeSpec is the in-memory, builder-time form of one tree node: used by
// EncodeTree to lay out the on-disk format. Children[i] == nil means
// that child slot is absent; a node with Count <= leafThresh is encoded
// as an inline leaf regardless of whether Children is populated.
type NodeSpec struct {
	Index, Count uint64
	Children     [4]*NodeSpec
}

// EncodeTree serializes a full 8-root tree (some roots may be absent,
// i.e. nil) into the on-disk index format: a varint header followed by
// each present root's node record, computing every forward offset via a
// single bottom-up, per-field fixed-point pass (see resolveOffsets).
func EncodeTree(roots [8]*NodeSpec, leafThresh, count uint64) []byte {
	rootBytes := make([][]byte, 8)
	rootSizes := make([]uint64, 8)
	present := make([]bool, 8)
	for i, r := range roots {
		if r == nil {
			continue
		}
		rootBytes[i] = encodeNode(r, leafThresh)
		rootSizes[i] = uint64(len(rootBytes[i]))
		present[i] = true
	}

	head := append(Encode(leafThresh), Encode(count)...)
	offsets, lens := resolveOffsets(present, rootSizes)

	total := len(head)
	for _, l := range lens {
		total += l
	}
	for _, b := range rootBytes {
		total += len(b)
	}
	buf := make([]byte, 0, total)
	buf = append(buf, head...)
	for i := 0; i < 8; i++ {
		enc := Encode(offsets[i])
		if len(enc) != lens[i] {
			panic(fmt.Sprintf("store: offset field %d resolved to length %d but encoded length is %d", i, lens[i], len(enc)))
		}
		buf = append(buf, enc...)
	}
	for _, b := range rootBytes {
		buf = append(buf, b...)
	}
	return buf
}

// encodeNode serializes one subtree: index, count, and (if count exceeds
// leafThresh) 4 child offset fields, 0 for each absent child, followed by
// each present child's subtree, in order.
func encodeNode(n *NodeSpec, leafThresh uint64) []byte {
	head := append(Encode(n.Index), Encode(n.Count)...)
	if n.Count <= leafThresh {
		return head
	}

	childBytes := make([][]byte, 4)
	childSizes := make([]uint64, 4)
	present := make([]bool, 4)
	for i, c := range n.Children {
		if c == nil {
			continue
		}
		childBytes[i] = encodeNode(c, leafThresh)
		childSizes[i] = uint64(len(childBytes[i]))
		present[i] = true
	}

	offsets, lens := resolveOffsets(present, childSizes)

	total := len(head)
	for _, l := range lens {
		total += l
	}
	for _, b := range childBytes {
		total += len(b)
	}
	buf := make([]byte, 0, total)
	buf = append(buf, head...)
	for i := 0; i < len(offsets); i++ {
		enc := Encode(offsets[i])
		buf = append(buf, enc...)
	}
	for _, b := range childBytes {
		buf = append(buf, b...)
	}
	return buf
}

// resolveOffsets computes, for a row of N sibling offset fields laid out
// contiguously and immediately followed by each present sibling's
// subtree (in order), the stored offset value and encoded byte length of
// every field.
//
// Field i's stored value is k_i = L_i + sum(L_j for j>i) + sum(S_j for
// j<i): the combined length of this field and every later field (since
// the target lies past all of them), plus the total size of every
// earlier sibling's subtree (since those are written before sibling i's
// own subtree). L_i is self-referential — encoding k_i takes L_i bytes,
// and L_i appears inside k_i — so each field is resolved by a short
// fixed-point loop; because Encode's length only grows in a few widely
// spaced tiers, this converges in at most 1-2 extra iterations.
func resolveOffsets(present []bool, sizes []uint64) (offsets []uint64, lens []int) {
	n := len(present)
	offsets = make([]uint64, n)
	lens = make([]int, n)
	sumLaterL := 0
	for i := n - 1; i >= 0; i-- {
		if !present[i] {
			offsets[i] = 0
			lens[i] = len(Encode(0))
			sumLaterL += lens[i]
			continue
		}
		var sumPrecedingS uint64
		for j := 0; j < i; j++ {
			sumPrecedingS += sizes[j]
		}
		l := 1
		for {
			k := uint64(l+sumLaterL) + sumPrecedingS
			encLen := len(Encode(k))
			if encLen == l {
				offsets[i] = k
				lens[i] = l
				break
			}
			l = encLen
		}
		sumLaterL += lens[i]
	}
	return offsets, lens
}

// varintFits reports whether a complete varint starting at buf[pos] lies
// entirely within buf, so Decode (which panics on a short buffer) is
// safe to call there.
func varintFits(buf []byte, pos int) bool {
	if pos < 0 || pos >= len(buf) {
		return false
	}
	return pos+1+NFollow(buf[pos]) <= len(buf)
}

// DecodeHeader parses the fixed preamble at the start of an index
// mapping: leafthresh, count, and 8 root offsets, each resolved to an
// absolute byte position (0 if absent).
func DecodeHeader(buf []byte) (Header, error) {
	var h Header
	pos := 0
	if !varintFits(buf, pos) {
		return h, newErr(ETree, "header: truncated before leafthresh")
	}
	lt, n := Decode(buf[pos:])
	h.LeafThresh = lt
	pos += n
	if !varintFits(buf, pos) {
		return h, newErr(ETree, "header: truncated before count")
	}
	cnt, n := Decode(buf[pos:])
	h.Count = cnt
	pos += n
	for i := 0; i < 8; i++ {
		if !varintFits(buf, pos) {
			return h, newErr(ETree, "header: truncated before root offsets")
		}
		fieldStart := pos
		k, n := Decode(buf[pos:])
		pos += n
		if k == 0 {
			h.RootOffset[i] = 0
		} else {
			h.RootOffset[i] = uint64(fieldStart) + k
		}
	}
	return h, nil
}

// Node is the decoded form of one on-disk tree node record.
type Node struct {
	Index, Count uint64
	ChildOffset  [4]uint64 // absolute byte positions, 0 if absent; unused (all zero) for leaves
	IsLeaf       bool
}

// DecodeNode parses the node record at absolute byte position pos within
// buf (the full mapped index). leafThresh comes from the file's header,
// since a node's own record doesn't repeat it.
func DecodeNode(buf []byte, pos uint64, leafThresh uint64) (Node, error) {
	var node Node
	if pos >= uint64(len(buf)) {
		return node, newErr(ETree, "node: offset out of bounds")
	}
	p := buf[pos:]
	off := 0
	if !varintFits(p, off) {
		return node, newErr(ETree, "node: truncated before index")
	}
	idx, n := Decode(p[off:])
	node.Index = idx
	off += n
	if !varintFits(p, off) {
		return node, newErr(ETree, "node: truncated before count")
	}
	cnt, n := Decode(p[off:])
	node.Count = cnt
	off += n

	if cnt <= leafThresh {
		node.IsLeaf = true
		return node, nil
	}
	for i := 0; i < 4; i++ {
		if !varintFits(p, off) {
			return node, newErr(ETree, "node: truncated before child offsets")
		}
		fieldStart := pos + uint64(off)
		k, n := Decode(p[off:])
		off += n
		if k == 0 {
			node.ChildOffset[i] = 0
		} else {
			node.ChildOffset[i] = fieldStart + k
		}
	}
	return node, nil
}
