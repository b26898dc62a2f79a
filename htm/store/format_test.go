package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeHeaderRoundTrip(t *testing.T) {
	leaf := &NodeSpec{Index: 0, Count: 3}
	var roots [8]*NodeSpec
	roots[0] = leaf
	roots[5] = &NodeSpec{Index: 3, Count: 2}

	buf := EncodeTree(roots, 64, 5)
	h, err := DecodeHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, uint64(64), h.LeafThresh)
	assert.Equal(t, uint64(5), h.Count)
	assert.NotZero(t, h.RootOffset[0])
	assert.NotZero(t, h.RootOffset[5])
	for i, r := range roots {
		if r == nil {
			assert.Zero(t, h.RootOffset[i])
		}
	}
}

func TestDecodeNodeLeaf(t *testing.T) {
	var roots [8]*NodeSpec
	roots[0] = &NodeSpec{Index: 7, Count: 3}
	buf := EncodeTree(roots, 64, 3)
	h, err := DecodeHeader(buf)
	require.NoError(t, err)

	node, err := DecodeNode(buf, h.RootOffset[0], h.LeafThresh)
	require.NoError(t, err)
	assert.True(t, node.IsLeaf)
	assert.Equal(t, uint64(7), node.Index)
	assert.Equal(t, uint64(3), node.Count)
}

func TestDecodeNodeInternalWithChildren(t *testing.T) {
	children := [4]*NodeSpec{
		{Index: 0, Count: 1},
		nil,
		{Index: 1, Count: 1},
		nil,
	}
	spec := &NodeSpec{Index: 0, Count: 2, Children: children}
	var roots [8]*NodeSpec
	roots[3] = spec
	buf := EncodeTree(roots, 1, 2)

	h, err := DecodeHeader(buf)
	require.NoError(t, err)
	node, err := DecodeNode(buf, h.RootOffset[3], h.LeafThresh)
	require.NoError(t, err)
	assert.False(t, node.IsLeaf)
	assert.NotZero(t, node.ChildOffset[0])
	assert.Zero(t, node.ChildOffset[1])
	assert.NotZero(t, node.ChildOffset[2])
	assert.Zero(t, node.ChildOffset[3])

	child0, err := DecodeNode(buf, node.ChildOffset[0], h.LeafThresh)
	require.NoError(t, err)
	assert.True(t, child0.IsLeaf)
	assert.Equal(t, uint64(0), child0.Index)
}

func TestDecodeHeaderTruncated(t *testing.T) {
	_, err := DecodeHeader([]byte{})
	require.Error(t, err)
	se, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ETree, se.Kind)
}

func TestDecodeHeaderTruncatedMidVarint(t *testing.T) {
	// Encode(16384) is a 3-byte varint (lead + 2 follow bytes); keep only
	// the lead byte and the first follow byte, so the bounds check must
	// look past the first remaining byte to catch the shortfall instead
	// of calling Decode and panicking.
	full := Encode(16384)
	require.Len(t, full, 3)
	truncated := full[:2]

	_, err := DecodeHeader(truncated)
	require.Error(t, err)
	se, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ETree, se.Kind)
}

func TestDecodeNodeTruncatedMidChildOffset(t *testing.T) {
	// Hand-assemble an internal node record (index, count, first child
	// offset) where the child offset is a multi-byte varint, then cut it
	// one byte short.
	buf := append(Encode(0), Encode(999)...)
	childOff := Encode(16384)
	require.Len(t, childOff, 3)
	buf = append(buf, childOff[:2]...)

	_, err := DecodeNode(buf, 0, 1)
	require.Error(t, err)
	se, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ETree, se.Kind)
}

func TestEncodeTreeAllRootsAbsent(t *testing.T) {
	var roots [8]*NodeSpec
	buf := EncodeTree(roots, 64, 0)
	h, err := DecodeHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), h.Count)
	for _, off := range h.RootOffset {
		assert.Zero(t, off)
	}
}
