package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVarintRoundTrip(t *testing.T) {
	values := []uint64{
		0, 1, 126, 127, 128, 16383, 16384,
		2097151, 2097152, 1<<32 - 1, 1 << 32, 1<<56 - 1, 1 << 56,
		1<<64 - 2, 1<<64 - 1,
	}
	for _, x := range values {
		enc := Encode(x)
		got, n := Decode(enc)
		assert.Equal(t, x, got, "round trip for %d", x)
		assert.Equal(t, len(enc), n, "consumed length for %d", x)
	}
}

func TestVarintNFollowBoundaries(t *testing.T) {
	assert.Equal(t, 0, NFollow(0x00))
	assert.Equal(t, 0, NFollow(0x7F))
	assert.Equal(t, 1, NFollow(0x80))
	assert.Equal(t, 1, NFollow(0xBF))
	assert.Equal(t, 6, NFollow(0xFC))
	assert.Equal(t, 7, NFollow(0xFE))
	assert.Equal(t, 8, NFollow(0xFF))
}

func TestVarintMonotoneLength(t *testing.T) {
	prevLen := 0
	for _, x := range []uint64{0, 127, 128, 16383, 16384, 1<<64 - 1} {
		l := len(Encode(x))
		assert.GreaterOrEqual(t, l, prevLen)
		prevLen = l
	}
}
