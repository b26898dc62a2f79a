package htm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDListSimplifyCoalescesAdjacentAndOverlapping(t *testing.T) {
	l := &IDList{}
	l.Add(10, 20)
	l.Add(21, 25)
	l.Add(30, 40)
	l.Add(35, 45)
	l.Simplify()

	assert.Equal(t, []Range{{10, 25}, {30, 45}}, l.Ranges)
}

func TestIDListSimplifySortsOutOfOrderInput(t *testing.T) {
	l := &IDList{}
	l.Add(100, 110)
	l.Add(0, 5)
	l.Add(50, 60)
	l.Simplify()

	assert.Len(t, l.Ranges, 3)
	assert.Equal(t, uint64(0), l.Ranges[0].Lo)
	assert.Equal(t, uint64(50), l.Ranges[1].Lo)
	assert.Equal(t, uint64(100), l.Ranges[2].Lo)
}

func TestIDListCount(t *testing.T) {
	l := &IDList{}
	l.Add(0, 9)
	l.Add(20, 29)
	l.Simplify()
	assert.Equal(t, uint64(20), l.Count())
}

func TestIDListAddRejectsInvertedRange(t *testing.T) {
	l := &IDList{}
	l.Add(10, 5)
	assert.Empty(t, l.Ranges)
}

func TestDemoteIDListRoundsToBlockBoundary(t *testing.T) {
	l := &IDList{}
	l.Add(5, 6)
	demoteIDList(l, 2) // block size 4
	assert.Equal(t, []Range{{4, 7}}, l.Ranges)
}
