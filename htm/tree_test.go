package htm

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TillFleisch/libtinyhtm/v3"
)

func writeTestTree(t *testing.T, points []v3.Vec, leafThresh int) (dataPath, indexPath string) {
	t.Helper()
	indexBytes, pointBytes, err := BuildIndex(points, leafThresh)
	require.NoError(t, err)

	dir := t.TempDir()
	dataPath = filepath.Join(dir, "points.dat")
	indexPath = filepath.Join(dir, "points.idx")
	require.NoError(t, os.WriteFile(dataPath, pointBytes, 0644))
	require.NoError(t, os.WriteFile(indexPath, indexBytes, 0644))
	return dataPath, indexPath
}

func TestNilTreeReturnsENullPtrInsteadOfPanicking(t *testing.T) {
	var tree *Tree
	c := NewCircle(v3.Vec{X: 1, Y: 0, Z: 0}, 5)

	_, err := tree.ScanCount(c)
	require.Error(t, err)
	assert.Equal(t, ENullPtr, err.(*Error).Kind)

	_, err = tree.TreeCount(c)
	require.Error(t, err)
	assert.Equal(t, ENullPtr, err.(*Error).Kind)

	_, err = tree.TreeCallback(c, func(PointView) bool { return false })
	require.Error(t, err)
	assert.Equal(t, ENullPtr, err.(*Error).Kind)
}

func TestOpenRejectsSmallEntrySize(t *testing.T) {
	dataPath, indexPath := writeTestTree(t, randomSpherePoints(10, 4), 4)
	_, err := Open(dataPath, indexPath, 16)
	require.Error(t, err)
	assert.Equal(t, EInv, err.(*Error).Kind)
}

func TestOpenPointFileOnlyFallsBackToScan(t *testing.T) {
	points := randomSpherePoints(300, 5)
	dataPath, _ := writeTestTree(t, points, 32)

	tree, err := Open(dataPath, "", 24)
	require.NoError(t, err)
	defer tree.Close()

	c := NewCircle(points[0], 90)
	n, err := tree.TreeCount(c)
	require.NoError(t, err)
	scanN, err := tree.ScanCount(c)
	require.NoError(t, err)
	assert.Equal(t, scanN, n)
}

func TestTreeCountMatchesScanCountAcrossCircles(t *testing.T) {
	points := randomSpherePoints(2000, 6)
	dataPath, indexPath := writeTestTree(t, points, 32)

	tree, err := Open(dataPath, indexPath, 24)
	require.NoError(t, err)
	defer tree.Close()

	for i, radius := range []float64{1, 5, 15, 45, 90} {
		c := NewCircle(points[i*100%len(points)], radius)
		want, err := tree.ScanCount(c)
		require.NoError(t, err)
		got, err := tree.TreeCount(c)
		require.NoError(t, err)
		assert.Equal(t, want, got, "radius %v", radius)
	}
}

func TestTreeCountMatchesScanCountForPolygon(t *testing.T) {
	points := randomSpherePoints(1500, 7)
	dataPath, indexPath := writeTestTree(t, points, 24)

	tree, err := Open(dataPath, indexPath, 24)
	require.NoError(t, err)
	defer tree.Close()

	verts := []v3.Vec{
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
	}
	poly, err := NewConvexPolygon(verts)
	require.NoError(t, err)

	want, err := tree.ScanCount(poly)
	require.NoError(t, err)
	got, err := tree.TreeCount(poly)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTreeCountEmptyCircleIsZero(t *testing.T) {
	points := randomSpherePoints(100, 8)
	dataPath, indexPath := writeTestTree(t, points, 16)

	tree, err := Open(dataPath, indexPath, 24)
	require.NoError(t, err)
	defer tree.Close()

	empty := NewCircle(points[0], -1)
	n, err := tree.TreeCount(empty)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestTreeCountWholeSphereMatchesTotalCount(t *testing.T) {
	points := randomSpherePoints(500, 9)
	dataPath, indexPath := writeTestTree(t, points, 16)

	tree, err := Open(dataPath, indexPath, 24)
	require.NoError(t, err)
	defer tree.Close()

	whole := NewCircle(points[0], 200)
	n, err := tree.TreeCount(whole)
	require.NoError(t, err)
	assert.Equal(t, int64(len(points)), n)

	scanN, err := tree.ScanCount(whole)
	require.NoError(t, err)
	assert.Equal(t, int64(len(points)), scanN)
}

func TestTreeCountSinglePointTinyCircle(t *testing.T) {
	points := []v3.Vec{{X: 1, Y: 0, Z: 0}}
	dataPath, indexPath := writeTestTree(t, points, 4)

	tree, err := Open(dataPath, indexPath, 24)
	require.NoError(t, err)
	defer tree.Close()

	c := NewCircle(v3.Vec{X: 1, Y: 0, Z: 0}, 0.001)
	n, err := tree.TreeCount(c)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	scanN, err := tree.ScanCount(c)
	require.NoError(t, err)
	assert.Equal(t, int64(1), scanN)
}

func TestTreeCountTenEquatorPointsNearPoleRadius(t *testing.T) {
	points := make([]v3.Vec, 10)
	for i := range points {
		angle := float64(i) * 2 * math.Pi / 10
		points[i] = v3.Vec{X: math.Cos(angle), Y: math.Sin(angle), Z: 0}
	}
	dataPath, indexPath := writeTestTree(t, points, 4)

	tree, err := Open(dataPath, indexPath, 24)
	require.NoError(t, err)
	defer tree.Close()

	pole := v3.Vec{X: 0, Y: 0, Z: 1}

	n89, err := tree.TreeCount(NewCircle(pole, 89))
	require.NoError(t, err)
	assert.Equal(t, int64(0), n89)
	scan89, err := tree.ScanCount(NewCircle(pole, 89))
	require.NoError(t, err)
	assert.Equal(t, int64(0), scan89)

	n91, err := tree.TreeCount(NewCircle(pole, 91))
	require.NoError(t, err)
	assert.Equal(t, int64(10), n91)
	scan91, err := tree.ScanCount(NewCircle(pole, 91))
	require.NoError(t, err)
	assert.Equal(t, int64(10), scan91)
}

func TestOpenDetectsCountMismatch(t *testing.T) {
	points := randomSpherePoints(200, 10)
	dataPath, indexPath := writeTestTree(t, points, 16)

	truncated := dataPath + ".short"
	orig, err := os.ReadFile(dataPath)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(truncated, orig[:len(orig)-24], 0644))

	_, err = Open(truncated, indexPath, 24)
	require.Error(t, err)
	assert.Equal(t, ETree, err.(*Error).Kind)
}

func TestTreeCallbackVisitsEveryMatchAndCanStopEarly(t *testing.T) {
	points := randomSpherePoints(1000, 11)
	dataPath, indexPath := writeTestTree(t, points, 32)

	tree, err := Open(dataPath, indexPath, 24)
	require.NoError(t, err)
	defer tree.Close()

	c := NewCircle(points[0], 60)
	want, err := tree.ScanCount(c)
	require.NoError(t, err)

	var visited int64
	got, err := tree.TreeCallback(c, func(PointView) bool {
		visited++
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, want, visited)

	var stoppedAfter int64
	_, err = tree.TreeCallback(c, func(PointView) bool {
		stoppedAfter++
		return stoppedAfter == 1
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), stoppedAfter)
}

func TestLockSkipsLargePointFile(t *testing.T) {
	points := randomSpherePoints(50, 12)
	dataPath, indexPath := writeTestTree(t, points, 8)

	tree, err := Open(dataPath, indexPath, 24)
	require.NoError(t, err)
	defer tree.Close()

	err = tree.Lock(0)
	require.NoError(t, err)
}
