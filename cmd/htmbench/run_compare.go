package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/TillFleisch/libtinyhtm/cmd/htmbench/gen"
	"github.com/TillFleisch/libtinyhtm/cmd/htmbench/metrics"
	"github.com/TillFleisch/libtinyhtm/htm"
)

// runCompare builds a point catalog of each configured size, opens it as
// a point-file-only Tree (ScanCount baseline) and as an index-backed Tree
// (TreeCount), and reports build time plus ScanCount/TreeCount latency
// percentiles for a batch of random circle queries against each.
func runCompare(cfg config) ([]metrics.CompareRow, error) {
	var rows []metrics.CompareRow
	for _, n := range cfg.catalogSizes() {
		row, err := compareOne(n, cfg.LeafThresh, cfg.Queries, cfg.Seed)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func compareOne(n, leafThresh, queries int, seed int64) (metrics.CompareRow, error) {
	points := gen.GenerateSpherePoints(n, seed)

	metrics.GC()
	buildStart := time.Now()
	indexBytes, pointBytes, err := htm.BuildIndex(points, leafThresh)
	buildDur := time.Since(buildStart)
	if err != nil {
		return metrics.CompareRow{}, fmt.Errorf("build index for n=%d: %w", n, err)
	}
	after := metrics.Take()

	dataPath, indexPath, cleanup, err := writeCatalogFiles(indexBytes, pointBytes, n)
	if err != nil {
		return metrics.CompareRow{}, err
	}
	defer cleanup()

	scanTree, err := htm.Open(dataPath, "", 24)
	if err != nil {
		return metrics.CompareRow{}, fmt.Errorf("open scan-only tree for n=%d: %w", n, err)
	}
	defer scanTree.Close()

	indexedTree, err := htm.Open(dataPath, indexPath, 24)
	if err != nil {
		return metrics.CompareRow{}, fmt.Errorf("open indexed tree for n=%d: %w", n, err)
	}
	defer indexedTree.Close()

	r := rand.New(rand.NewSource(seed + 1))
	circles := make([]htm.Circle, queries)
	for i := range circles {
		center := points[r.Intn(len(points))]
		radiusDeg := 0.5 + r.Float64()*9.5
		circles[i] = htm.NewCircle(center, radiusDeg)
	}

	scanDurs := make([]time.Duration, queries)
	for i, c := range circles {
		start := time.Now()
		if _, err := scanTree.ScanCount(c); err != nil {
			return metrics.CompareRow{}, fmt.Errorf("scan query %d for n=%d: %w", i, n, err)
		}
		scanDurs[i] = time.Since(start)
	}

	treeDurs := make([]time.Duration, queries)
	for i, c := range circles {
		start := time.Now()
		if _, err := indexedTree.TreeCount(c); err != nil {
			return metrics.CompareRow{}, fmt.Errorf("tree query %d for n=%d: %w", i, n, err)
		}
		treeDurs[i] = time.Since(start)
	}

	scanStats := metrics.LatencyStatsFromDurations(scanDurs)
	treeStats := metrics.LatencyStatsFromDurations(treeDurs)

	speedup := 0.0
	if treeStats.P50Ms > 0 {
		speedup = scanStats.P50Ms / treeStats.P50Ms
	}

	return metrics.CompareRow{
		PointCount:  n,
		LeafThresh:  leafThresh,
		BuildDurMs:  float64(buildDur.Microseconds()) / 1000,
		ScanP50Ms:   scanStats.P50Ms,
		ScanP99Ms:   scanStats.P99Ms,
		TreeP50Ms:   treeStats.P50Ms,
		TreeP99Ms:   treeStats.P99Ms,
		Speedup:     speedup,
		HeapAllocMB: float64(after.HeapAlloc) / (1024 * 1024),
	}, nil
}
