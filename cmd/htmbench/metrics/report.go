// Package metrics collects runtime statistics for the benchmark CLI.
package metrics

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// LatencyStats summarizes a batch of query latencies.
type LatencyStats struct {
	P50Ms float64
	P95Ms float64
	P99Ms float64
	AvgMs float64
	N     int
}

// CompareRow is one row of the scan-vs-tree comparison report: build cost
// and query latency for a catalog of PointCount points, contrasting the
// linear ScanCount baseline against TreeCount's index-guided descent.
type CompareRow struct {
	PointCount  int
	LeafThresh  int
	BuildDurMs  float64
	ScanP50Ms   float64
	ScanP99Ms   float64
	TreeP50Ms   float64
	TreeP99Ms   float64
	Speedup     float64 // ScanP50Ms / TreeP50Ms
	HeapAllocMB float64
}

// Percentile returns the p-th percentile (0-100) of a sorted slice.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	idx := int(float64(len(sorted)-1) * p / 100)
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}

// LatencyStatsFromDurations computes P50/P95/P99/Avg from a list of
// observed durations.
func LatencyStatsFromDurations(durations []time.Duration) LatencyStats {
	if len(durations) == 0 {
		return LatencyStats{}
	}
	ms := make([]float64, len(durations))
	var sum float64
	for i, d := range durations {
		ms[i] = float64(d.Nanoseconds()) / 1e6
		sum += ms[i]
	}
	sort.Float64s(ms)
	return LatencyStats{
		P50Ms: Percentile(ms, 50),
		P95Ms: Percentile(ms, 95),
		P99Ms: Percentile(ms, 99),
		AvgMs: sum / float64(len(ms)),
		N:     len(ms),
	}
}

// WriteCompareCSV writes the scan-vs-tree comparison report.
func WriteCompareCSV(rows []CompareRow, path string) error {
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	w.Write([]string{"PointCount", "LeafThresh", "BuildDurMs", "ScanP50Ms", "ScanP99Ms", "TreeP50Ms", "TreeP99Ms", "Speedup", "HeapAllocMB"})
	for _, r := range rows {
		w.Write([]string{
			fmt.Sprintf("%d", r.PointCount),
			fmt.Sprintf("%d", r.LeafThresh),
			fmt.Sprintf("%.2f", r.BuildDurMs),
			fmt.Sprintf("%.2f", r.ScanP50Ms),
			fmt.Sprintf("%.2f", r.ScanP99Ms),
			fmt.Sprintf("%.2f", r.TreeP50Ms),
			fmt.Sprintf("%.2f", r.TreeP99Ms),
			fmt.Sprintf("%.2f", r.Speedup),
			fmt.Sprintf("%.2f", r.HeapAllocMB),
		})
	}
	w.Flush()
	return w.Error()
}

// ReportDir is the default report output directory.
const ReportDir = "report"

// ReportPath builds a date-stamped report path under ReportDir.
func ReportPath(prefix string) string {
	return filepath.Join(ReportDir, prefix+time.Now().Format("20060102")+".csv")
}

// WriteJSON writes v as indented JSON to path.
func WriteJSON(v interface{}, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
