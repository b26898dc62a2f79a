// Command htmbench compares ScanCount's linear scan against TreeCount's
// index-guided descent across a range of catalog sizes.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"

	"github.com/TillFleisch/libtinyhtm/cmd/htmbench/metrics"
)

// config holds the benchmark's tunables. Fields first take their default
// tag value, then an HTMBENCH_-prefixed environment override, then an
// explicit flag override, in that order.
type config struct {
	Sizes      string `envconfig:"SIZES" default:"1000,10000,100000"`
	LeafThresh int    `envconfig:"LEAF_THRESH" default:"64"`
	Queries    int    `envconfig:"QUERIES" default:"200"`
	Seed       int64  `envconfig:"SEED" default:"42"`
	Out        string `envconfig:"OUT" default:""`
}

func (c config) catalogSizes() []int {
	var sizes []int
	n := 0
	have := false
	for _, r := range c.Sizes + "," {
		if r == ',' {
			if have {
				sizes = append(sizes, n)
			}
			n, have = 0, false
			continue
		}
		if r < '0' || r > '9' {
			continue
		}
		n = n*10 + int(r-'0')
		have = true
	}
	return sizes
}

func main() {
	var cfg config
	if err := envconfig.Process("HTMBENCH", &cfg); err != nil {
		log.Fatalf("envconfig: %v", err)
	}

	sizes := flag.String("sizes", cfg.Sizes, "comma-separated point catalog sizes")
	leafThresh := flag.Int("leaf-thresh", cfg.LeafThresh, "leaf threshold for index construction")
	queries := flag.Int("queries", cfg.Queries, "number of random circle queries per catalog size")
	seed := flag.Int64("seed", cfg.Seed, "PRNG seed for points and queries")
	out := flag.String("out", cfg.Out, "report path (default report/compare-<date>.csv)")
	flag.Parse()

	cfg.Sizes = *sizes
	cfg.LeafThresh = *leafThresh
	cfg.Queries = *queries
	cfg.Seed = *seed
	cfg.Out = *out

	rows, err := runCompare(cfg)
	if err != nil {
		log.Fatalf("compare: %v", err)
	}

	path := cfg.Out
	if path == "" {
		path = metrics.ReportPath("compare-")
	}
	if err := metrics.WriteCompareCSV(rows, path); err != nil {
		log.Fatalf("write report: %v", err)
	}
	fmt.Printf("wrote %d rows to %s\n", len(rows), path)
}

func writeCatalogFiles(indexBytes, pointBytes []byte, n int) (dataPath, indexPath string, cleanup func(), err error) {
	dir, err := os.MkdirTemp("", fmt.Sprintf("htmbench-%d-", n))
	if err != nil {
		return "", "", nil, fmt.Errorf("mkdtemp: %w", err)
	}
	cleanup = func() { os.RemoveAll(dir) }

	dataPath = filepath.Join(dir, "points.dat")
	if err := os.WriteFile(dataPath, pointBytes, 0644); err != nil {
		cleanup()
		return "", "", nil, fmt.Errorf("write point file: %w", err)
	}
	indexPath = filepath.Join(dir, "points.idx")
	if err := os.WriteFile(indexPath, indexBytes, 0644); err != nil {
		cleanup()
		return "", "", nil, fmt.Errorf("write index file: %w", err)
	}
	return dataPath, indexPath, cleanup, nil
}
