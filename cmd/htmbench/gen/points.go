// Package gen generates synthetic point catalogs for the benchmark CLI.
package gen

import (
	"math"
	"math/rand"

	"github.com/TillFleisch/libtinyhtm/v3"
)

// GenerateSpherePoints returns n points drawn uniformly at random on the
// unit sphere, seeded deterministically for reproducible benchmark runs.
func GenerateSpherePoints(n int, seed int64) []v3.Vec {
	r := rand.New(rand.NewSource(seed))
	points := make([]v3.Vec, n)
	for i := range points {
		// Marsaglia's method: uniform on the sphere via two uniform
		// disk coordinates, avoids the pole-clustering bias of
		// naive lat/lon sampling.
		var x1, x2, s float64
		for {
			x1 = 2*r.Float64() - 1
			x2 = 2*r.Float64() - 1
			s = x1*x1 + x2*x2
			if s < 1 {
				break
			}
		}
		factor := 2 * math.Sqrt(1-s)
		points[i] = v3.Vec{
			X: x1 * factor,
			Y: x2 * factor,
			Z: 1 - 2*s,
		}
	}
	return points
}
