package compact

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chazu/gridbox/pkg/vector"
)

// box builds a compact over [lo, hi] with the given step, failing the test on error.
func box(t *testing.T, lo, hi, step []float64) *Compact {
	t.Helper()
	var st vector.Vector
	if step != nil {
		st = vector.New(step...)
	}
	c, err := NewFactory().New(vector.New(lo...), vector.New(hi...), st)
	require.NoError(t, err)
	return c
}

func contains(t *testing.T, r Region, coords ...float64) bool {
	t.Helper()
	ok, err := r.Contains(vector.New(coords...))
	require.NoError(t, err)
	return ok
}

// samplePoints returns n reproducible points in [min, max]^dim.
func samplePoints(n, dim int, min, max float64) []vector.Vector {
	rng := rand.New(rand.NewSource(1))
	pts := make([]vector.Vector, n)
	for i := range pts {
		c := make([]float64, dim)
		for j := range c {
			c[j] = min + rng.Float64()*(max-min)
		}
		pts[i] = vector.New(c...)
	}
	return pts
}

// walk collects every lattice point of c from Begin.
func walk(t *testing.T, c *Compact, step vector.Vector) [][]float64 {
	t.Helper()
	var pts [][]float64
	err := c.Walk(step, func(p vector.Vector, _ int) error {
		pts = append(pts, p.Coords())
		return nil
	})
	require.NoError(t, err)
	return pts
}
