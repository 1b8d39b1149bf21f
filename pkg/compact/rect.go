package compact

import (
	"fmt"
	"math"

	"github.com/chazu/gridbox/pkg/vector"
)

// Rect is a closed axis-aligned box [lower, upper] with a default lattice
// step. It is immutable after construction.
type Rect struct {
	// lower[i] <= upper[i], step[i] >= 0
	lower, upper, step vector.Vector

	// coordinate caches of the vectors above
	lo, hi, st []float64
}

// newRect takes ownership of already normalized vectors.
func newRect(lower, upper, step vector.Vector) *Rect {
	return &Rect{
		lower: lower,
		upper: upper,
		step:  step,
		lo:    lower.Coords(),
		hi:    upper.Coords(),
		st:    step.Coords(),
	}
}

// Dim returns the dimension of the box.
func (r *Rect) Dim() int {
	return len(r.lo)
}

// Lower returns a copy of the lower corner.
func (r *Rect) Lower() vector.Vector { return r.lower.Clone() }

// Upper returns a copy of the upper corner.
func (r *Rect) Upper() vector.Vector { return r.upper.Clone() }

// Step returns a copy of the default lattice step.
func (r *Rect) Step() vector.Vector { return r.step.Clone() }

// Contains reports whether lower[i] <= v[i] <= upper[i] in every dimension.
func (r *Rect) Contains(v vector.Vector) (bool, error) {
	if v == nil {
		return false, fmt.Errorf("contains: %w", ErrInvalidArgument)
	}
	if v.Dim() != r.Dim() {
		return false, dimensionError(r.Dim(), v.Dim())
	}
	for i, x := range v.Coords() {
		if !(x >= r.lo[i] && x <= r.hi[i]) {
			return false, nil
		}
	}
	return true, nil
}

// IsSubsetOf reports whether both corners of r are inside other.
// The answer is exact only when other is convex.
func (r *Rect) IsSubsetOf(other Region) (bool, error) {
	return cornersInside(r.lower, r.upper, other)
}

// NearestNeighbor returns the lattice point of r closest to v, computed
// independently per dimension. The result is a fresh vector.
func (r *Rect) NearestNeighbor(v vector.Vector) (vector.Vector, error) {
	if v == nil {
		return nil, fmt.Errorf("nearest neighbor: %w", ErrInvalidArgument)
	}
	if v.Dim() != r.Dim() {
		return nil, dimensionError(r.Dim(), v.Dim())
	}
	nn := v.Clone()
	for i, x := range v.Coords() {
		if err := nn.SetCoord(i, snap(x, r.lo[i], r.hi[i], r.st[i])); err != nil {
			return nil, fmt.Errorf("%w: set nearest coordinate %d: %w", ErrUnspecified, i, err)
		}
	}
	return nn, nil
}

// Clone returns a deep copy.
func (r *Rect) Clone() *Rect {
	return newRect(r.lower.Clone(), r.upper.Clone(), r.step.Clone())
}

func (r *Rect) bounds() (lo, hi []float64) { return r.lo, r.hi }

func (r *Rect) cloneMember() member { return r.Clone() }

// snap projects x onto the lattice lo, lo+st, ... clipped to [lo, hi].
// The candidates are the last lattice value not beyond min(x, hi) and the
// following lattice value clamped to hi; ties go to the lower candidate.
func snap(x, lo, hi, st float64) float64 {
	if x <= lo || st == 0 {
		return lo
	}
	target := math.Min(x, hi)
	below := lo + math.Floor((target-lo)/st)*st
	if below > target {
		below -= st
	}
	above := math.Min(below+st, hi)
	if math.Abs(x-above) < math.Abs(x-below) {
		return above
	}
	return below
}

func cornersInside(lower, upper vector.Vector, other Region) (bool, error) {
	if other == nil {
		return false, fmt.Errorf("subset: %w", ErrInvalidArgument)
	}
	ok, err := other.Contains(lower)
	if err != nil || !ok {
		return false, err
	}
	return other.Contains(upper)
}
