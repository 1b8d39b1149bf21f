package compact

import (
	"fmt"
	"math"

	"github.com/chazu/gridbox/pkg/vector"
)

// LowerBound returns the coordinate-wise minimum of a and b as a clone of a.
func LowerBound(a, b vector.Vector) (vector.Vector, error) {
	return envelope(a, b, math.Min)
}

// UpperBound returns the coordinate-wise maximum of a and b as a clone of a.
func UpperBound(a, b vector.Vector) (vector.Vector, error) {
	return envelope(a, b, math.Max)
}

// AbsStep returns a clone of step with every coordinate replaced by its
// absolute value. Steps are stored as magnitudes regardless of input sign.
func AbsStep(step vector.Vector) (vector.Vector, error) {
	if step == nil {
		return nil, fmt.Errorf("step: %w", ErrInvalidArgument)
	}
	out := step.Clone()
	for i, c := range step.Coords() {
		if err := out.SetCoord(i, math.Abs(c)); err != nil {
			return nil, fmt.Errorf("%w: set step coordinate %d: %w", ErrUnspecified, i, err)
		}
	}
	return out, nil
}

func envelope(a, b vector.Vector, pick func(x, y float64) float64) (vector.Vector, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("bound: %w", ErrInvalidArgument)
	}
	if a.Dim() != b.Dim() {
		return nil, dimensionError(a.Dim(), b.Dim())
	}
	out := a.Clone()
	av, bv := a.Coords(), b.Coords()
	for i := range av {
		if err := out.SetCoord(i, pick(av[i], bv[i])); err != nil {
			return nil, fmt.Errorf("%w: set bound coordinate %d: %w", ErrUnspecified, i, err)
		}
	}
	return out, nil
}
