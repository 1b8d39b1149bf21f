package vector

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Norm selects the norm used by Vector.Norm and Vector.Equals.
type Norm int

const (
	Norm1   Norm = iota // sum of absolute values
	Norm2               // euclidean
	NormInf             // max absolute value
)

func (n Norm) String() string {
	switch n {
	case Norm1:
		return "l1"
	case Norm2:
		return "l2"
	case NormInf:
		return "inf"
	default:
		return "unknown"
	}
}

// Vector is a fixed-dimension mutable coordinate tuple.
type Vector interface {
	// Dim returns the number of coordinates. It never changes.
	Dim() int

	// Coord returns coordinate i.
	Coord(i int) (float64, error)

	// SetCoord overwrites coordinate i.
	SetCoord(i int, v float64) error

	// Coords returns a copy of all coordinates.
	Coords() []float64

	// Clone returns an independent deep copy.
	Clone() Vector

	// Norm computes the requested norm.
	Norm(n Norm) (float64, error)

	// Equals reports whether the norm of the difference is below tol.
	Equals(other Vector, n Norm, tol float64) (bool, error)
}

// Compile-time interface check.
var _ Vector = (*Dense)(nil)

// Dense is a Vector backed by a float64 slice.
type Dense struct {
	vals []float64
}

// New returns a Dense vector holding a copy of coords.
func New(coords ...float64) *Dense {
	vals := make([]float64, len(coords))
	copy(vals, coords)
	return &Dense{vals: vals}
}

// Zero returns a Dense vector of dimension dim filled with zeros.
func Zero(dim int) *Dense {
	return &Dense{vals: make([]float64, dim)}
}

// Fill returns a Dense vector of dimension dim with every coordinate set to v.
func Fill(dim int, v float64) *Dense {
	d := Zero(dim)
	for i := range d.vals {
		d.vals[i] = v
	}
	return d
}

// Dim returns the number of coordinates.
func (d *Dense) Dim() int {
	return len(d.vals)
}

// Coord returns coordinate i.
func (d *Dense) Coord(i int) (float64, error) {
	if i < 0 || i >= len(d.vals) {
		return 0, &IndexError{Index: i, Dim: len(d.vals)}
	}
	return d.vals[i], nil
}

// SetCoord overwrites coordinate i.
func (d *Dense) SetCoord(i int, v float64) error {
	if i < 0 || i >= len(d.vals) {
		return &IndexError{Index: i, Dim: len(d.vals)}
	}
	d.vals[i] = v
	return nil
}

// Coords returns a copy of the coordinates.
func (d *Dense) Coords() []float64 {
	out := make([]float64, len(d.vals))
	copy(out, d.vals)
	return out
}

// Clone returns a deep copy.
func (d *Dense) Clone() Vector {
	return New(d.vals...)
}

// Norm computes the requested norm.
func (d *Dense) Norm(n Norm) (float64, error) {
	return norm(d.vals, n)
}

// Equals reports whether ||d - other|| < tol under norm n.
func (d *Dense) Equals(other Vector, n Norm, tol float64) (bool, error) {
	diff, err := Sub(d, other)
	if err != nil {
		return false, err
	}
	res, err := diff.Norm(n)
	if err != nil {
		return false, err
	}
	return res < tol, nil
}

// String formats the vector as "(x0, x1, ...)".
func (d *Dense) String() string {
	parts := make([]string, len(d.vals))
	for i, v := range d.vals {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func norm(vals []float64, n Norm) (float64, error) {
	var res float64
	switch n {
	case Norm1:
		for _, v := range vals {
			res += math.Abs(v)
		}
	case Norm2:
		for _, v := range vals {
			res += v * v
		}
		res = math.Sqrt(res)
	case NormInf:
		for _, v := range vals {
			if a := math.Abs(v); a > res {
				res = a
			}
		}
	default:
		return 0, fmt.Errorf("norm %d: %w", int(n), ErrNormNotDefined)
	}
	return res, nil
}
