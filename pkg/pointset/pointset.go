// Package pointset provides an ordered collection of same-dimension points
// with tolerance-based membership and tracked cursors. It is used to
// collect the lattice points produced by a compact walk.
package pointset

import (
	"fmt"

	"github.com/chazu/gridbox/pkg/compact"
	"github.com/chazu/gridbox/pkg/vector"
)

// DefaultTolerance is the inf-norm distance under which two points are
// considered equal by Contains.
const DefaultTolerance = 1e-8

// Set is an ordered list of points of a fixed dimension. Points are cloned
// on insertion and on retrieval. A Set is not safe for concurrent use.
type Set struct {
	dim     int
	tol     float64
	points  []vector.Vector
	cursors map[*Cursor]struct{}
}

// New returns an empty set of the given dimension.
func New(dim int) (*Set, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("pointset: dimension %d: %w", dim, compact.ErrInvalidArgument)
	}
	return &Set{
		dim:     dim,
		tol:     DefaultTolerance,
		cursors: make(map[*Cursor]struct{}),
	}, nil
}

// Dim returns the dimension of every point in the set.
func (s *Set) Dim() int { return s.dim }

// Len returns the number of points.
func (s *Set) Len() int { return len(s.points) }

// Put appends a copy of p.
func (s *Set) Put(p vector.Vector) error {
	if err := s.check(p); err != nil {
		return err
	}
	s.points = append(s.points, p.Clone())
	return nil
}

// Get returns a copy of the point at index i.
func (s *Set) Get(i int) (vector.Vector, error) {
	if i < 0 || i >= len(s.points) {
		return nil, fmt.Errorf("pointset: index %d of %d: %w", i, len(s.points), compact.ErrOutOfRange)
	}
	return s.points[i].Clone(), nil
}

// Remove deletes the point at index i. Cursors positioned on it are
// released; cursors past it move back by one so they keep their point.
func (s *Set) Remove(i int) error {
	if i < 0 || i >= len(s.points) {
		return fmt.Errorf("pointset: index %d of %d: %w", i, len(s.points), compact.ErrOutOfRange)
	}
	for c := range s.cursors {
		switch {
		case c.pos == i:
			delete(s.cursors, c)
			c.released = true
		case c.pos > i:
			c.pos--
		}
	}
	s.points = append(s.points[:i], s.points[i+1:]...)
	return nil
}

// Contains reports whether some point lies within the set tolerance of p
// under the inf-norm.
func (s *Set) Contains(p vector.Vector) (bool, error) {
	if err := s.check(p); err != nil {
		return false, err
	}
	for _, q := range s.points {
		eq, err := p.Equals(q, vector.NormInf, s.tol)
		if err != nil {
			return false, err
		}
		if eq {
			return true, nil
		}
	}
	return false, nil
}

// Clear removes every point and releases every cursor.
func (s *Set) Clear() {
	s.points = nil
	for c := range s.cursors {
		c.released = true
	}
	s.cursors = make(map[*Cursor]struct{})
}

func (s *Set) check(p vector.Vector) error {
	if p == nil {
		return fmt.Errorf("pointset: %w", compact.ErrInvalidArgument)
	}
	if p.Dim() != s.dim {
		return &vector.DimensionError{Expected: s.dim, Actual: p.Dim()}
	}
	return nil
}
