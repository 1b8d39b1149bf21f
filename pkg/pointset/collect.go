package pointset

import (
	"github.com/chazu/gridbox/pkg/compact"
	"github.com/chazu/gridbox/pkg/vector"
)

// Collect walks every lattice point of c at the given step (nil for the
// compact's default) into a new Set, in odometer order. A region without
// lattice points yields an empty set.
func Collect(c *compact.Compact, step vector.Vector) (*Set, error) {
	s, err := New(c.Dim())
	if err != nil {
		return nil, err
	}
	err = c.Walk(step, func(p vector.Vector, _ int) error {
		s.points = append(s.points, p)
		return nil
	})
	if err != nil && !(compact.KindOf(err) == compact.KindOutOfRange && s.Len() == 0) {
		return nil, err
	}
	return s, nil
}
