package compact

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/chazu/gridbox/pkg/vector"
)

// Iterator walks the lattice points of a compact in row-major (odometer)
// order: dimension 0 varies fastest. It is created Active by Compact.Begin or
// Compact.End and becomes Exhausted once Step runs past the last point.
// Exhausted is terminal; the iterator must still be released.
//
// Every Step restarts the carry chain at dimension 0; the recorded axis is
// reported through Axis and is not used to resume stepping. Membership is
// re-tested against the owner's current terms, so points removed from the
// owner after the iterator was issued are skipped.
type Iterator struct {
	owner *Compact

	// envelope captured at creation
	lo, hi []float64
	step   []float64
	pos    []float64

	// highest dimension advanced by the last successful Step
	lastDim int

	exhausted bool
	released  bool
}

// Begin returns an iterator positioned at the first lattice point of c,
// starting from the lower envelope corner. A nil step uses the compact's
// default step; otherwise the absolute value of step is used.
func (c *Compact) Begin(step vector.Vector) (*Iterator, error) {
	it, err := c.newIterator(step, true)
	if err != nil {
		return nil, err
	}
	if !c.isBox() {
		ok, err := c.Contains(vector.New(it.pos...))
		if err != nil {
			return nil, err
		}
		if !ok {
			if err := it.seek(); err != nil {
				return nil, fmt.Errorf("begin: region has no lattice point: %w", err)
			}
		}
	}
	c.iters[it] = struct{}{}
	return it, nil
}

// End returns an iterator positioned at the upper envelope corner. For a
// composite whose upper corner lies outside the region it fails with
// ErrOutOfRange.
func (c *Compact) End(step vector.Vector) (*Iterator, error) {
	it, err := c.newIterator(step, false)
	if err != nil {
		return nil, err
	}
	if !c.isBox() {
		ok, err := c.Contains(vector.New(it.pos...))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("end: upper corner outside region: %w", ErrOutOfRange)
		}
	}
	c.iters[it] = struct{}{}
	return it, nil
}

func (c *Compact) newIterator(step vector.Vector, atLower bool) (*Iterator, error) {
	if c.closed {
		return nil, fmt.Errorf("iterator: compact closed: %w", ErrInvalidArgument)
	}
	if len(c.terms) == 0 {
		return nil, errEmpty
	}
	st, err := c.resolveStep(step)
	if err != nil {
		return nil, err
	}
	it := &Iterator{
		owner: c,
		lo:    append([]float64(nil), c.lo...),
		hi:    append([]float64(nil), c.hi...),
		step:  st,
	}
	if atLower {
		it.pos = append([]float64(nil), c.lo...)
	} else {
		it.pos = append([]float64(nil), c.hi...)
	}
	return it, nil
}

// isBox reports whether every envelope lattice point is inside c.
func (c *Compact) isBox() bool {
	if len(c.terms) != 1 {
		return false
	}
	_, ok := c.terms[0].member.(*Rect)
	return ok
}

func (c *Compact) resolveStep(step vector.Vector) ([]float64, error) {
	if step == nil {
		return c.step.Coords(), nil
	}
	if step.Dim() != c.Dim() {
		return nil, dimensionError(c.Dim(), step.Dim())
	}
	abs, err := AbsStep(step)
	if err != nil {
		return nil, err
	}
	return abs.Coords(), nil
}

// PointAt returns a copy of the current point of an iterator issued by c.
func (c *Compact) PointAt(it *Iterator) (vector.Vector, error) {
	if err := c.owns(it); err != nil {
		return nil, err
	}
	return it.Current()
}

// Release frees an iterator issued by c. Releasing twice, or releasing an
// iterator issued by another compact, fails with ErrInvalidArgument.
func (c *Compact) Release(it *Iterator) error {
	if err := c.owns(it); err != nil {
		c.log.Debug("release rejected", zap.Error(err))
		return err
	}
	delete(c.iters, it)
	it.released = true
	return nil
}

// LiveIterators returns the number of issued and unreleased iterators.
func (c *Compact) LiveIterators() int {
	return len(c.iters)
}

// Close releases every outstanding iterator. The compact stays usable as a
// region but issues no further iterators.
func (c *Compact) Close() {
	if n := len(c.iters); n > 0 {
		c.log.Debug("reclaiming iterators", zap.Int("count", n))
	}
	for it := range c.iters {
		it.released = true
	}
	c.iters = make(map[*Iterator]struct{})
	c.closed = true
}

func (c *Compact) owns(it *Iterator) error {
	if it == nil {
		return fmt.Errorf("iterator: %w", ErrInvalidArgument)
	}
	if _, ok := c.iters[it]; !ok {
		if it.owner == c && it.released {
			return ErrReleased
		}
		return fmt.Errorf("iterator not issued by this compact: %w", ErrInvalidArgument)
	}
	return nil
}

// Step advances to the next lattice point inside the region. When there is
// none it returns ErrOutOfRange and the iterator becomes Exhausted.
func (it *Iterator) Step() error {
	if err := it.active(); err != nil {
		return err
	}
	return it.seek()
}

// seek advances until a point inside the owner is reached or the lattice
// runs out. The highest dimension moved across all skipped points becomes
// the reported axis.
func (it *Iterator) seek() error {
	axis := 0
	for {
		d, ok := it.advance()
		if !ok {
			it.exhausted = true
			return fmt.Errorf("step: lattice exhausted: %w", ErrOutOfRange)
		}
		axis = max(axis, d)
		if it.owner.isBox() {
			it.lastDim = axis
			return nil
		}
		in, err := it.owner.Contains(vector.New(it.pos...))
		if err != nil {
			return err
		}
		if in {
			it.lastDim = axis
			return nil
		}
	}
}

// advance performs one raw odometer step over the envelope and returns the
// dimension that moved. A dimension moves only while pos+step <= upper; a
// zero step never moves.
func (it *Iterator) advance() (int, bool) {
	for d := range it.pos {
		if it.step[d] > 0 && it.pos[d]+it.step[d] <= it.hi[d] {
			it.pos[d] += it.step[d]
			return d, true
		}
		it.pos[d] = it.lo[d]
	}
	return 0, false
}

// Current returns a copy of the current point.
func (it *Iterator) Current() (vector.Vector, error) {
	if err := it.active(); err != nil {
		return nil, err
	}
	return vector.New(it.pos...), nil
}

// SetStep changes the step used by later calls to Step. A nil step restores
// the owner's default step.
func (it *Iterator) SetStep(step vector.Vector) error {
	if err := it.active(); err != nil {
		return err
	}
	st, err := it.owner.resolveStep(step)
	if err != nil {
		return err
	}
	it.step = st
	return nil
}

// Axis returns the highest dimension advanced by the most recent successful
// Step, counting points skipped because they lie outside the region. A value
// above zero means lower dimensions wrapped around.
func (it *Iterator) Axis() int {
	return it.lastDim
}

// Exhausted reports whether the iterator ran past the last lattice point.
func (it *Iterator) Exhausted() bool {
	return it.exhausted
}

func (it *Iterator) active() error {
	if it == nil || it.released {
		return ErrReleased
	}
	if it.exhausted {
		return fmt.Errorf("iterator exhausted: %w", ErrOutOfRange)
	}
	return nil
}

// Walk visits every lattice point of c from Begin in odometer order and
// releases the iterator afterwards. Returning an error from fn stops the walk
// and that error is returned.
func (c *Compact) Walk(step vector.Vector, fn func(p vector.Vector, axis int) error) error {
	it, err := c.Begin(step)
	if err != nil {
		return err
	}
	defer func() { _ = c.Release(it) }()

	for {
		p, err := it.Current()
		if err != nil {
			return err
		}
		if err := fn(p, it.Axis()); err != nil {
			return err
		}
		if err := it.Step(); err != nil {
			if KindOf(err) == KindOutOfRange {
				return nil
			}
			return err
		}
	}
}
