package pointset

import (
	"fmt"

	"github.com/chazu/gridbox/pkg/compact"
	"github.com/chazu/gridbox/pkg/vector"
)

// Cursor is a position in a Set. Cursors are tracked by their set and must
// be released through it.
type Cursor struct {
	set      *Set
	pos      int
	released bool
}

// Begin returns a cursor on the first point. An empty set has no cursor.
func (s *Set) Begin() (*Cursor, error) {
	return s.cursorAt(0)
}

// End returns a cursor on the last point.
func (s *Set) End() (*Cursor, error) {
	return s.cursorAt(len(s.points) - 1)
}

func (s *Set) cursorAt(pos int) (*Cursor, error) {
	if len(s.points) == 0 {
		return nil, fmt.Errorf("pointset: cursor on empty set: %w", compact.ErrOutOfRange)
	}
	c := &Cursor{set: s, pos: pos}
	s.cursors[c] = struct{}{}
	return c, nil
}

// Release frees a cursor issued by s.
func (s *Set) Release(c *Cursor) error {
	if err := s.owns(c); err != nil {
		return err
	}
	delete(s.cursors, c)
	c.released = true
	return nil
}

// PointAt returns a copy of the point under c.
func (s *Set) PointAt(c *Cursor) (vector.Vector, error) {
	if err := s.owns(c); err != nil {
		return nil, err
	}
	return s.Get(c.pos)
}

func (s *Set) owns(c *Cursor) error {
	if c == nil {
		return fmt.Errorf("pointset: cursor: %w", compact.ErrInvalidArgument)
	}
	if _, ok := s.cursors[c]; !ok {
		return fmt.Errorf("pointset: cursor not issued by this set: %w", compact.ErrInvalidArgument)
	}
	return nil
}

// Next moves to the following point. It fails with ErrOutOfRange on the
// last point and leaves the cursor where it was.
func (c *Cursor) Next() error {
	if err := c.live(); err != nil {
		return err
	}
	if c.pos+1 >= len(c.set.points) {
		return fmt.Errorf("pointset: cursor at last point: %w", compact.ErrOutOfRange)
	}
	c.pos++
	return nil
}

// Prev moves to the preceding point.
func (c *Cursor) Prev() error {
	if err := c.live(); err != nil {
		return err
	}
	if c.pos == 0 {
		return fmt.Errorf("pointset: cursor at first point: %w", compact.ErrOutOfRange)
	}
	c.pos--
	return nil
}

// IsBegin reports whether the cursor is on the first point. A released
// cursor, or one on an empty set, is on no point.
func (c *Cursor) IsBegin() bool {
	return c.live() == nil && len(c.set.points) > 0 && c.pos == 0
}

// IsEnd reports whether the cursor is on the last point. A released cursor,
// or one on an empty set, is on no point.
func (c *Cursor) IsEnd() bool {
	return c.live() == nil && len(c.set.points) > 0 && c.pos == len(c.set.points)-1
}

// Index returns the position of the cursor.
func (c *Cursor) Index() int { return c.pos }

func (c *Cursor) live() error {
	if c == nil || c.released {
		return compact.ErrReleased
	}
	return nil
}
