// Package tessellate folds a compact's term tree into a kernel solid and
// produces triangle meshes from it. One mesh is produced per named part.
package tessellate

import (
	"fmt"
	"math"

	"github.com/chazu/gridbox/pkg/compact"
	"github.com/chazu/gridbox/pkg/kernel"
)

// MaxDim is the highest compact dimension that can be rendered.
const MaxDim = 3

// Part is a named region to tessellate.
type Part struct {
	Name   string
	Region *compact.Compact
}

type options struct {
	thickness float64
}

// Option configures tessellation.
type Option func(*options)

// WithThickness sets the extent given to axes a region does not span:
// the missing axes of 1D and 2D regions and any axis where lower equals
// upper. Zero or negative selects a thickness of one twentieth of the
// region's largest extent.
func WithThickness(t float64) Option {
	return func(o *options) {
		o.thickness = t
	}
}

// Tessellate produces one mesh per part using the provided geometry
// kernel. Parts are read, never mutated.
func Tessellate(parts []Part, k kernel.Kernel, opts ...Option) ([]*kernel.Mesh, error) {
	var meshes []*kernel.Mesh
	for _, p := range parts {
		mesh, err := Mesh(p.Region, k, opts...)
		if err != nil {
			return nil, fmt.Errorf("tessellate: error in part %q: %w", p.Name, err)
		}
		mesh.Name = p.Name
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// Mesh renders a single region.
func Mesh(c *compact.Compact, k kernel.Kernel, opts ...Option) (*kernel.Mesh, error) {
	s, err := Solid(c, k, opts...)
	if err != nil {
		return nil, err
	}
	mesh, err := k.ToMesh(s)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed: %w", err)
	}
	return mesh, nil
}

// Solid folds the terms of c into a kernel solid in insertion order,
// recursing into nested composites.
func Solid(c *compact.Compact, k kernel.Kernel, opts ...Option) (kernel.Solid, error) {
	if c == nil || c.Len() == 0 {
		return nil, fmt.Errorf("tessellate: empty region: %w", compact.ErrInvalidArgument)
	}
	if d := c.Dim(); d > MaxDim {
		return nil, fmt.Errorf("tessellate: %d dimensions: %w", d, compact.ErrNotImplemented)
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.thickness <= 0 {
		t, err := defaultThickness(c)
		if err != nil {
			return nil, err
		}
		o.thickness = t
	}
	return walkCompact(k, c, &o)
}

func defaultThickness(c *compact.Compact) (float64, error) {
	lo, err := c.Lower()
	if err != nil {
		return 0, err
	}
	hi, err := c.Upper()
	if err != nil {
		return 0, err
	}
	l, h := lo.Coords(), hi.Coords()
	extent := 0.0
	for i := range l {
		extent = math.Max(extent, h[i]-l[i])
	}
	if extent == 0 {
		return 1, nil
	}
	return extent / 20, nil
}

// walkCompact recursively folds a composite's terms.
func walkCompact(k kernel.Kernel, c *compact.Compact, o *options) (kernel.Solid, error) {
	var acc kernel.Solid
	for i, t := range c.Terms() {
		s, err := walkTerm(k, t, o)
		if err != nil {
			return nil, fmt.Errorf("term %d: %w", i, err)
		}
		if i == 0 {
			acc = s
			continue
		}
		switch t.Op {
		case compact.OpUnion:
			acc = k.Union(acc, s)
		case compact.OpIntersection:
			acc = k.Intersection(acc, s)
		case compact.OpDifference:
			acc = k.Difference(acc, s)
		case compact.OpSymmetricDifference:
			acc = kernel.SymmetricDifference(k, acc, s)
		default:
			return nil, fmt.Errorf("term %d: unknown op %v", i, t.Op)
		}
	}
	if acc == nil {
		return nil, fmt.Errorf("empty nested region: %w", compact.ErrInvalidArgument)
	}
	return acc, nil
}

func walkTerm(k kernel.Kernel, t compact.Term, o *options) (kernel.Solid, error) {
	switch {
	case t.Rect != nil:
		return handleRect(k, t.Rect, o)
	case t.Compact != nil:
		return walkCompact(k, t.Compact, o)
	default:
		return nil, fmt.Errorf("term has no member: %w", compact.ErrInvalidArgument)
	}
}

// handleRect lifts a box of up to three dimensions into a kernel box.
func handleRect(k kernel.Kernel, r *compact.Rect, o *options) (kernel.Solid, error) {
	lo, hi := r.Lower().Coords(), r.Upper().Coords()
	if len(lo) > MaxDim {
		return nil, fmt.Errorf("box of %d dimensions: %w", len(lo), compact.ErrNotImplemented)
	}

	half := o.thickness / 2
	var min, max [3]float64
	for i := 0; i < 3; i++ {
		switch {
		case i >= len(lo):
			min[i], max[i] = -half, half
		case lo[i] == hi[i]:
			min[i], max[i] = lo[i]-half, hi[i]+half
		default:
			min[i], max[i] = lo[i], hi[i]
		}
	}

	s, err := k.Box(min, max)
	if err != nil {
		return nil, fmt.Errorf("kernel box: %w", err)
	}
	return s, nil
}
