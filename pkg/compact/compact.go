package compact

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/chazu/gridbox/pkg/vector"
)

// Op is a boolean set operation applied when a term is folded into a composite.
type Op int

const (
	OpUnion Op = iota
	OpIntersection
	OpDifference
	OpSymmetricDifference
)

func (o Op) String() string {
	switch o {
	case OpUnion:
		return "union"
	case OpIntersection:
		return "intersection"
	case OpDifference:
		return "difference"
	case OpSymmetricDifference:
		return "symmetric-difference"
	default:
		return "unknown"
	}
}

// combine folds b into the accumulated membership a.
func (o Op) combine(a, b bool) bool {
	switch o {
	case OpIntersection:
		return a && b
	case OpDifference:
		return a && !b
	case OpSymmetricDifference:
		return (a || b) && !(a && b)
	default:
		return a || b
	}
}

type term struct {
	op     Op // ignored for the first term
	member member
}

// Compact is a region described as a left fold of boolean operations over
// its terms:
//
//	in(p) = contains(t0, p) op1 contains(t1, p) op2 ...
//
// Each term is exclusively owned; operands are deep-cloned on insertion.
// The cached lower/upper envelope covers every term's box and so may be
// strictly larger than the region after Intersect or Difference.
//
// A Compact is not safe for concurrent use.
type Compact struct {
	terms []term

	// envelope of every term's bounding box
	lo, hi []float64
	step   vector.Vector

	iters  map[*Iterator]struct{}
	closed bool
	log    *zap.Logger
}

func newCompact(r *Rect, log *zap.Logger) *Compact {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Compact{
		terms: []term{{op: OpUnion, member: r}},
		step:  r.step.Clone(),
		iters: make(map[*Iterator]struct{}),
		log:   log,
	}
	c.recomputeBounds()
	return c
}

// Dim returns the dimension of the first term, or 0 for an empty compact.
func (c *Compact) Dim() int {
	if c == nil || len(c.terms) == 0 {
		return 0
	}
	return c.terms[0].member.Dim()
}

// Len returns the number of terms.
func (c *Compact) Len() int {
	return len(c.terms)
}

// Lower returns a copy of the lower corner of the cached envelope.
func (c *Compact) Lower() (vector.Vector, error) {
	if len(c.terms) == 0 {
		return nil, errEmpty
	}
	return vector.New(c.lo...), nil
}

// Upper returns a copy of the upper corner of the cached envelope.
func (c *Compact) Upper() (vector.Vector, error) {
	if len(c.terms) == 0 {
		return nil, errEmpty
	}
	return vector.New(c.hi...), nil
}

// Step returns a copy of the default lattice step.
func (c *Compact) Step() (vector.Vector, error) {
	if c.step == nil {
		return nil, errEmpty
	}
	return c.step.Clone(), nil
}

// Contains folds membership of v over the terms.
func (c *Compact) Contains(v vector.Vector) (bool, error) {
	if c == nil || len(c.terms) == 0 {
		return false, errEmpty
	}
	if v == nil {
		return false, fmt.Errorf("contains: %w", ErrInvalidArgument)
	}
	var in bool
	for i, t := range c.terms {
		ok, err := t.member.Contains(v)
		if err != nil {
			return false, fmt.Errorf("contains: term %d: %w", i, err)
		}
		if i == 0 {
			in = ok
			continue
		}
		in = t.op.combine(in, ok)
	}
	return in, nil
}

// Union appends other as a union term.
func (c *Compact) Union(other *Compact) error {
	return c.appendTerm(OpUnion, other)
}

// Intersect appends other as an intersection term.
func (c *Compact) Intersect(other *Compact) error {
	return c.appendTerm(OpIntersection, other)
}

// Difference appends other as a difference term.
func (c *Compact) Difference(other *Compact) error {
	return c.appendTerm(OpDifference, other)
}

// SymmetricDifference appends other as a symmetric difference term.
func (c *Compact) SymmetricDifference(other *Compact) error {
	return c.appendTerm(OpSymmetricDifference, other)
}

func (c *Compact) appendTerm(op Op, other *Compact) error {
	if len(c.terms) == 0 {
		return errEmpty
	}
	if other == nil || len(other.terms) == 0 {
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}
	if other.Dim() != c.Dim() {
		err := dimensionError(c.Dim(), other.Dim())
		c.log.Debug("rejected term", zap.Stringer("op", op), zap.Error(err))
		return err
	}

	// A single-box operand is stored as its box.
	var m member
	if len(other.terms) == 1 {
		m = other.terms[0].member.cloneMember()
	} else {
		m = other.cloneMember()
	}
	c.terms = append(c.terms, term{op: op, member: m})
	c.recomputeBounds()
	c.log.Debug("appended term", zap.Stringer("op", op), zap.Int("terms", len(c.terms)))
	return nil
}

// recomputeBounds rebuilds the envelope from the term boxes. It is a
// bookkeeping envelope, not a tight bound of the region.
func (c *Compact) recomputeBounds() {
	dim := c.Dim()
	lo := make([]float64, dim)
	hi := make([]float64, dim)
	for i := range lo {
		lo[i] = math.Inf(1)
		hi[i] = math.Inf(-1)
	}
	for _, t := range c.terms {
		tlo, thi := t.member.bounds()
		for i := range lo {
			lo[i] = math.Min(lo[i], tlo[i])
			hi[i] = math.Max(hi[i], thi[i])
		}
	}
	c.lo, c.hi = lo, hi
}

// MakeConvex replaces every term with a single box equal to the envelope,
// discarding any holes. Applying it twice is the same as applying it once.
func (c *Compact) MakeConvex() error {
	if len(c.terms) == 0 {
		return errEmpty
	}
	hull := newRect(vector.New(c.lo...), vector.New(c.hi...), c.step.Clone())
	c.terms = []term{{op: OpUnion, member: hull}}
	c.recomputeBounds()
	return nil
}

// IsSubsetOf reports whether both envelope corners are inside other.
// The answer is exact only when c is a box and other is convex.
func (c *Compact) IsSubsetOf(other Region) (bool, error) {
	if len(c.terms) == 0 {
		return false, errEmpty
	}
	return cornersInside(vector.New(c.lo...), vector.New(c.hi...), other)
}

// NearestNeighbor asks every term for its nearest lattice point to v and
// returns the candidate inside c with the smallest L1 distance to v. It is a
// heuristic: when no candidate lies inside c it returns ErrNotFound even if
// c is non-empty.
func (c *Compact) NearestNeighbor(v vector.Vector) (vector.Vector, error) {
	if len(c.terms) == 0 {
		return nil, errEmpty
	}
	if v == nil {
		return nil, fmt.Errorf("nearest neighbor: %w", ErrInvalidArgument)
	}
	if v.Dim() != c.Dim() {
		return nil, dimensionError(c.Dim(), v.Dim())
	}

	var (
		best     vector.Vector
		bestDist = math.Inf(1)
	)
	for i, t := range c.terms {
		cand, err := t.member.NearestNeighbor(v)
		if err != nil {
			// A composite term may legitimately have no candidate of its own.
			if KindOf(err) == KindNotFound {
				continue
			}
			return nil, fmt.Errorf("nearest neighbor: term %d: %w", i, err)
		}
		ok, err := c.Contains(cand)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		d, err := vector.Distance(cand, v, vector.Norm1)
		if err != nil {
			return nil, fmt.Errorf("%w: distance: %w", ErrUnspecified, err)
		}
		if d < bestDist {
			best, bestDist = cand, d
		}
	}
	if best == nil {
		return nil, fmt.Errorf("nearest neighbor of %v: %w", v.Coords(), ErrNotFound)
	}
	return best, nil
}

// Clone returns a deep copy of c. Outstanding iterators are not carried over.
func (c *Compact) Clone() *Compact {
	out := &Compact{
		terms: make([]term, len(c.terms)),
		lo:    append([]float64(nil), c.lo...),
		hi:    append([]float64(nil), c.hi...),
		iters: make(map[*Iterator]struct{}),
		log:   c.log,
	}
	if c.step != nil {
		out.step = c.step.Clone()
	}
	if out.log == nil {
		out.log = zap.NewNop()
	}
	for i, t := range c.terms {
		out.terms[i] = term{op: t.op, member: t.member.cloneMember()}
	}
	return out
}

func (c *Compact) bounds() (lo, hi []float64) { return c.lo, c.hi }

func (c *Compact) cloneMember() member { return c.Clone() }

// Term is a read-only view of one term. Exactly one of Rect and Compact is
// set; Compact is a private copy.
type Term struct {
	Op      Op
	Rect    *Rect
	Compact *Compact
}

// Terms returns the fold in order. The Op of the first term is meaningless.
func (c *Compact) Terms() []Term {
	out := make([]Term, len(c.terms))
	for i, t := range c.terms {
		out[i].Op = t.op
		switch m := t.member.(type) {
		case *Rect:
			out[i].Rect = m
		case *Compact:
			out[i].Compact = m.Clone()
		}
	}
	return out
}

// String summarizes the fold, e.g. "box(2d) difference box(2d)".
func (c *Compact) String() string {
	s := ""
	for i, t := range c.terms {
		if i > 0 {
			s += " " + t.op.String() + " "
		}
		switch m := t.member.(type) {
		case *Rect:
			s += fmt.Sprintf("box(%dd)", m.Dim())
		case *Compact:
			s += "(" + m.String() + ")"
		}
	}
	return s
}
