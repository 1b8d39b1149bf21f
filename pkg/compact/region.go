package compact

import "github.com/chazu/gridbox/pkg/vector"

// Region answers point membership. Both *Rect and *Compact are Regions.
type Region interface {
	Dim() int
	Contains(v vector.Vector) (bool, error)
}

// member is a term of a composite: a box or another composite.
type member interface {
	Region
	NearestNeighbor(v vector.Vector) (vector.Vector, error)
	// bounds returns the enclosing box without cloning. Callers must not mutate.
	bounds() (lo, hi []float64)
	cloneMember() member
}

var (
	_ member = (*Rect)(nil)
	_ member = (*Compact)(nil)
)
