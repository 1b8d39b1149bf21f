// Package kernel defines the abstract geometry kernel interface used to
// turn compacts into renderable solids. Implementations (sdfx) provide box
// primitives and boolean operations behind this interface so that the
// tessellator does not depend on a particular backend.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Box creates the closed box spanned by min and max.
	Box(min, max [3]float64) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}

// SymmetricDifference returns (a ∪ b) \ (a ∩ b) built from k's primitives.
func SymmetricDifference(k Kernel, a, b Solid) Solid {
	return k.Difference(k.Union(a, b), k.Intersection(a, b))
}
