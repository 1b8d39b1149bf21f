package kernel

import (
	"math"
	"strings"
	"testing"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshBounds(t *testing.T) {
	m := &Mesh{Vertices: []float32{0, 5, -1, 2, -3, 4, 1, 1, 1}}
	min, max := m.Bounds()
	if min != [3]float64{0, -3, -1} {
		t.Errorf("Bounds() min = %v, want [0 -3 -1]", min)
	}
	if max != [3]float64{2, 5, 4} {
		t.Errorf("Bounds() max = %v, want [2 5 4]", max)
	}

	min, max = (&Mesh{}).Bounds()
	if !math.IsInf(min[0], 1) || !math.IsInf(max[0], -1) {
		t.Errorf("empty Bounds() = %v %v, want +Inf/-Inf", min, max)
	}
}

func TestMeshIsEmpty(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		m := &Mesh{}
		if !m.IsEmpty() {
			t.Error("IsEmpty() = false for empty mesh, want true")
		}
	})
	t.Run("non-empty mesh", func(t *testing.T) {
		m := &Mesh{Vertices: []float32{1, 2, 3}}
		if m.IsEmpty() {
			t.Error("IsEmpty() = true for non-empty mesh, want false")
		}
	})
}

// --- Interface checks with a stub kernel ---

// stubSolid is a minimal Solid implementation for testing.
type stubSolid struct {
	minBB, maxBB [3]float64
}

func (s *stubSolid) BoundingBox() (min, max [3]float64) {
	return s.minBB, s.maxBB
}

// stubKernel records the boolean operations it was asked to perform.
type stubKernel struct {
	ops []string
}

func (k *stubKernel) Box(min, max [3]float64) (Solid, error) {
	return &stubSolid{minBB: min, maxBB: max}, nil
}

func (k *stubKernel) Union(a, _ Solid) Solid {
	k.ops = append(k.ops, "union")
	return a
}

func (k *stubKernel) Difference(a, _ Solid) Solid {
	k.ops = append(k.ops, "difference")
	return a
}

func (k *stubKernel) Intersection(a, _ Solid) Solid {
	k.ops = append(k.ops, "intersection")
	return a
}

func (k *stubKernel) ToMesh(_ Solid) (*Mesh, error) {
	return &Mesh{}, nil
}

// Compile-time checks that the stubs implement the interfaces.
var _ Solid = (*stubSolid)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelBoxBoundingBox(t *testing.T) {
	var k Kernel = &stubKernel{}
	s, err := k.Box([3]float64{0, 0, 0}, [3]float64{10, 20, 30})
	if err != nil {
		t.Fatalf("Box() error = %v", err)
	}
	min, max := s.BoundingBox()
	if min != [3]float64{0, 0, 0} {
		t.Errorf("Box min = %v, want [0 0 0]", min)
	}
	if max != [3]float64{10, 20, 30} {
		t.Errorf("Box max = %v, want [10 20 30]", max)
	}
}

func TestSymmetricDifferenceComposition(t *testing.T) {
	k := &stubKernel{}
	a, _ := k.Box([3]float64{}, [3]float64{1, 1, 1})
	b, _ := k.Box([3]float64{}, [3]float64{2, 2, 2})

	SymmetricDifference(k, a, b)

	want := []string{"union", "intersection", "difference"}
	if len(k.ops) != len(want) {
		t.Fatalf("ops = %v, want %v", k.ops, want)
	}
	for i := range want {
		if k.ops[i] != want[i] {
			t.Errorf("ops[%d] = %s, want %s", i, k.ops[i], want[i])
		}
	}
}

func TestMeshWriteSTL(t *testing.T) {
	m := &Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Normals:  []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		Indices:  []uint32{0, 1, 2},
		Name:     "left wall",
	}
	var buf strings.Builder
	if err := m.WriteSTL(&buf); err != nil {
		t.Fatalf("WriteSTL() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"solid left_wall\n",
		"facet normal 0 0 1\n",
		"vertex 1 0 0\n",
		"endsolid left_wall\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("WriteSTL() output missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "vertex "); n != 3 {
		t.Errorf("WriteSTL() wrote %d vertices, want 3", n)
	}
}

func TestMeshWriteSTLBadIndex(t *testing.T) {
	m := &Mesh{
		Vertices: []float32{0, 0, 0},
		Normals:  []float32{0, 0, 1},
		Indices:  []uint32{0, 1, 2},
	}
	var buf strings.Builder
	if err := m.WriteSTL(&buf); err == nil {
		t.Fatal("WriteSTL() expected error for out of range index")
	}
}
