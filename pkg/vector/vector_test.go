package vector

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordBounds(t *testing.T) {
	v := New(1, 2, 3)

	got, err := v.Coord(2)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got)

	_, err = v.Coord(3)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = v.Coord(-1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.ErrorIs(t, v.SetCoord(5, 1), ErrOutOfRange)
}

func TestCloneIsIndependent(t *testing.T) {
	v := New(1, 2)
	c := v.Clone()
	require.NoError(t, c.SetCoord(0, 42))

	got, _ := v.Coord(0)
	assert.Equal(t, 1.0, got)

	coords := v.Coords()
	coords[1] = 99
	got, _ = v.Coord(1)
	assert.Equal(t, 2.0, got, "Coords must return a copy")
}

func TestNorm(t *testing.T) {
	tests := []struct {
		name string
		norm Norm
		want float64
	}{
		{"l1", Norm1, 7},
		{"l2", Norm2, 5},
		{"inf", NormInf, 4},
	}
	v := New(3, -4)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Norm(tt.norm)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}

	_, err := v.Norm(Norm(42))
	assert.ErrorIs(t, err, ErrNormNotDefined)
}

func TestEquals(t *testing.T) {
	a := New(1, 1)

	ok, err := a.Equals(New(1+1e-10, 1), NormInf, 1e-8)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.Equals(New(1.1, 1), NormInf, 1e-8)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = a.Equals(New(1, 1, 1), NormInf, 1e-8)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	var de *DimensionError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 2, de.Expected)
	assert.Equal(t, 3, de.Actual)

	_, err = a.Equals(nil, NormInf, 1e-8)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestArithmetic(t *testing.T) {
	a, b := New(1, 2, 3), New(4, 5, 6)

	sum, err := Add(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 7, 9}, sum.Coords())

	diff, err := Sub(b, a)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 3, 3}, diff.Coords())

	dot, err := Dot(a, b)
	require.NoError(t, err)
	assert.Equal(t, 32.0, dot)

	assert.Equal(t, []float64{2, 4, 6}, Scale(a, 2).Coords())

	d, err := Distance(a, b, Norm1)
	require.NoError(t, err)
	assert.Equal(t, 9.0, d)

	_, err = Add(a, New(1))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestFillAndString(t *testing.T) {
	v := Fill(3, 0.5)
	assert.Equal(t, 3, v.Dim())
	assert.Equal(t, "(0.5, 0.5, 0.5)", v.String())
	assert.Equal(t, "(0, 0)", Zero(2).String())
	assert.Equal(t, "inf", NormInf.String())
}
