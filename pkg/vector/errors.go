package vector

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned for nil operands.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDimensionMismatch is returned when two operands disagree on dimension.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrOutOfRange is returned for a coordinate index outside [0, Dim()).
	ErrOutOfRange = errors.New("out of range")

	// ErrNormNotDefined is returned for an unknown Norm kind.
	ErrNormNotDefined = errors.New("norm not defined")
)

// DimensionError reports the two dimensions that failed to agree.
// It matches ErrDimensionMismatch under errors.Is.
type DimensionError struct {
	Expected int
	Actual   int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Is reports whether target is ErrDimensionMismatch.
func (e *DimensionError) Is(target error) bool { return target == ErrDimensionMismatch }

// IndexError reports a coordinate index outside the vector.
// It matches ErrOutOfRange under errors.Is.
type IndexError struct {
	Index int
	Dim   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("coordinate index %d out of range for dimension %d", e.Index, e.Dim)
}

func (e *IndexError) Is(target error) bool { return target == ErrOutOfRange }
