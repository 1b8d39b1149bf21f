package compact

import (
	"errors"
	"fmt"

	"github.com/chazu/gridbox/pkg/vector"
)

// Error sentinels. Vector errors are re-exported so that callers can match
// collaborator failures and compact failures with the same values.
var (
	ErrInvalidArgument   = vector.ErrInvalidArgument
	ErrDimensionMismatch = vector.ErrDimensionMismatch
	ErrOutOfRange        = vector.ErrOutOfRange

	// ErrNotImplemented marks operations this engine deliberately does not support.
	ErrNotImplemented = errors.New("not implemented")

	// ErrNotFound is returned by NearestNeighbor when no term produced a
	// candidate inside the composite region.
	ErrNotFound = errors.New("not found")

	// ErrUnspecified wraps an unexpected failure from a collaborator call.
	ErrUnspecified = errors.New("unspecified failure")

	// ErrReleased is returned when an iterator is used after release or after
	// its owning compact was closed. It matches ErrInvalidArgument.
	ErrReleased = fmt.Errorf("%w: iterator released", ErrInvalidArgument)

	errEmpty = fmt.Errorf("%w: compact has no terms", ErrInvalidArgument)
)

// Kind classifies an error returned by this package.
type Kind int

const (
	KindNone Kind = iota
	KindInvalidArgument
	KindDimensionMismatch
	KindOutOfRange
	KindNotImplemented
	KindNotFound
	KindUnspecified
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInvalidArgument:
		return "invalid-argument"
	case KindDimensionMismatch:
		return "dimension-mismatch"
	case KindOutOfRange:
		return "out-of-range"
	case KindNotImplemented:
		return "not-implemented"
	case KindNotFound:
		return "not-found"
	case KindUnspecified:
		return "unspecified"
	default:
		return "unknown"
	}
}

// KindOf returns the kind of err. Errors not produced by this package or by
// the vector package are KindUnspecified.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrUnspecified):
		return KindUnspecified
	case errors.Is(err, ErrDimensionMismatch):
		return KindDimensionMismatch
	case errors.Is(err, ErrOutOfRange):
		return KindOutOfRange
	case errors.Is(err, ErrNotImplemented):
		return KindNotImplemented
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	default:
		return KindUnspecified
	}
}

func dimensionError(expected, actual int) error {
	return &vector.DimensionError{Expected: expected, Actual: actual}
}
