package compact

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/chazu/gridbox/pkg/vector"
)

// Factory builds compacts. The zero value is not usable; call NewFactory.
type Factory struct {
	defaultStep float64
	log         *zap.Logger
}

// NewFactory returns a Factory configured by opts.
func NewFactory(opts ...Option) *Factory {
	o := options{
		defaultStep: DefaultStep,
		logger:      zap.NewNop(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	return &Factory{defaultStep: o.defaultStep, log: o.logger}
}

// DefaultStep returns the step used when New is called without one.
func (f *Factory) DefaultStep() float64 {
	return f.defaultStep
}

// New returns a one-term compact covering the box spanned by the corners
// lower and upper. Corner order does not matter; coordinates are swapped so
// that the stored lower corner is below the upper one. A nil step is
// replaced by the factory default in every dimension; a given step is stored
// as its absolute value.
func (f *Factory) New(lower, upper, step vector.Vector) (*Compact, error) {
	r, err := f.Rect(lower, upper, step)
	if err != nil {
		return nil, err
	}
	return newCompact(r, f.log), nil
}

// Rect builds the bare box used by New.
func (f *Factory) Rect(lower, upper, step vector.Vector) (*Rect, error) {
	r, err := f.rect(lower, upper, step)
	if err != nil {
		f.log.Debug("create compact rejected", zap.Error(err))
		return nil, err
	}
	return r, nil
}

func (f *Factory) rect(lower, upper, step vector.Vector) (*Rect, error) {
	if lower == nil {
		return nil, fmt.Errorf("create compact: lower corner: %w", ErrInvalidArgument)
	}
	if upper == nil {
		return nil, fmt.Errorf("create compact: upper corner: %w", ErrInvalidArgument)
	}
	dim := lower.Dim()
	if upper.Dim() != dim {
		return nil, dimensionError(dim, upper.Dim())
	}
	if dim == 0 {
		return nil, fmt.Errorf("create compact: zero dimension: %w", ErrInvalidArgument)
	}

	if hasNaN(lower) || hasNaN(upper) {
		return nil, fmt.Errorf("create compact: NaN corner coordinate: %w", ErrInvalidArgument)
	}
	if step != nil && hasNaN(step) {
		return nil, fmt.Errorf("create compact: NaN step: %w", ErrInvalidArgument)
	}

	lo, err := LowerBound(lower, upper)
	if err != nil {
		return nil, err
	}
	hi, err := UpperBound(lower, upper)
	if err != nil {
		return nil, err
	}

	var st vector.Vector
	if step == nil {
		st = vector.Fill(dim, f.defaultStep)
	} else {
		if st, err = AbsStep(step); err != nil {
			return nil, err
		}
	}
	if st.Dim() != dim {
		return nil, dimensionError(dim, st.Dim())
	}

	return newRect(lo, hi, st), nil
}

func hasNaN(v vector.Vector) bool {
	for _, x := range v.Coords() {
		if math.IsNaN(x) {
			return true
		}
	}
	return false
}

// Wrap returns a one-term compact holding a copy of r.
func (f *Factory) Wrap(r *Rect) (*Compact, error) {
	if r == nil {
		return nil, fmt.Errorf("wrap: %w", ErrInvalidArgument)
	}
	return newCompact(r.Clone(), f.log), nil
}
