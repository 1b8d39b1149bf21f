package compact

import (
	"math"

	"go.uber.org/zap"
)

// DefaultStep is the lattice increment used in every dimension when a
// compact is created without an explicit step.
const DefaultStep = 1e-3

type options struct {
	defaultStep float64
	logger      *zap.Logger
}

// Option configures a Factory.
type Option func(*options)

// WithDefaultStep sets the per-dimension step used when New is called with a
// nil step. Negative values are stored as their magnitude.
func WithDefaultStep(step float64) Option {
	return func(o *options) {
		o.defaultStep = math.Abs(step)
	}
}

// WithLogger sets the logger handed to every compact the factory creates.
// If nil is passed, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = zap.NewNop()
		}
		o.logger = l
	}
}
