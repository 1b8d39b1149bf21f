// Package engine provides the Lisp evaluation engine for gridbox.
// It wraps zygomys in a sandboxed environment and produces named compacts
// from user source code.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"
	"go.uber.org/zap"

	"github.com/chazu/gridbox/pkg/compact"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Program is the output of a successful evaluation: every region bound with
// defregion, in definition order, plus the value of the last expression when
// it was a region other than a defregion form.
type Program struct {
	Regions map[string]*compact.Compact
	Order   []string
	Last    *compact.Compact
}

func newProgram() *Program {
	return &Program{Regions: make(map[string]*compact.Compact)}
}

// Lookup returns the region bound to name, or nil.
func (p *Program) Lookup(name string) *compact.Compact {
	return p.Regions[name]
}

// Len returns the number of named regions.
func (p *Program) Len() int {
	return len(p.Order)
}

// define binds name to c. Names are bound once.
func (p *Program) define(name string, c *compact.Compact) error {
	if _, ok := p.Regions[name]; ok {
		return fmt.Errorf("region %q already defined", name)
	}
	p.Regions[name] = c
	p.Order = append(p.Order, name)
	return nil
}

type options struct {
	factory *compact.Factory
	logger  *zap.Logger
	timeout time.Duration
}

// Option configures an Engine.
type Option func(*options)

// WithFactory sets the factory used by the box builtin.
func WithFactory(f *compact.Factory) Option {
	return func(o *options) {
		if f != nil {
			o.factory = f
		}
	}
}

// WithLogger sets the engine logger. If nil is passed, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = zap.NewNop()
		}
		o.logger = l
	}
}

// WithTimeout overrides EvalTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// Engine wraps the zygomys interpreter for gridbox evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	factory *compact.Factory
	log     *zap.Logger
	timeout time.Duration
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	o := options{
		factory: compact.NewFactory(),
		logger:  zap.NewNop(),
		timeout: EvalTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine{factory: o.factory, log: o.logger, timeout: o.timeout}
}

// Evaluate takes Lisp source code and produces a new Program.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns program + nil errors + nil error
//   - On parse/eval failure: returns nil program + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*Program, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		p, evalErrs, err := e.evaluate(source)
		ch <- evalResult{program: p, errors: evalErrs, err: err}
	}()

	p, evalErrs, err := waitWithTimeout(ch, gen, &e.mu, &e.generation, e.timeout)
	switch {
	case err != nil:
		e.log.Warn("evaluation failed", zap.Uint64("generation", gen), zap.Error(err))
	case len(evalErrs) > 0:
		e.log.Debug("evaluation errors", zap.Uint64("generation", gen), zap.Int("count", len(evalErrs)))
	default:
		e.log.Debug("evaluated", zap.Uint64("generation", gen), zap.Int("regions", p.Len()))
	}
	return p, evalErrs, err
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*Program, []EvalError, error) {
	// Empty source is a valid program that defines nothing.
	if strings.TrimSpace(source) == "" {
		return newProgram(), nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	p := newProgram()
	registerBuiltins(env, e.factory, p)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}

	last, err := env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}
	if r, ok := last.(*sexpRegion); ok && !r.defined {
		p.Last = r.c.Clone()
	}
	return p, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ...".
// The detail may span several lines.
var linePattern = regexp.MustCompile(`(?is)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatchIndex(msg); m != nil {
			line, _ := strconv.Atoi(msg[m[2]:m[3]])
			// Keep any text zygomys placed before the location marker.
			detail := strings.TrimSpace(msg[:m[0]] + " " + msg[m[4]:m[5]])
			return []EvalError{{Line: line, Message: detail}}
		}
	}

	// No line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
