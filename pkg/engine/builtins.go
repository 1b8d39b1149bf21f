package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/gridbox/pkg/compact"
	"github.com/chazu/gridbox/pkg/vector"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpRegion wraps a compact so it can be passed between builtins. The
// compact is never mutated after the wrapper is created; operations work on
// clones.
type sexpRegion struct {
	c       *compact.Compact
	name    string // set by defregion and region
	defined bool   // returned by defregion
}

func (r *sexpRegion) SexpString(ps *zygo.PrintState) string {
	if r.name != "" {
		return fmt.Sprintf("(region %q)", r.name)
	}
	return fmt.Sprintf("(region %s)", r.c.String())
}
func (r *sexpRegion) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			i++
			result.kw[name] = args[i]
		} else {
			// Trailing keyword with no value.
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toVector converts a list or array of numbers into a vector.
func toVector(s zygo.Sexp) (vector.Vector, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	coords := make([]float64, len(items))
	for i, item := range items {
		if coords[i], err = toFloat64(item); err != nil {
			return nil, fmt.Errorf("coordinate %d: %w", i, err)
		}
	}
	return vector.New(coords...), nil
}

// toRegion extracts the compact from a sexpRegion.
func toRegion(s zygo.Sexp) (*compact.Compact, error) {
	if r, ok := s.(*sexpRegion); ok {
		return r.c, nil
	}
	return nil, fmt.Errorf("expected region, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// foldFunc applies one boolean operation to an accumulated compact.
type foldFunc func(acc, operand *compact.Compact) error

// foldBuiltin returns a variadic builtin that left-folds its region
// arguments with op: (name a b c) is ((a op b) op c).
func foldBuiltin(op foldFunc) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("%s requires at least one region", name)
		}
		first, err := toRegion(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: argument 1: %w", name, err)
		}
		acc := first.Clone()
		for i, arg := range args[1:] {
			operand, err := toRegion(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: argument %d: %w", name, i+2, err)
			}
			if err := op(acc, operand); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: argument %d: %w", name, i+2, err)
			}
		}
		return &sexpRegion{c: acc}, nil
	}
}

// registerBuiltins installs all gridbox DSL builtins into a zygomys
// environment. Regions created by box and the boolean builtins are values;
// defregion records a named copy in p.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, f *compact.Factory, p *Program) {
	// -----------------------------------------------------------------------
	// (box [0 0] [1 1] :step [0.5 0.5])
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("box requires two corners, got %d arguments", len(pa.positional))
		}
		lower, err := toVector(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: lower corner: %w", err)
		}
		upper, err := toVector(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: upper corner: %w", err)
		}
		var step vector.Vector
		if v, ok := pa.kw["step"]; ok {
			if step, err = toVector(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("box: step: %w", err)
			}
		}
		c, err := f.New(lower, upper, step)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: %w", err)
		}
		return &sexpRegion{c: c}, nil
	})

	// -----------------------------------------------------------------------
	// (union a b ...) (intersect a b ...) (difference a b ...) (symdiff a b ...)
	// -----------------------------------------------------------------------
	env.AddFunction("union", foldBuiltin((*compact.Compact).Union))
	env.AddFunction("intersect", foldBuiltin((*compact.Compact).Intersect))
	env.AddFunction("difference", foldBuiltin((*compact.Compact).Difference))
	env.AddFunction("symdiff", foldBuiltin((*compact.Compact).SymmetricDifference))

	// -----------------------------------------------------------------------
	// (make-convex r)
	//
	// Registered as "make_convex" because the preprocessor converts
	// kebab-case identifiers.
	// -----------------------------------------------------------------------
	convex := func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("%s requires exactly one region, got %d", name, len(args))
		}
		r, err := toRegion(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		c := r.Clone()
		if err := c.MakeConvex(); err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		return &sexpRegion{c: c}, nil
	}
	env.AddFunction("make_convex", convex)
	env.AddFunction("convex", convex)

	// -----------------------------------------------------------------------
	// (defregion "name" expr)
	// -----------------------------------------------------------------------
	env.AddFunction("defregion", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("defregion requires a name and a region expression")
		}
		regionName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defregion: name: %w", err)
		}
		r, err := toRegion(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defregion: body: %w", err)
		}
		c := r.Clone()
		if err := p.define(regionName, c); err != nil {
			return zygo.SexpNull, fmt.Errorf("defregion: %w", err)
		}
		return &sexpRegion{c: c, name: regionName, defined: true}, nil
	})

	// -----------------------------------------------------------------------
	// (region "name")
	// -----------------------------------------------------------------------
	env.AddFunction("region", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("region requires a name argument")
		}
		regionName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("region: name: %w", err)
		}
		c := p.Lookup(regionName)
		if c == nil {
			return zygo.SexpNull, fmt.Errorf("region: no region named %q", regionName)
		}
		return &sexpRegion{c: c, name: regionName}, nil
	})
}
