// Package check reports problems with the regions a program defines: empty
// or oversized lattices, degenerate axes, duplicates and containment.
// Checks are read-only and never mutate the program.
package check

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/gridbox/pkg/compact"
	"github.com/chazu/gridbox/pkg/engine"
)

// LargeLattice is the default point count above which a region's lattice is
// reported as large.
const LargeLattice = 1_000_000

// Severity indicates whether a finding should fail a check run or is merely
// informational.
type Severity int

const (
	SeverityError   Severity = iota // fails the run
	SeverityWarning                 // informational
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Finding describes a single problem.
type Finding struct {
	Region   string // which region has the problem (empty if program-level)
	Message  string
	Severity Severity
}

func (f Finding) Error() string {
	if f.Region == "" {
		return fmt.Sprintf("[%s] %s", f.Severity, f.Message)
	}
	return fmt.Sprintf("[%s] region %q: %s", f.Severity, f.Region, f.Message)
}

// Result bundles errors and warnings.
type Result struct {
	Errors   []Finding
	Warnings []Finding
}

// OK reports whether no errors were found.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

func (r *Result) add(f Finding) {
	if f.Severity == SeverityError {
		r.Errors = append(r.Errors, f)
	} else {
		r.Warnings = append(r.Warnings, f)
	}
}

type options struct {
	largeLattice float64
}

// Option configures Run.
type Option func(*options)

// WithLargeLattice sets the point count above which a lattice is reported.
func WithLargeLattice(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.largeLattice = float64(n)
		}
	}
}

// named pairs a region with its program name.
type named struct {
	name string
	c    *compact.Compact
}

// Run checks every named region of p in definition order.
func Run(p *engine.Program, opts ...Option) Result {
	o := options{largeLattice: LargeLattice}
	for _, opt := range opts {
		opt(&o)
	}

	var regions []named
	if p != nil {
		for _, name := range p.Order {
			regions = append(regions, named{name: name, c: p.Lookup(name)})
		}
	}

	var r Result
	for _, n := range regions {
		for _, f := range checkAxes(n) {
			r.add(f)
		}
		for _, f := range checkLattice(n, o.largeLattice) {
			r.add(f)
		}
	}
	for _, f := range checkDuplicates(regions) {
		r.add(f)
	}
	for _, f := range checkContainment(regions) {
		r.add(f)
	}
	return r
}

// checkAxes flags axes with zero extent and axes whose zero step pins the
// lattice to a single value.
func checkAxes(n named) []Finding {
	lo, hi, step, err := envelope(n.c)
	if err != nil {
		return []Finding{{Region: n.name, Message: err.Error(), Severity: SeverityError}}
	}

	var out []Finding
	for i := range lo {
		switch {
		case hi[i] == lo[i]:
			out = append(out, Finding{
				Region:   n.name,
				Message:  fmt.Sprintf("zero extent on axis %d", i),
				Severity: SeverityWarning,
			})
		case step[i] == 0:
			out = append(out, Finding{
				Region:   n.name,
				Message:  fmt.Sprintf("step on axis %d is zero, the lattice has a single value there", i),
				Severity: SeverityWarning,
			})
		}
	}
	return out
}

// checkLattice flags regions with no lattice points and regions whose
// envelope lattice exceeds limit.
func checkLattice(n named, limit float64) []Finding {
	lo, hi, step, err := envelope(n.c)
	if err != nil {
		return nil
	}

	size := 1.0
	for i := range lo {
		if step[i] > 0 {
			size *= math.Floor((hi[i]-lo[i])/step[i]) + 1
		}
	}
	if size > limit {
		return []Finding{{
			Region:   n.name,
			Message:  fmt.Sprintf("lattice has about %.3g points at its default step", size),
			Severity: SeverityWarning,
		}}
	}

	it, err := n.c.Begin(nil)
	if err != nil {
		if compact.KindOf(err) == compact.KindOutOfRange {
			return []Finding{{
				Region:   n.name,
				Message:  "no lattice points at its default step",
				Severity: SeverityError,
			}}
		}
		return []Finding{{Region: n.name, Message: err.Error(), Severity: SeverityError}}
	}
	_ = n.c.Release(it)
	return nil
}

// checkDuplicates flags regions whose term trees are identical to an
// earlier region's.
func checkDuplicates(regions []named) []Finding {
	var out []Finding
	seen := make(map[string]string) // signature -> first region name

	for _, n := range regions {
		sig := signature(n.c)
		if first, ok := seen[sig]; ok {
			out = append(out, Finding{
				Region:   n.name,
				Message:  fmt.Sprintf("duplicates region %q", first),
				Severity: SeverityWarning,
			})
			continue
		}
		seen[sig] = n.name
	}
	return out
}

// checkContainment flags regions whose envelope corners lie inside another
// region. The test is the envelope test used by IsSubsetOf, so a composite
// may be reported even when only its corners are covered.
func checkContainment(regions []named) []Finding {
	var out []Finding
	for i, a := range regions {
		for j, b := range regions {
			if i == j || a.c.Dim() != b.c.Dim() || signature(a.c) == signature(b.c) {
				continue
			}
			ok, err := a.c.IsSubsetOf(b.c)
			if err != nil || !ok {
				continue
			}
			out = append(out, Finding{
				Region:   a.name,
				Message:  fmt.Sprintf("lies within region %q", b.name),
				Severity: SeverityWarning,
			})
		}
	}
	return out
}

func envelope(c *compact.Compact) (lo, hi, step []float64, err error) {
	l, err := c.Lower()
	if err != nil {
		return nil, nil, nil, err
	}
	h, err := c.Upper()
	if err != nil {
		return nil, nil, nil, err
	}
	s, err := c.Step()
	if err != nil {
		return nil, nil, nil, err
	}
	return l.Coords(), h.Coords(), s.Coords(), nil
}

// signature renders the term tree with exact coordinates.
func signature(c *compact.Compact) string {
	var b strings.Builder
	for i, t := range c.Terms() {
		if i > 0 {
			b.WriteString(" " + t.Op.String() + " ")
		}
		switch {
		case t.Rect != nil:
			fmt.Fprintf(&b, "[%v %v %v]", t.Rect.Lower().Coords(), t.Rect.Upper().Coords(), t.Rect.Step().Coords())
		case t.Compact != nil:
			b.WriteString("(" + signature(t.Compact) + ")")
		}
	}
	return b.String()
}
