package check

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/gridbox/pkg/engine"
)

func program(t *testing.T, source string) *engine.Program {
	t.Helper()
	p, evalErrs, err := engine.NewEngine().Evaluate(source)
	require.NoError(t, err)
	require.Empty(t, evalErrs)
	return p
}

func hasFinding(fs []Finding, region, substr string) bool {
	for _, f := range fs {
		if f.Region == region && strings.Contains(f.Message, substr) {
			return true
		}
	}
	return false
}

func TestRunCleanProgram(t *testing.T) {
	p := program(t, `
(defregion "ring" (difference (box [0 0] [4 4] :step [0.5 0.5]) (box [1 1] [3 3] :step [0.5 0.5])))
(defregion "bar" (box [-1 1.5] [5 2.5] :step [0.5 0.5]))
`)
	r := Run(p)
	assert.True(t, r.OK())
	assert.Empty(t, r.Errors)
	assert.Empty(t, r.Warnings)
}

func TestRunNilProgram(t *testing.T) {
	r := Run(nil)
	assert.True(t, r.OK())
	assert.Empty(t, r.Warnings)
}

func TestEmptyLattice(t *testing.T) {
	p := program(t, `(defregion "gone" (difference (box [0] [1] :step [0.5]) (box [0] [1])))`)
	r := Run(p)
	assert.False(t, r.OK())
	assert.True(t, hasFinding(r.Errors, "gone", "no lattice points"))
}

func TestLargeLattice(t *testing.T) {
	p := program(t, `(defregion "big" (box [0 0] [10 10]))`)

	r := Run(p)
	assert.True(t, r.OK())
	assert.True(t, hasFinding(r.Warnings, "big", "lattice has about"))

	r = Run(p, WithLargeLattice(1_000_000_000))
	assert.Empty(t, r.Warnings)
}

func TestAxisWarnings(t *testing.T) {
	p := program(t, `
(defregion "flat" (box [0 1] [2 1] :step [1 1]))
(defregion "pinned" (box [0] [2] :step [0]))
`)
	r := Run(p)
	assert.True(t, r.OK())
	assert.True(t, hasFinding(r.Warnings, "flat", "zero extent on axis 1"))
	assert.False(t, hasFinding(r.Warnings, "flat", "axis 0"))
	assert.True(t, hasFinding(r.Warnings, "pinned", "step on axis 0 is zero"))
}

func TestDuplicates(t *testing.T) {
	p := program(t, `
(defregion "a" (box [0 0] [1 1] :step [0.5 0.5]))
(defregion "b" (box [1 1] [0 0] :step [-0.5 0.5]))
`)
	r := Run(p)
	assert.True(t, hasFinding(r.Warnings, "b", `duplicates region "a"`))
	assert.False(t, hasFinding(r.Warnings, "a", "duplicates"))
	assert.False(t, hasFinding(r.Warnings, "a", "lies within"))
	assert.False(t, hasFinding(r.Warnings, "b", "lies within"))
}

func TestContainment(t *testing.T) {
	p := program(t, `
(defregion "big" (box [0 0] [10 10] :step [1 1]))
(defregion "small" (box [2 2] [3 3] :step [1 1]))
(defregion "line" (box [0] [1] :step [1]))
`)
	r := Run(p)
	assert.True(t, hasFinding(r.Warnings, "small", `lies within region "big"`))
	assert.False(t, hasFinding(r.Warnings, "big", "lies within"))
	assert.False(t, hasFinding(r.Warnings, "line", "lies within"))
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "Severity(7)", Severity(7).String())
}

func TestFindingError(t *testing.T) {
	f := Finding{Region: "a", Message: "zero extent on axis 0", Severity: SeverityWarning}
	assert.Equal(t, `[warning] region "a": zero extent on axis 0`, f.Error())

	f = Finding{Message: "empty", Severity: SeverityError}
	assert.Equal(t, "[error] empty", f.Error())
}
