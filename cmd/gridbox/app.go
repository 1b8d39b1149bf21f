package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/chazu/gridbox/pkg/check"
	"github.com/chazu/gridbox/pkg/compact"
	"github.com/chazu/gridbox/pkg/config"
	"github.com/chazu/gridbox/pkg/engine"
	"github.com/chazu/gridbox/pkg/kernel"
	"github.com/chazu/gridbox/pkg/kernel/sdfx"
	"github.com/chazu/gridbox/pkg/pointset"
	"github.com/chazu/gridbox/pkg/tessellate"
	"github.com/chazu/gridbox/pkg/vector"
)

// colorPalette is a default palette used to assign distinct colors to regions.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// lastRegion names the value of the final expression when it is a region.
const lastRegion = "_"

// App runs the evaluate / query / tessellate pipeline behind each command.
type App struct {
	engine    *engine.Engine
	kernel    kernel.Kernel
	thickness float64
	log       *zap.Logger
}

// MeshData is the JSON mesh format written by the mesh command.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Region   string    `json:"region"`
	Color    string    `json:"color"`
}

// RegionData summarizes one named region.
type RegionData struct {
	Name  string    `json:"name"`
	Dim   int       `json:"dim"`
	Terms int       `json:"terms"`
	Lower []float64 `json:"lower"`
	Upper []float64 `json:"upper"`
	Step  []float64 `json:"step"`
	Fold  string    `json:"fold"`
}

// SourceError carries the non-fatal evaluation errors of a program.
type SourceError struct {
	Errors []engine.EvalError
}

func (e *SourceError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ee := range e.Errors {
		msgs[i] = ee.Error()
	}
	return strings.Join(msgs, "; ")
}

// NewApp wires an engine and the sdfx kernel from cfg.
func NewApp(cfg *config.Config, log *zap.Logger) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	factory := compact.NewFactory(
		compact.WithDefaultStep(cfg.DefaultStep),
		compact.WithLogger(log.Named("compact")),
	)
	return &App{
		engine: engine.NewEngine(
			engine.WithFactory(factory),
			engine.WithLogger(log.Named("engine")),
			engine.WithTimeout(cfg.EvalTimeout),
		),
		kernel:    sdfx.New(cfg.MeshCells),
		thickness: cfg.Thickness,
		log:       log,
	}
}

// Load evaluates source. Evaluation errors are returned as *SourceError.
func (a *App) Load(source string) (*engine.Program, error) {
	p, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		return nil, err
	}
	if len(evalErrs) > 0 {
		return nil, &SourceError{Errors: evalErrs}
	}
	return p, nil
}

// Regions lists the named regions of source in definition order.
func (a *App) Regions(source string) ([]RegionData, error) {
	p, err := a.Load(source)
	if err != nil {
		return nil, err
	}
	out := make([]RegionData, 0, p.Len())
	for _, name := range p.Order {
		rd, err := describe(name, p.Lookup(name))
		if err != nil {
			return nil, err
		}
		out = append(out, rd)
	}
	return out, nil
}

// Check evaluates source and reports problems with its named regions.
func (a *App) Check(source string) (check.Result, error) {
	p, err := a.Load(source)
	if err != nil {
		return check.Result{}, err
	}
	r := check.Run(p)
	a.log.Debug("checked regions", zap.Int("errors", len(r.Errors)), zap.Int("warnings", len(r.Warnings)))
	return r, nil
}

func describe(name string, c *compact.Compact) (RegionData, error) {
	lo, err := c.Lower()
	if err != nil {
		return RegionData{}, err
	}
	hi, err := c.Upper()
	if err != nil {
		return RegionData{}, err
	}
	st, err := c.Step()
	if err != nil {
		return RegionData{}, err
	}
	return RegionData{
		Name:  name,
		Dim:   c.Dim(),
		Terms: c.Len(),
		Lower: lo.Coords(),
		Upper: hi.Coords(),
		Step:  st.Coords(),
		Fold:  c.String(),
	}, nil
}

// resolve picks the region called name. An empty name selects the value of
// the last expression, or the only named region.
func resolve(p *engine.Program, name string) (*compact.Compact, error) {
	switch {
	case name == lastRegion || (name == "" && p.Last != nil):
		if p.Last == nil {
			return nil, fmt.Errorf("last expression is not a region: %w", compact.ErrNotFound)
		}
		return p.Last, nil
	case name == "" && p.Len() == 1:
		return p.Lookup(p.Order[0]), nil
	case name == "":
		names := append([]string(nil), p.Order...)
		sort.Strings(names)
		return nil, fmt.Errorf("choose a region with --region (have %s): %w",
			strings.Join(names, ", "), compact.ErrInvalidArgument)
	}
	c := p.Lookup(name)
	if c == nil {
		return nil, fmt.Errorf("region %q: %w", name, compact.ErrNotFound)
	}
	return c, nil
}

func (a *App) region(source, name string) (*compact.Compact, error) {
	p, err := a.Load(source)
	if err != nil {
		return nil, err
	}
	return resolve(p, name)
}

// stepVector returns nil for an empty step so the region default applies.
func stepVector(step []float64) vector.Vector {
	if len(step) == 0 {
		return nil
	}
	return vector.New(step...)
}

// Points collects the lattice points of a region.
func (a *App) Points(source, name string, step []float64) (*pointset.Set, error) {
	c, err := a.region(source, name)
	if err != nil {
		return nil, err
	}
	s, err := pointset.Collect(c, stepVector(step))
	if err != nil {
		return nil, err
	}
	a.log.Debug("collected points", zap.String("region", name), zap.Int("count", s.Len()))
	return s, nil
}

// WritePoints writes every point of s, one per line.
func WritePoints(w io.Writer, s *pointset.Set) error {
	if s.Len() == 0 {
		return nil
	}
	cur, err := s.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = s.Release(cur) }()
	for {
		p, err := s.PointAt(cur)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, formatCoords(p.Coords())); err != nil {
			return err
		}
		if cur.IsEnd() {
			return nil
		}
		if err := cur.Next(); err != nil {
			return err
		}
	}
}

// Scan streams the lattice of a region to w, separating scan lines with a
// blank line whenever a dimension above the first advanced. It returns the
// number of points written.
func (a *App) Scan(w io.Writer, source, name string, step []float64) (int, error) {
	c, err := a.region(source, name)
	if err != nil {
		return 0, err
	}
	n := 0
	err = c.Walk(stepVector(step), func(p vector.Vector, axis int) error {
		if n > 0 && axis > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		n++
		_, err := fmt.Fprintln(w, formatCoords(p.Coords()))
		return err
	})
	if err != nil && !(compact.KindOf(err) == compact.KindOutOfRange && n == 0) {
		return n, err
	}
	return n, nil
}

// Nearest returns the lattice point of a region closest to coords.
func (a *App) Nearest(source, name string, coords []float64) (vector.Vector, error) {
	c, err := a.region(source, name)
	if err != nil {
		return nil, err
	}
	return c.NearestNeighbor(vector.New(coords...))
}

// Contains reports whether coords lie in a region.
func (a *App) Contains(source, name string, coords []float64) (bool, error) {
	c, err := a.region(source, name)
	if err != nil {
		return false, err
	}
	return c.Contains(vector.New(coords...))
}

// Meshes tessellates every named region of source, or the last expression
// when nothing is named.
func (a *App) Meshes(source string) ([]MeshData, error) {
	p, err := a.Load(source)
	if err != nil {
		return nil, err
	}

	parts := make([]tessellate.Part, 0, p.Len()+1)
	for _, name := range p.Order {
		parts = append(parts, tessellate.Part{Name: name, Region: p.Lookup(name)})
	}
	if len(parts) == 0 && p.Last != nil {
		parts = append(parts, tessellate.Part{Name: lastRegion, Region: p.Last})
	}

	meshes, err := tessellate.Tessellate(parts, a.kernel, tessellate.WithThickness(a.thickness))
	if err != nil {
		a.log.Warn("tessellation failed", zap.Error(err))
		return nil, err
	}

	out := make([]MeshData, 0, len(meshes))
	for i, m := range meshes {
		out = append(out, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Region:   m.Name,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}
	return out, nil
}

// WriteSTL writes meshes as one ASCII STL file with a solid per region.
func WriteSTL(w io.Writer, meshes []MeshData) error {
	for _, m := range meshes {
		km := &kernel.Mesh{Vertices: m.Vertices, Normals: m.Normals, Indices: m.Indices, Name: m.Region}
		if err := km.WriteSTL(w); err != nil {
			return err
		}
	}
	return nil
}

func formatCoords(c []float64) string {
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = fmt.Sprintf("%g", v)
	}
	return strings.Join(parts, " ")
}

// isSourceError reports whether err came from user code rather than the tool.
func isSourceError(err error) bool {
	var se *SourceError
	return errors.As(err, &se)
}
