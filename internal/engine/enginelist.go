// Package engine provides EngineList, the container binding a Geometry,
// Detector, and Sample to a family of domain.Engine values, plus the generic
// residual-solving Set implementation every "auto" mode wires in.
package engine

import (
	"hklgeo/internal/geomlist"
	"hklgeo/internal/solver"
	"hklgeo/pkg/domain"
)

// List is the named collection of Engines sharing one Geometry, Detector,
// and Sample — spec.md §4.4's EngineList. Engines are initialized (their
// Geometry/Detector/Sample pointers bound) when added.
type List struct {
	Geometry *domain.Geometry
	Detector *domain.Detector
	Sample   *domain.Sample

	engines    []*domain.Engine
	engineIdx  map[string]int
}

// New builds an EngineList bound to geometry, detector, and sample.
func New(geometry *domain.Geometry, detector *domain.Detector, sample *domain.Sample) *List {
	return &List{Geometry: geometry, Detector: detector, Sample: sample, engineIdx: make(map[string]int)}
}

// Add binds e's Geometry/Detector/Sample to the list's and appends it.
func (l *List) Add(e *domain.Engine) {
	e.Geometry = l.Geometry
	e.Detector = l.Detector
	e.Sample = l.Sample
	l.engineIdx[e.Name] = len(l.engines)
	l.engines = append(l.engines, e)
}

// Engines returns every engine in the list, in registration order.
func (l *List) Engines() []*domain.Engine { return l.engines }

// EngineByName returns a named engine.
func (l *List) EngineByName(name string) (*domain.Engine, bool) {
	idx, ok := l.engineIdx[name]
	if !ok {
		return nil, false
	}
	return l.engines[idx], true
}

// Names returns every engine's name, in registration order.
func (l *List) Names() []string {
	out := make([]string, len(l.engines))
	for i, e := range l.engines {
		out[i] = e.Name
	}
	return out
}

// SolverOptions controls AutoSet's underlying numerical solve; the zero
// value uses the solver package's defaults.
type SolverOptions = solver.Options

// AutoSet is the generic Mode.Ops.Set implementation wired in by every mode
// that has no closed-form inverse: it clones ctx.Geometry, runs the
// numerical solver over mode.Evaluate, lifts/deduplicates/sorts the results
// via geomlist, and returns the resulting Geometry values ordered closest
// to the starting geometry first (spec.md §4.6/§4.7). A mode opts into this
// by setting Ops.Set to a closure over AutoSet with its own SolverOptions.
func AutoSet(ctx *domain.ResidualContext, opts SolverOptions) ([]*domain.Geometry, error) {
	working := ctx.Geometry.Clone()
	workingCtx := &domain.ResidualContext{Geometry: working, Detector: ctx.Detector, Sample: ctx.Sample, Mode: ctx.Mode}

	roots, err := solver.Solve(workingCtx, opts)
	if err != nil {
		return nil, err
	}

	list := geomlist.New(working, ctx.Mode.WriteAxes, roots)
	list.RemoveInvalid()
	list.Deduplicate(1e-7)
	list.SortByDistanceTo(ctx.Geometry)
	return list.Geometries(), nil
}
