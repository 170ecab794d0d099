package domain

// Dependency is a bit in the set of external inputs an Engine's current
// mode needs before it can be used.
type Dependency int

const (
	DependsOnAxes Dependency = 1 << iota
	DependsOnEnergy
	DependsOnSample
)

// Capability is a bit in the set of operations the current mode supports.
type Capability int

const (
	CapReadable Capability = 1 << iota
	CapWritable
	CapInitializable
)

// ResidualContext bundles the read-only inputs a Mode's residual functions
// and get/set hooks need: the working Geometry (mutated in place by the
// solver between residual evaluations), the Detector, and the Sample.
type ResidualContext struct {
	Geometry *Geometry
	Detector *Detector
	Sample   *Sample
	Mode     *Mode
}

// ResidualFunc is a pure function from a write-axis vector (and the
// context's current Geometry/Detector/Sample/mode-local parameters) to a
// partial residual vector. A Mode concatenates every ResidualFunc's output,
// in order, into the full residual the solver drives to zero. Per spec.md
// §4.6/§9, these carry no hidden mutable state of their own; the only
// mutable workspace is the Geometry the solver resets between trials.
type ResidualFunc func(ctx *ResidualContext) []float64

// ModeOperations is the per-mode hook table: Init resets mode-local
// parameters to their defaults when the mode becomes current; Get computes
// pseudo-axis values from the current Geometry (the forward direction);
// Set computes axis solutions for target pseudo-axis values (the inverse
// direction), usually through a closure over internal/engine's AutoSet,
// the generic residual solver. A nil Get makes the mode unreadable and a
// nil Set makes it unwritable: there is no fallback dispatch for either.
type ModeOperations struct {
	Init func(mode *Mode)
	Get  func(ctx *ResidualContext) error
	Set  func(ctx *ResidualContext, targets []float64) ([]*Geometry, error)
}

// Mode is a named set of write axes, read axes, residual functions, and
// mode-local parameters — one algebraic recipe for inverting an Engine's
// pseudo-axes into axis values. |WriteAxes| must equal the total size of
// Residuals' concatenated output (spec.md §3 Mode invariant).
type Mode struct {
	Name       string
	ReadAxes   []string
	WriteAxes  []string
	Residuals  []ResidualFunc
	Parameters []*Parameter
	Ops        ModeOperations
}

// ResidualSize returns len(WriteAxes). Residuals are not evaluated, so the
// result says nothing about the actual size of their concatenated output.
func (m *Mode) ResidualSize() int {
	return len(m.WriteAxes)
}

// Evaluate concatenates every residual function's output for the given
// context into one residual vector.
func (m *Mode) Evaluate(ctx *ResidualContext) []float64 {
	out := make([]float64, 0, len(m.WriteAxes))
	for _, fn := range m.Residuals {
		out = append(out, fn(ctx)...)
	}
	return out
}

// ParameterByName returns a mode-local parameter by name.
func (m *Mode) ParameterByName(name string) (*Parameter, bool) {
	for _, p := range m.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// EngineOperations is the per-engine hook table beyond its modes: Free
// exists for parity with spec.md's opaque lifecycle but has no resources to
// release in this Go rendering (owners are garbage collected), and is
// therefore typically nil.
type EngineOperations struct {
	Free func(e *Engine)
}

// Engine is a family of pseudo-axes sharing modes — hkl, psi, q, tth, and
// so on. Its Geometry/Detector/Sample pointers are supplied by the owning
// EngineList at Init time, per spec.md §4.4.
type Engine struct {
	Name         string
	PseudoAxes   []*Parameter
	Modes        []*Mode
	Current      *Mode
	Dependencies Dependency
	Ops          EngineOperations

	Geometry *Geometry
	Detector *Detector
	Sample   *Sample

	initialized bool
}

// ModesNames returns the names of every available mode, in registration
// order.
func (e *Engine) ModesNames() []string {
	names := make([]string, len(e.Modes))
	for i, m := range e.Modes {
		names[i] = m.Name
	}
	return names
}

// CurrentModeSet switches to the named mode and resets its mode-local
// parameters to their Init defaults.
func (e *Engine) CurrentModeSet(name string) error {
	for _, m := range e.Modes {
		if m.Name == name {
			e.Current = m
			if m.Ops.Init != nil {
				m.Ops.Init(m)
			}
			return nil
		}
	}
	return NewError(BadInput, name, "engine %q has no mode %q", e.Name, name)
}

// PseudoAxisByName returns a pseudo-axis by name.
func (e *Engine) PseudoAxisByName(name string) (*Parameter, bool) {
	for _, p := range e.PseudoAxes {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Capabilities reports which operations the current mode supports.
func (e *Engine) Capabilities() Capability {
	if e.Current == nil {
		return 0
	}
	var cap Capability
	if e.Current.Ops.Get != nil {
		cap |= CapReadable
	}
	if e.Current.Ops.Set != nil {
		cap |= CapWritable
	}
	if e.Dependencies&DependsOnSample != 0 {
		cap |= CapInitializable
	}
	return cap
}

// InitializedGet reports whether InitializedSet(true) has succeeded since
// the last InitializedSet(false).
func (e *Engine) InitializedGet() bool { return e.initialized }

// InitializedSet sets or clears the flag InitializedGet reports. Setting
// true only requires a bound Geometry; no (Geometry, Sample, Detector)
// snapshot is captured, and no mode hook reads the flag. Setting false
// clears the flag without side effects. On failure nothing is mutated
// (rollback pattern per spec.md §7).
func (e *Engine) InitializedSet(v bool) error {
	if !v {
		e.initialized = false
		return nil
	}
	if e.Geometry == nil {
		return NewError(NotInitialized, e.Name, "engine has no geometry bound yet")
	}
	e.initialized = true
	return nil
}

// context builds a ResidualContext over g (or e.Geometry if g is nil).
func (e *Engine) context(g *Geometry) *ResidualContext {
	if g == nil {
		g = e.Geometry
	}
	return &ResidualContext{Geometry: g, Detector: e.Detector, Sample: e.Sample, Mode: e.Current}
}

// PseudoAxesValuesGet runs the current mode's Get hook against the bound
// Geometry and returns the resulting pseudo-axis values, in PseudoAxes
// order.
func (e *Engine) PseudoAxesValuesGet() ([]float64, error) {
	if e.Current == nil {
		return nil, NewError(BadInput, e.Name, "no current mode")
	}
	if e.Current.Ops.Get == nil {
		return nil, NewError(BadInput, e.Name, "mode %q is not readable", e.Current.Name)
	}
	if err := e.Current.Ops.Get(e.context(nil)); err != nil {
		return nil, err
	}
	out := make([]float64, len(e.PseudoAxes))
	for i, p := range e.PseudoAxes {
		out[i] = p.Value()
	}
	return out, nil
}

// PseudoAxisValuesSet runs the current mode's Set hook (closed-form or,
// more commonly, the generic residual solver wired in by the engine
// constructor) against a working copy of the bound Geometry and returns
// every converged solution. The bound Geometry itself is never mutated.
func (e *Engine) PseudoAxisValuesSet(targets []float64) ([]*Geometry, error) {
	if e.Current == nil {
		return nil, NewError(BadInput, e.Name, "no current mode")
	}
	if e.Current.Ops.Set == nil {
		return nil, NewError(BadInput, e.Name, "mode %q is not writable", e.Current.Name)
	}
	if len(targets) != len(e.PseudoAxes) {
		return nil, NewError(BadInput, e.Name, "expected %d pseudo-axis values, got %d", len(e.PseudoAxes), len(targets))
	}
	return e.Current.Ops.Set(e.context(nil), targets)
}
