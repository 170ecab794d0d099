package domain

import (
	"math"

	"hklgeo/pkg/unit"
	"hklgeo/pkg/vecmath"
)

// Source describes the incident beam: its wavelength and the direction of
// ki in the geometry's un-rotated lab frame.
type Source struct {
	WavelengthNM float64
	KiDirection  vecmath.Vector3
}

// Wavenumber returns 2*pi/wavelength, the magnitude of ki and the scale
// factor used throughout the hkl/q engines.
func (s Source) Wavenumber() float64 {
	if s.WavelengthNM <= 0 {
		return math.NaN()
	}
	return 2 * math.Pi / s.WavelengthNM
}

// Descriptor identifies a diffractometer factory: its registry name, the
// canonical order axes are reported in, and a human description.
type Descriptor struct {
	Name        string
	AxisNames   []string
	Description string
}

// Geometry is two kinematic chains (Holders) of Parameters (axes), plus the
// Source. Holder[0] carries the sample; Holder[len-1] carries the
// detector, per spec.md §3's convention.
type Geometry struct {
	Descriptor Descriptor
	Source     Source

	axes     []*Parameter
	axisIdx  map[string]int
	holders  []*Holder
}

// NewGeometry constructs an empty Geometry for the given descriptor and
// source. AddHolder must be called at least twice before axes are added
// (sample holder, then detector holder), per the Holder[0]/Holder[last]
// convention.
func NewGeometry(descriptor Descriptor, source Source) *Geometry {
	return &Geometry{
		Descriptor: descriptor,
		Source:     source,
		axisIdx:    make(map[string]int),
	}
}

// AddHolder appends a new, empty Holder and returns its index.
func (g *Geometry) AddHolder() int {
	g.holders = append(g.holders, newHolder(g))
	return len(g.holders) - 1
}

// Holder returns the holder at idx.
func (g *Geometry) Holder(idx int) *Holder { return g.holders[idx] }

// HolderCount returns the number of holders.
func (g *Geometry) HolderCount() int { return len(g.holders) }

// SampleHolder returns Holder[0], by convention the sample-side chain.
func (g *Geometry) SampleHolder() *Holder { return g.holders[0] }

// DetectorHolder returns Holder[len-1], by convention the detector-side
// chain.
func (g *Geometry) DetectorHolder() *Holder { return g.holders[len(g.holders)-1] }

// addAxis inserts p into the geometry's axis list if its name is not
// already present, or validates compatibility and returns the existing
// index otherwise (axis insertion is idempotent, per spec.md §3). An
// existing axis of the same name but an incompatible transformation is a
// fatal, non-recoverable construction error (Incompatible).
func (g *Geometry) addAxis(p *Parameter) (int, error) {
	if idx, ok := g.axisIdx[p.Name]; ok {
		existing := g.axes[idx]
		if !existing.CompatibleWith(p) {
			return 0, NewError(Incompatible, p.Name,
				"axis %q already exists with a different transformation", p.Name)
		}
		return idx, nil
	}
	idx := len(g.axes)
	g.axes = append(g.axes, p)
	g.axisIdx[p.Name] = idx
	return idx, nil
}

// AddRotation adds (or reuses) a rotation axis on the holder at holderIdx
// and returns its geometry-wide index.
func (g *Geometry) AddRotation(holderIdx int, name string, axisV vecmath.Vector3, displayUnit unit.Unit) (int, error) {
	idx, err := g.addAxis(NewRotation(name, "", axisV, displayUnit))
	if err != nil {
		return 0, err
	}
	g.holders[holderIdx].AddIndex(idx)
	return idx, nil
}

// AddTranslation adds (or reuses) a translation axis on the holder at
// holderIdx and returns its geometry-wide index.
func (g *Geometry) AddTranslation(holderIdx int, name string, axisV vecmath.Vector3, displayUnit unit.Unit) (int, error) {
	idx, err := g.addAxis(NewTranslation(name, "", axisV, displayUnit))
	if err != nil {
		return 0, err
	}
	g.holders[holderIdx].AddIndex(idx)
	return idx, nil
}

// Axes returns the geometry's axes in insertion order. The returned slice
// aliases internal storage and must not be mutated by callers outside this
// package.
func (g *Geometry) Axes() []*Parameter { return g.axes }

// AxisNames returns axis names in the canonical Descriptor order.
func (g *Geometry) AxisNames() []string { return g.Descriptor.AxisNames }

// AxisByName returns the axis with the given name.
func (g *Geometry) AxisByName(name string) (*Parameter, bool) {
	idx, ok := g.axisIdx[name]
	if !ok {
		return nil, false
	}
	return g.axes[idx], true
}

// AxisIndex returns the geometry-wide index of the named axis.
func (g *Geometry) AxisIndex(name string) (int, bool) {
	idx, ok := g.axisIdx[name]
	return idx, ok
}

// AxisGet returns the named axis's current value (default unit).
func (g *Geometry) AxisGet(name string) (float64, error) {
	p, ok := g.AxisByName(name)
	if !ok {
		return 0, NewError(BadInput, name, "unknown axis")
	}
	return p.Value(), nil
}

// AxisSet sets the named axis's value (default unit).
func (g *Geometry) AxisSet(name string, value float64) error {
	p, ok := g.AxisByName(name)
	if !ok {
		return NewError(BadInput, name, "unknown axis")
	}
	return p.SetValue(value)
}

// AxisValuesGet returns every axis's current value (default unit), in
// canonical Descriptor.AxisNames order.
func (g *Geometry) AxisValuesGet() []float64 {
	out := make([]float64, len(g.Descriptor.AxisNames))
	for i, name := range g.Descriptor.AxisNames {
		p, ok := g.AxisByName(name)
		if !ok {
			out[i] = math.NaN()
			continue
		}
		out[i] = p.Value()
	}
	return out
}

// AxisValuesSet sets every axis's value (default unit), in canonical
// Descriptor.AxisNames order. It is atomic: if any value is rejected, no
// axis is mutated.
func (g *Geometry) AxisValuesSet(values []float64) error {
	if len(values) != len(g.Descriptor.AxisNames) {
		return NewError(BadInput, "", "expected %d axis values, got %d", len(g.Descriptor.AxisNames), len(values))
	}
	params := make([]*Parameter, len(values))
	for i, name := range g.Descriptor.AxisNames {
		p, ok := g.AxisByName(name)
		if !ok {
			return NewError(BadInput, name, "unknown axis")
		}
		params[i] = p
	}
	for i, v := range values {
		if math.IsNaN(v) {
			return NewError(BadInput, params[i].Name, "value must not be NaN")
		}
		if params[i].Kind != RotationKind && (v < params[i].Min() || v > params[i].Max()) {
			return NewError(OutOfRange, params[i].Name, "value %g outside [%g, %g]", v, params[i].Min(), params[i].Max())
		}
	}
	for i, v := range values {
		_ = params[i].SetValue(v)
	}
	return nil
}

// WavelengthGet returns the source wavelength in nanometres.
func (g *Geometry) WavelengthGet() float64 { return g.Source.WavelengthNM }

// WavelengthSet sets the source wavelength in nanometres; wavelength <= 0
// is rejected.
func (g *Geometry) WavelengthSet(nm float64) error {
	if nm <= 0 || math.IsNaN(nm) {
		return NewError(BadInput, "wavelength", "wavelength must be positive, got %g", nm)
	}
	g.Source.WavelengthNM = nm
	return nil
}

// Update recomputes every Holder's cumulative quaternion if any axis
// carries a set changed bit, then clears every axis's changed bit.
func (g *Geometry) Update() {
	dirty := false
	for _, a := range g.axes {
		if a.Changed() {
			dirty = true
			break
		}
	}
	if dirty {
		for _, h := range g.holders {
			h.update(g.axes)
		}
	}
	for _, a := range g.axes {
		a.ClearChanged()
	}
}

// Distance returns sum(|v_i - v'_i|) over axes shared by name with other.
func (g *Geometry) Distance(other *Geometry) float64 {
	var total float64
	for _, name := range g.Descriptor.AxisNames {
		a, ok1 := g.AxisByName(name)
		b, ok2 := other.AxisByName(name)
		if !ok1 || !ok2 {
			continue
		}
		total += math.Abs(a.Value() - b.Value())
	}
	return total
}

// DistanceOrthodromic returns the sum of per-axis shortest-arc distances
// (rotations wrap modulo 2*pi; translations are plain linear distance).
func (g *Geometry) DistanceOrthodromic(other *Geometry) float64 {
	var total float64
	for _, name := range g.Descriptor.AxisNames {
		a, ok1 := g.AxisByName(name)
		b, ok2 := other.AxisByName(name)
		if !ok1 || !ok2 {
			continue
		}
		total += a.OrthodromicDistanceTo(b)
	}
	return total
}

// ClosestFrom lifts every axis of other into the 2*pi-equivalent
// representative, within this geometry's axis ranges, closest to this
// geometry's current value. It fails atomically: if any axis has no
// representative within range, no axis is mutated.
func (g *Geometry) ClosestFrom(other *Geometry) error {
	type pending struct {
		axis  *Parameter
		value float64
	}
	var plan []pending
	for _, name := range g.Descriptor.AxisNames {
		self, ok1 := g.AxisByName(name)
		src, ok2 := other.AxisByName(name)
		if !ok1 || !ok2 {
			continue
		}
		v, ok := src.closestRepresentativeNear(self.Value())
		if !ok {
			return NewError(BadInput, name, "no representative of %q within range", name)
		}
		plan = append(plan, pending{self, v})
	}
	for _, p := range plan {
		_ = p.axis.SetValue(p.value)
	}
	return nil
}

// Ki returns the incident wavevector in the lab frame: the source direction
// scaled to the wavenumber. No registered diffractometer in this catalog
// places axes upstream of the sample holder, so ki is not rotated by any
// holder; per spec.md §4.2 this is the seam a future pre-sample chain would
// extend.
func (g *Geometry) Ki() vecmath.Vector3 {
	return g.Source.KiDirection.Normalized().Scale(g.Source.Wavenumber())
}

// Kf returns the outgoing wavevector in the lab frame: detector-local kf
// rotated through Holder[last]'s cumulative quaternion, scaled to the
// wavenumber.
func (g *Geometry) Kf(detectorLocalKf vecmath.Vector3) vecmath.Vector3 {
	rotated := g.DetectorHolder().Quaternion().Rotate(detectorLocalKf)
	return rotated.Normalized().Scale(g.Source.Wavenumber())
}

// Clone returns a deep copy of g: independent axes and holders, so mutating
// the clone never affects g. Used by the solver (working copies) and
// GeometryList (item storage).
func (g *Geometry) Clone() *Geometry {
	cp := &Geometry{
		Descriptor: g.Descriptor,
		Source:     g.Source,
		axisIdx:    make(map[string]int, len(g.axisIdx)),
	}
	cp.axes = make([]*Parameter, len(g.axes))
	for i, a := range g.axes {
		cp.axes[i] = a.Clone()
	}
	for k, v := range g.axisIdx {
		cp.axisIdx[k] = v
	}
	cp.holders = make([]*Holder, len(g.holders))
	for i, h := range g.holders {
		nh := newHolder(cp)
		nh.indices = append([]int(nil), h.indices...)
		nh.q = h.q
		cp.holders[i] = nh
	}
	return cp
}
