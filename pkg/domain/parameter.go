package domain

import (
	"math"

	"hklgeo/pkg/unit"
	"hklgeo/pkg/vecmath"
)

// ParameterKind distinguishes the three transformation shapes a Parameter
// can apply when it participates in a Holder's cumulative transform.
type ParameterKind int

const (
	// ScalarKind parameters carry no geometric transformation (used for
	// mode-local scalars such as fixed offsets).
	ScalarKind ParameterKind = iota
	// RotationKind parameters rotate around AxisV about Origin by Value
	// radians, right-hand rule.
	RotationKind
	// TranslationKind parameters add AxisV*Value to a position.
	TranslationKind
)

// Parameter is a named, bounded scalar with an optional geometric
// transformation. Geometry axes, pseudo-axes, and mode-local scalars are
// all Parameters; only the owner differs (Geometry, Engine, or Mode).
type Parameter struct {
	Name        string
	Description string
	Kind        ParameterKind
	AxisV       vecmath.Vector3 // rotation or translation direction
	Origin      vecmath.Vector3 // rotation pivot, zero for translations

	value float64
	min   float64
	max   float64

	Fit     bool // whether a solver is permitted to vary this parameter
	changed bool // set on any mutation, cleared by Geometry.Update

	DisplayUnit unit.Unit
}

// NewScalar builds an unbounded, non-transforming Parameter (used for
// pseudo-axes and mode-local scalars).
func NewScalar(name, description string, value float64, displayUnit unit.Unit) *Parameter {
	return &Parameter{
		Name:        name,
		Description: description,
		Kind:        ScalarKind,
		value:       value,
		min:         -math.MaxFloat64,
		max:         math.MaxFloat64,
		Fit:         true,
		DisplayUnit: displayUnit,
	}
}

// NewRotation builds a rotation axis around axisV (about the origin),
// defaulting to the canonical [-pi, pi] range used throughout the
// diffractometer catalog.
func NewRotation(name, description string, axisV vecmath.Vector3, displayUnit unit.Unit) *Parameter {
	return &Parameter{
		Name:        name,
		Description: description,
		Kind:        RotationKind,
		AxisV:       axisV.Normalized(),
		value:       0,
		min:         -math.Pi,
		max:         math.Pi,
		Fit:         true,
		DisplayUnit: displayUnit,
	}
}

// NewTranslation builds a translation axis along axisV, unbounded by
// default.
func NewTranslation(name, description string, axisV vecmath.Vector3, displayUnit unit.Unit) *Parameter {
	return &Parameter{
		Name:        name,
		Description: description,
		Kind:        TranslationKind,
		AxisV:       axisV,
		value:       0,
		min:         -math.MaxFloat64,
		max:         math.MaxFloat64,
		Fit:         true,
		DisplayUnit: displayUnit,
	}
}

// Value returns the current value in the default (internal) unit.
func (p *Parameter) Value() float64 { return p.value }

// ValueUser returns the current value converted into the display unit.
func (p *Parameter) ValueUser() float64 { return unit.FromDefault(p.value, p.DisplayUnit) }

// Changed reports whether the value was mutated since the last
// ClearChanged call.
func (p *Parameter) Changed() bool { return p.changed }

// ClearChanged resets the changed bit; called by Geometry.Update after it
// has consumed the bit to decide whether to recompute Holder quaternions.
func (p *Parameter) ClearChanged() { p.changed = false }

// Min and Max return the bounds in the default unit.
func (p *Parameter) Min() float64 { return p.min }
func (p *Parameter) Max() float64 { return p.max }

// SetValue sets the value (default unit). NaN is rejected without
// mutating p. Out-of-range values are rejected for translations and
// scalars; rotations accept any non-NaN value (validity of a *range-bound*
// rotation is a separate question, see IsValidRange).
func (p *Parameter) SetValue(v float64) error {
	if math.IsNaN(v) {
		return NewError(BadInput, p.Name, "value must not be NaN")
	}
	if p.Kind != RotationKind && (v < p.min || v > p.max) {
		return NewError(OutOfRange, p.Name, "value %g outside [%g, %g]", v, p.min, p.max)
	}
	p.value = v
	p.changed = true
	return nil
}

// SetValueUser sets the value expressed in the display unit.
func (p *Parameter) SetValueUser(v float64) error {
	return p.SetValue(unit.ToDefault(v, p.DisplayUnit))
}

// SetRange sets [min, max] in the default unit. Rejected if min > max or
// either bound is NaN; the previous bounds are left untouched on failure.
func (p *Parameter) SetRange(min, max float64) error {
	if math.IsNaN(min) || math.IsNaN(max) || min > max {
		return NewError(BadInput, p.Name, "invalid range [%g, %g]", min, max)
	}
	p.min, p.max = min, max
	return nil
}

// SetRangeUser sets [min, max] expressed in the display unit.
func (p *Parameter) SetRangeUser(min, max float64) error {
	return p.SetRange(unit.ToDefault(min, p.DisplayUnit), unit.ToDefault(max, p.DisplayUnit))
}

// IsValidRange reports whether the current value has a representative
// inside [min, max] once rotation periodicity is accounted for. Non-rotation
// parameters are valid iff value lies in [min, max] directly.
func (p *Parameter) IsValidRange() bool {
	if p.Kind != RotationKind {
		return p.value >= p.min && p.value <= p.max
	}
	_, ok := p.closestRepresentative(p.value)
	return ok
}

// Quaternion returns the rotation this parameter currently represents, or
// nil for non-rotation kinds.
func (p *Parameter) Quaternion() *vecmath.Quaternion {
	if p.Kind != RotationKind {
		return nil
	}
	q := vecmath.FromAngleAxis(p.value, p.AxisV)
	return &q
}

// ApplyTransformation applies this parameter's transformation to v: a
// rotation rotates v by Value around AxisV about Origin; a translation adds
// AxisV*Value; a scalar leaves v unchanged.
func (p *Parameter) ApplyTransformation(v vecmath.Vector3) vecmath.Vector3 {
	switch p.Kind {
	case RotationKind:
		rel := v.Sub(p.Origin)
		rotated := vecmath.FromAngleAxis(p.value, p.AxisV).Rotate(rel)
		return rotated.Add(p.Origin)
	case TranslationKind:
		return v.Add(p.AxisV.Scale(p.value))
	default:
		return v
	}
}

// OrthodromicDistanceTo returns the shortest-arc distance to another
// parameter's value: angular wrap-around for rotations, plain absolute
// difference for everything else.
func (p *Parameter) OrthodromicDistanceTo(other *Parameter) float64 {
	if p.Kind == RotationKind {
		return vecmath.OrthodromicDistance(p.value, other.value)
	}
	return math.Abs(p.value - other.value)
}

// SmallestInRange returns the 2*pi-equivalent of the current value lifted
// into [min, min+2*pi). Non-rotation parameters return the value unchanged.
func (p *Parameter) SmallestInRange() float64 {
	if p.Kind != RotationKind {
		return p.value
	}
	v := p.value
	for v < p.min {
		v += 2 * math.Pi
	}
	for v >= p.min+2*math.Pi {
		v -= 2 * math.Pi
	}
	return v
}

// closestRepresentative returns the 2*pi-equivalent of value that lies
// inside [min, max] and is closest to value itself, preferring the
// representative nearest to value when several exist. ok is false when no
// such representative exists (range narrower than a full period located
// elsewhere).
func (p *Parameter) closestRepresentative(value float64) (float64, bool) {
	if p.Kind != RotationKind {
		if value >= p.min && value <= p.max {
			return value, true
		}
		return 0, false
	}
	base := value
	for base > p.min {
		base -= 2 * math.Pi
	}
	best := math.NaN()
	found := false
	for v := base; v <= p.max+2*math.Pi; v += 2 * math.Pi {
		if v < p.min-vecmath.Epsilon || v > p.max+vecmath.Epsilon {
			continue
		}
		if !found || math.Abs(v-value) < math.Abs(best-value) {
			best = v
			found = true
		}
	}
	return best, found
}

// ClosestValueTo returns the 2*pi-equivalent of p's current value that lies
// within [min, max] and is nearest to ref. NaN and ok=false are returned
// when no representative falls inside the range.
func (p *Parameter) ClosestValueTo(ref float64) (float64, bool) {
	best, found := p.closestRepresentativeNear(ref)
	return best, found
}

// closestRepresentativeNear mirrors closestRepresentative but minimizes
// distance to ref rather than to p's own current value, which is the form
// Geometry.ClosestFrom needs (lifting p's value toward a reference
// geometry's value).
func (p *Parameter) closestRepresentativeNear(ref float64) (float64, bool) {
	if p.Kind != RotationKind {
		if p.value >= p.min && p.value <= p.max {
			return p.value, true
		}
		return math.NaN(), false
	}
	base := p.value
	for base > p.min {
		base -= 2 * math.Pi
	}
	for base < p.min-2*math.Pi {
		base += 2 * math.Pi
	}
	best := math.NaN()
	found := false
	for v := base; v <= p.max+2*math.Pi; v += 2 * math.Pi {
		if v < p.min-vecmath.Epsilon || v > p.max+vecmath.Epsilon {
			continue
		}
		if !found || math.Abs(v-ref) < math.Abs(best-ref) {
			best = v
			found = true
		}
	}
	return best, found
}

// CompatibleWith reports whether p and other share the same kind and
// exactly equal axis/origin, the condition Geometry construction requires
// of two axes that share a name.
func (p *Parameter) CompatibleWith(other *Parameter) bool {
	if p.Kind != other.Kind {
		return false
	}
	switch p.Kind {
	case RotationKind:
		return p.AxisV == other.AxisV && p.Origin == other.Origin
	case TranslationKind:
		return p.AxisV == other.AxisV
	default:
		return true
	}
}

// Randomize sets the value to a uniformly random point in [min, max],
// drawn from rng; for rotations the interval is first intersected with
// [-pi, pi]. Used by the solver's restart strategy.
func (p *Parameter) Randomize(rng *Rand) {
	lo, hi := p.min, p.max
	if p.Kind == RotationKind {
		lo, hi = -math.Pi, math.Pi
		if p.min > lo {
			lo = p.min
		}
		if p.max < hi {
			hi = p.max
		}
	}
	p.value = lo + rng.Float64()*(hi-lo)
	p.changed = true
}

// Clone returns a deep copy of p, used when a Geometry is deep-copied.
func (p *Parameter) Clone() *Parameter {
	cp := *p
	return &cp
}
