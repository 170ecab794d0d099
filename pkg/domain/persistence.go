package domain

import "context"

// ReflectionRecord is the persisted form of a Reflection: the Geometry
// snapshot is flattened to a diffractometer name, wavelength, and axis
// values rather than a live object graph, so it can round-trip through a
// row or a JSON document.
type ReflectionRecord struct {
	H, K, L          float64
	Diffractometer   string
	WavelengthNM     float64
	AxisValues       map[string]float64
	Relevant         bool
}

// SampleRecord is the persisted form of a Sample: lattice parameters,
// orientation angles, and the reflections used by
// ComputeUBFromTwoReflections. Persisting this is what lets a beamline
// control process reload a sample's orientation history across restarts.
type SampleRecord struct {
	Name                     string
	A, B, C                  float64
	AlphaRad, BetaRad, GamRad float64
	UXRad, UYRad, UZRad      float64
	Reflections              []ReflectionRecord
}

// GeometryPreset is a named, persisted snapshot of a Geometry's axis
// values — the persisted counterpart of AxisValuesGet/Set.
type GeometryPreset struct {
	Name           string
	Diffractometer string
	AxisValues     map[string]float64
	WavelengthNM   float64
}

// SampleStore persists SampleRecords. NotFound is reported as a BadInput
// Error carrying the requested name (see errors.go's taxonomy; NotFound is
// not a distinct Kind).
type SampleStore interface {
	Save(ctx context.Context, record SampleRecord) error
	Load(ctx context.Context, name string) (SampleRecord, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
}

// PresetStore persists GeometryPresets, keyed by name.
type PresetStore interface {
	Save(ctx context.Context, preset GeometryPreset) error
	Load(ctx context.Context, name string) (GeometryPreset, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
}

// ToRecord flattens s into its persisted form, recomputing each
// reflection's axis-value snapshot from its live Geometry.
func (s *Sample) ToRecord() SampleRecord {
	rec := SampleRecord{
		Name:     s.Name,
		A:        s.Lattice.A.Value(),
		B:        s.Lattice.B.Value(),
		C:        s.Lattice.C.Value(),
		AlphaRad: s.Lattice.Alpha.Value(),
		BetaRad:  s.Lattice.Beta.Value(),
		GamRad:   s.Lattice.Gam.Value(),
		UXRad:    s.UX.Value(),
		UYRad:    s.UY.Value(),
		UZRad:    s.UZ.Value(),
	}
	for _, r := range s.Reflections {
		axisValues := make(map[string]float64, len(r.Geometry.Axes()))
		for _, name := range r.Geometry.AxisNames() {
			v, err := r.Geometry.AxisGet(name)
			if err == nil {
				axisValues[name] = v
			}
		}
		rec.Reflections = append(rec.Reflections, ReflectionRecord{
			H: r.H, K: r.K, L: r.L,
			Diffractometer: r.Geometry.Descriptor.Name,
			WavelengthNM:   r.Geometry.WavelengthGet(),
			AxisValues:     axisValues,
			Relevant:       r.Relevant,
		})
	}
	return rec
}

// SampleFromRecord rebuilds a Sample's lattice and orientation from rec.
// Reflections are not restored here: rehydrating their Geometry snapshot
// requires a registry lookup by Diffractometer name, which pkg/domain must
// not depend on; no package in this module performs that rehydration.
func SampleFromRecord(rec SampleRecord) (*Sample, error) {
	lattice, err := NewLattice(rec.A, rec.B, rec.C, rec.AlphaRad, rec.BetaRad, rec.GamRad)
	if err != nil {
		return nil, err
	}
	s := NewSample(rec.Name, lattice)
	_ = s.UX.SetValue(rec.UXRad)
	_ = s.UY.SetValue(rec.UYRad)
	_ = s.UZ.SetValue(rec.UZRad)
	return s, nil
}
