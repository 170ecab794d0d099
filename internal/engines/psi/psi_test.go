package psi

import (
	"math"
	"testing"

	"hklgeo/internal/engine"
	"hklgeo/pkg/domain"
	"hklgeo/pkg/unit"
	"hklgeo/pkg/vecmath"
)

// buildFixture builds a geometry with an identity sample holder (no
// rotation axes) and a single detector-side tth rotation about z, so Q in
// the sample frame is ki-independent of any sample rotation and easy to
// compute by hand: at tth=90deg, ki=k*(1,0,0), kf=k*(0,1,0), so
// Q = k*(-1,1,0).
func buildFixture(t *testing.T, tthDeg float64, ref domain.Reflection) *engine.List {
	t.Helper()
	descriptor := domain.Descriptor{Name: "test-psi", AxisNames: []string{"tth"}}
	g := domain.NewGeometry(descriptor, domain.Source{WavelengthNM: 1.0, KiDirection: vecmath.Vector3{X: 1}})
	g.AddHolder()
	detectorHolder := g.AddHolder()
	_, _ = g.AddRotation(detectorHolder, "tth", vecmath.Vector3{Z: 1}, unit.Degree)
	_ = g.AxisSet("tth", tthDeg*math.Pi/180)
	g.Update()

	lattice, err := domain.NewLattice(1, 1, 1, math.Pi/2, math.Pi/2, math.Pi/2)
	if err != nil {
		t.Fatalf("NewLattice: %v", err)
	}
	sample := domain.NewSample("test", lattice)
	sample.Reflections = []domain.Reflection{ref}

	list := engine.New(g, domain.NewDetector0D(), sample)
	list.Add(New(vecmath.Vector3{X: 1}, []string{"tth"}))
	return list
}

// TestPsiZeroWhenReferenceAlreadyOnZeroDirection: with Q = k*(-1,1,0) (no
// z-component), projecting the {0,0,1} "zero" direction onto the plane
// perpendicular to Q leaves it unchanged (z already has no component along
// Q), so choosing the reference reflection (0,0,1) makes its perpendicular
// component coincide exactly with that zero direction: psi = 0.
func TestPsiZeroWhenReferenceAlreadyOnZeroDirection(t *testing.T) {
	list := buildFixture(t, 90, domain.Reflection{H: 0, K: 0, L: 1})
	e, _ := list.EngineByName("psi")
	values, err := e.PseudoAxesValuesGet()
	if err != nil {
		t.Fatalf("PseudoAxesValuesGet: %v", err)
	}
	if math.Abs(values[0]) > 1e-9 {
		t.Fatalf("psi = %v, want 0", values[0])
	}
}

// TestPsiQuarterTurnFromZeroDirection: reference (1,0,0), same geometry as
// above, gives a reference-perpendicular-to-Q component orthogonal to the
// zero direction (dot product works out to zero by hand), so psi = +90deg.
func TestPsiQuarterTurnFromZeroDirection(t *testing.T) {
	list := buildFixture(t, 90, domain.Reflection{H: 1, K: 0, L: 0})
	e, _ := list.EngineByName("psi")
	values, err := e.PseudoAxesValuesGet()
	if err != nil {
		t.Fatalf("PseudoAxesValuesGet: %v", err)
	}
	if math.Abs(values[0]-math.Pi/2) > 1e-9 {
		t.Fatalf("psi = %v, want pi/2", values[0])
	}
}

func TestPsiRequiresReferenceReflection(t *testing.T) {
	descriptor := domain.Descriptor{Name: "test-psi-empty", AxisNames: []string{"tth"}}
	g := domain.NewGeometry(descriptor, domain.Source{WavelengthNM: 1.0, KiDirection: vecmath.Vector3{X: 1}})
	g.AddHolder()
	detectorHolder := g.AddHolder()
	_, _ = g.AddRotation(detectorHolder, "tth", vecmath.Vector3{Z: 1}, unit.Degree)
	g.Update()
	lattice, _ := domain.NewLattice(1, 1, 1, math.Pi/2, math.Pi/2, math.Pi/2)
	sample := domain.NewSample("test", lattice)

	list := engine.New(g, domain.NewDetector0D(), sample)
	list.Add(New(vecmath.Vector3{X: 1}, []string{"tth"}))
	e, _ := list.EngineByName("psi")
	if _, err := e.PseudoAxesValuesGet(); err == nil {
		t.Fatalf("expected an error with no reference reflection recorded")
	}
}
