package hkl

import (
	"math"
	"testing"

	"hklgeo/internal/engine"
	"hklgeo/pkg/domain"
	"hklgeo/pkg/unit"
	"hklgeo/pkg/vecmath"
)

const deg = math.Pi / 180

// buildE4CVLike mirrors plugins/e4cv's axis layout (omega/chi/phi sample,
// tth detector) without depending on the plugins package, so this test
// exercises the hkl engine's mode wiring directly.
func buildE4CVLike(t *testing.T) (*domain.Geometry, *domain.Sample, *engine.List) {
	t.Helper()
	descriptor := domain.Descriptor{Name: "test-e4cv", AxisNames: []string{"omega", "chi", "phi", "tth"}}
	g := domain.NewGeometry(descriptor, domain.Source{WavelengthNM: 1.54, KiDirection: vecmath.Vector3{X: 1}})
	sampleHolder := g.AddHolder()
	detectorHolder := g.AddHolder()
	_, _ = g.AddRotation(sampleHolder, "omega", vecmath.Vector3{Z: 1}, unit.Degree)
	_, _ = g.AddRotation(sampleHolder, "chi", vecmath.Vector3{X: 1}, unit.Degree)
	_, _ = g.AddRotation(sampleHolder, "phi", vecmath.Vector3{Z: 1}, unit.Degree)
	_, _ = g.AddRotation(detectorHolder, "tth", vecmath.Vector3{Z: 1}, unit.Degree)

	_ = g.AxisSet("omega", 30*deg)
	_ = g.AxisSet("chi", 0)
	_ = g.AxisSet("phi", 90*deg)
	_ = g.AxisSet("tth", 60*deg)
	g.Update()

	lattice, err := domain.NewLattice(0.54, 0.54, 0.54, 90*deg, 90*deg, 90*deg)
	if err != nil {
		t.Fatalf("NewLattice: %v", err)
	}
	sample := domain.NewSample("Cu", lattice)

	detector := domain.NewDetector0D()
	list := engine.New(g, detector, sample)
	writeAxes := []string{"omega", "chi", "phi", "tth"}
	localKf := detector.LocalKf()
	list.Add(New(Params{Sample: sample, DetectorLocalKf: localKf}, writeAxes, "tth", "omega", "chi", "phi"))
	return g, sample, list
}

func TestBissectorGet(t *testing.T) {
	_, _, list := buildE4CVLike(t)
	e, _ := list.EngineByName("hkl")
	if err := e.CurrentModeSet("bissector"); err != nil {
		t.Fatalf("CurrentModeSet: %v", err)
	}
	values, err := e.PseudoAxesValuesGet()
	if err != nil {
		t.Fatalf("PseudoAxesValuesGet: %v", err)
	}
	want := []float64{1, 0, 0}
	for i := range want {
		if math.Abs(values[i]-want[i]) > 1e-3 {
			t.Fatalf("pseudo-axis %d: got %v, want %v", i, values, want)
		}
	}
}

// TestConstantOmegaFreezesStartingValue exercises the fix to constant_omega:
// its extra residual must compare the live omega axis to the value it held
// when Set was invoked, not to itself mid-solve (which would always read
// zero and leave the mode unconstrained).
func TestConstantOmegaFreezesStartingValue(t *testing.T) {
	g, _, list := buildE4CVLike(t)
	e, _ := list.EngineByName("hkl")
	if err := e.CurrentModeSet("constant_omega"); err != nil {
		t.Fatalf("CurrentModeSet: %v", err)
	}
	startOmega, err := g.AxisGet("omega")
	if err != nil {
		t.Fatalf("AxisGet: %v", err)
	}

	values, err := e.PseudoAxesValuesGet()
	if err != nil {
		t.Fatalf("PseudoAxesValuesGet: %v", err)
	}
	solutions, err := e.PseudoAxisValuesSet(values)
	if err != nil {
		t.Fatalf("PseudoAxisValuesSet: %v", err)
	}
	if len(solutions) == 0 {
		t.Fatalf("expected at least one solution")
	}
	for i, sol := range solutions {
		omega, err := sol.AxisGet("omega")
		if err != nil {
			t.Fatalf("solution %d AxisGet: %v", i, err)
		}
		if math.Abs(omega-startOmega) > 1e-3 {
			t.Fatalf("solution %d: omega moved from %v to %v, constant_omega should hold it fixed", i, startOmega, omega)
		}
	}
}

func TestReflectivityModeIsWritable(t *testing.T) {
	_, _, list := buildE4CVLike(t)
	e, _ := list.EngineByName("hkl")
	if err := e.CurrentModeSet("reflectivity"); err != nil {
		t.Fatalf("CurrentModeSet: %v", err)
	}
	if e.Current.Ops.Set == nil {
		t.Fatalf("reflectivity mode has no Set hook")
	}
}
