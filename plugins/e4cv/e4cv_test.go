package e4cv

import (
	"math"
	"testing"

	"hklgeo/internal/engine"
	"hklgeo/pkg/domain"
)

const deg = math.Pi / 180

func buildCubicCopper(t *testing.T) (*domain.Geometry, *domain.Sample, *engine.List) {
	t.Helper()
	g := buildGeometry(descriptorE4CV, false, 1.54)
	_ = g.AxisSet(omega, 30*deg)
	_ = g.AxisSet(chi, 0)
	_ = g.AxisSet(phi, 90*deg)
	_ = g.AxisSet(tthAx, 60*deg)
	g.Update()

	lattice, err := domain.NewLattice(0.54, 0.54, 0.54, 90*deg, 90*deg, 90*deg)
	if err != nil {
		t.Fatalf("NewLattice: %v", err)
	}
	sample := domain.NewSample("Cu", lattice)

	detector := domain.NewDetector0D()
	list := buildEngineList(false)(g, detector, sample)
	return g, sample, list
}

func TestE4CVBissectorGet(t *testing.T) {
	_, _, list := buildCubicCopper(t)
	e, ok := list.EngineByName("hkl")
	if !ok {
		t.Fatalf("hkl engine not found")
	}
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

func TestE4CVBissectorSet(t *testing.T) {
	_, _, list := buildCubicCopper(t)
	e, ok := list.EngineByName("hkl")
	if !ok {
		t.Fatalf("hkl engine not found")
	}
	if err := e.CurrentModeSet("bissector"); err != nil {
		t.Fatalf("CurrentModeSet: %v", err)
	}
	solutions, err := e.PseudoAxisValuesSet([]float64{1, 0, 0})
	if err != nil {
		t.Fatalf("PseudoAxisValuesSet: %v", err)
	}
	if len(solutions) == 0 {
		t.Fatalf("expected at least one solution")
	}
	found := false
	for _, sol := range solutions {
		tth, _ := sol.AxisGet(tthAx)
		om, _ := sol.AxisGet(omega)
		if math.Abs(tth-2*om) < 1e-2 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a solution with tth ~= 2*omega, got %d solutions", len(solutions))
	}
}
