package zaxis

import (
	"math"
	"testing"

	"hklgeo/pkg/domain"
)

const deg = math.Pi / 180

// TestZaxisReducesToE4CVBissectorAtZeroMuGamma checks that with mu=0 and
// gamma=0 (both extra axes ZAXIS adds beyond a four-circle geometry held at
// their identity), the hkl engine's bissector mode reproduces the same
// (h,k,l) as plugins/e4cv's fixture at the same omega/chi/phi/delta values,
// since mu/omega share a rotation axis (z) and delta/gamma reduce to the
// same detector rotation as e4cv's tth when gamma=0.
func TestZaxisReducesToE4CVBissectorAtZeroMuGamma(t *testing.T) {
	g := buildGeometry(1.54)
	_ = g.AxisSet(mu, 0)
	_ = g.AxisSet(omega, 30*deg)
	_ = g.AxisSet(chi, 0)
	_ = g.AxisSet(phi, 90*deg)
	_ = g.AxisSet(delta, 60*deg)
	_ = g.AxisSet(gamma, 0)
	g.Update()

	lattice, err := domain.NewLattice(0.54, 0.54, 0.54, 90*deg, 90*deg, 90*deg)
	if err != nil {
		t.Fatalf("NewLattice: %v", err)
	}
	sample := domain.NewSample("Cu", lattice)
	detector := domain.NewDetector0D()
	list := buildEngineList(g, detector, sample)

	e, ok := list.EngineByName("hkl")
	if !ok {
		t.Fatalf("missing hkl engine")
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

func TestZaxisRegistersUnderZAXIS(t *testing.T) {
	if descriptor.Name != "ZAXIS" {
		t.Fatalf("descriptor name = %q, want ZAXIS", descriptor.Name)
	}
}
