package k4cv

import (
	"math"
	"testing"

	"hklgeo/pkg/domain"
)

const deg = math.Pi / 180

func TestKappaToEulerAtZeroKappaIsIdentity(t *testing.T) {
	omega, chi, phi := kappaToEuler(12*deg, 0, 34*deg)
	if math.Abs(chi) > 1e-9 {
		t.Fatalf("chi = %v, want 0 at kappa=0", chi)
	}
	if math.Abs(omega-12*deg) > 1e-9 {
		t.Fatalf("omega = %v, want komega unchanged at kappa=0", omega)
	}
	if math.Abs(phi-34*deg) > 1e-9 {
		t.Fatalf("phi = %v, want kphi unchanged at kappa=0", phi)
	}
}

func TestEuleriansEngineReadsKappaTriad(t *testing.T) {
	g := buildGeometry(1.54)
	_ = g.AxisSet(komega, 10*deg)
	_ = g.AxisSet(kappa, 0)
	_ = g.AxisSet(kphi, 20*deg)
	_ = g.AxisSet(tthAx, 0)
	g.Update()

	lattice, err := domain.NewLattice(1, 1, 1, 90*deg, 90*deg, 90*deg)
	if err != nil {
		t.Fatalf("NewLattice: %v", err)
	}
	sample := domain.NewSample("test", lattice)
	detector := domain.NewDetector0D()
	list := buildEngineList(g, detector, sample)

	e, ok := list.EngineByName("eulerians")
	if !ok {
		t.Fatalf("missing eulerians engine")
	}
	values, err := e.PseudoAxesValuesGet()
	if err != nil {
		t.Fatalf("PseudoAxesValuesGet: %v", err)
	}
	if math.Abs(values[0]-10*deg) > 1e-9 {
		t.Fatalf("omega = %v, want %v", values[0], 10*deg)
	}
	if math.Abs(values[1]) > 1e-9 {
		t.Fatalf("chi = %v, want 0", values[1])
	}
	if math.Abs(values[2]-20*deg) > 1e-9 {
		t.Fatalf("phi = %v, want %v", values[2], 20*deg)
	}
}
