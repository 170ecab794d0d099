package q

import (
	"math"
	"testing"

	"hklgeo/internal/engine"
	"hklgeo/pkg/domain"
	"hklgeo/pkg/unit"
	"hklgeo/pkg/vecmath"
)

func buildDetectorOnly(t *testing.T, wavelengthNM, tthDeg float64) (*domain.Geometry, *engine.List) {
	t.Helper()
	descriptor := domain.Descriptor{Name: "test-q", AxisNames: []string{"tth"}}
	g := domain.NewGeometry(descriptor, domain.Source{WavelengthNM: wavelengthNM, KiDirection: vecmath.Vector3{X: 1}})
	g.AddHolder()
	detectorHolder := g.AddHolder()
	_, _ = g.AddRotation(detectorHolder, "tth", vecmath.Vector3{Z: 1}, unit.Degree)
	_ = g.AxisSet("tth", tthDeg*math.Pi/180)
	g.Update()

	list := engine.New(g, domain.NewDetector0D(), nil)
	list.Add(New(vecmath.Vector3{X: 1}, []string{"tth"}))
	return g, list
}

// TestQAtBackscatteringEqualsQmax exercises q = qmax*sin(theta) at the one
// angle (tth = 180deg) where the result is independently known without
// reusing the engine's own formula: ki and kf are then antiparallel, theta
// reaches its maximum of 90deg, and q = qmax = 2*wavenumber.
func TestQAtBackscatteringEqualsQmax(t *testing.T) {
	g, list := buildDetectorOnly(t, 1.0, 180)
	e, _ := list.EngineByName("q")
	values, err := e.PseudoAxesValuesGet()
	if err != nil {
		t.Fatalf("PseudoAxesValuesGet: %v", err)
	}
	want := 2 * g.Source.Wavenumber()
	if math.Abs(values[0]-want) > 1e-9 {
		t.Fatalf("q at backscattering = %v, want %v", values[0], want)
	}
}

func TestQAtZeroScatteringIsZero(t *testing.T) {
	_, list := buildDetectorOnly(t, 1.0, 0)
	e, _ := list.EngineByName("q")
	values, err := e.PseudoAxesValuesGet()
	if err != nil {
		t.Fatalf("PseudoAxesValuesGet: %v", err)
	}
	if math.Abs(values[0]) > 1e-9 {
		t.Fatalf("q at zero scattering = %v, want 0", values[0])
	}
}

func TestQ2AlphaTracksKfAzimuth(t *testing.T) {
	descriptor := domain.Descriptor{Name: "test-q2", AxisNames: []string{"tth", "gamma"}}
	g := domain.NewGeometry(descriptor, domain.Source{WavelengthNM: 1.0, KiDirection: vecmath.Vector3{X: 1}})
	g.AddHolder()
	detectorHolder := g.AddHolder()
	_, _ = g.AddRotation(detectorHolder, "gamma", vecmath.Vector3{X: 1}, unit.Degree)
	_, _ = g.AddRotation(detectorHolder, "tth", vecmath.Vector3{Z: 1}, unit.Degree)
	_ = g.AxisSet("gamma", math.Pi/2)
	_ = g.AxisSet("tth", 30*math.Pi/180)
	g.Update()

	list := engine.New(g, domain.NewDetector0D(), nil)
	list.Add(NewQ2(vecmath.Vector3{X: 1}, []string{"tth", "gamma"}))
	e, _ := list.EngineByName("q2")
	values, err := e.PseudoAxesValuesGet()
	if err != nil {
		t.Fatalf("PseudoAxesValuesGet: %v", err)
	}
	if math.IsNaN(values[1]) {
		t.Fatalf("alpha is NaN")
	}
}
