package incidence

import (
	"math"
	"testing"

	"hklgeo/internal/engine"
	"hklgeo/pkg/domain"
	"hklgeo/pkg/unit"
	"hklgeo/pkg/vecmath"
)

// TestIncidenceEqualsSampleRotationAboutY exercises a case with an
// independently known answer: for a surface normal along +z rotated about
// +y by omega, and ki along +x, asin(ki . rotatedNormal) reduces to omega
// itself (rotating {0,0,1} by omega about y lands its x-component at
// sin(omega), which is exactly what ki's projection measures).
func TestIncidenceEqualsSampleRotationAboutY(t *testing.T) {
	descriptor := domain.Descriptor{Name: "test-incidence", AxisNames: []string{"omega"}}
	g := domain.NewGeometry(descriptor, domain.Source{WavelengthNM: 1.0, KiDirection: vecmath.Vector3{X: 1}})
	sampleHolder := g.AddHolder()
	g.AddHolder()
	_, _ = g.AddRotation(sampleHolder, "omega", vecmath.Vector3{Y: 1}, unit.Degree)
	omegaDeg := 30.0
	_ = g.AxisSet("omega", omegaDeg*math.Pi/180)
	g.Update()

	list := engine.New(g, domain.NewDetector0D(), nil)
	list.Add(New(Incidence, vecmath.Vector3{Z: 1}, vecmath.Vector3{}))
	e, _ := list.EngineByName("incidence")
	values, err := e.PseudoAxesValuesGet()
	if err != nil {
		t.Fatalf("PseudoAxesValuesGet: %v", err)
	}
	want := omegaDeg * math.Pi / 180
	if math.Abs(values[0]-want) > 1e-9 {
		t.Fatalf("incidence angle = %v, want %v", values[0], want)
	}
}

func TestEmergenceIsReadOnly(t *testing.T) {
	descriptor := domain.Descriptor{Name: "test-emergence", AxisNames: []string{"tth"}}
	g := domain.NewGeometry(descriptor, domain.Source{WavelengthNM: 1.0, KiDirection: vecmath.Vector3{X: 1}})
	g.AddHolder()
	detectorHolder := g.AddHolder()
	_, _ = g.AddRotation(detectorHolder, "tth", vecmath.Vector3{Z: 1}, unit.Degree)
	g.Update()

	list := engine.New(g, domain.NewDetector0D(), nil)
	list.Add(New(Emergence, vecmath.Vector3{Z: 1}, vecmath.Vector3{X: 1}))
	e, _ := list.EngineByName("emergence")
	if e.Current.Ops.Set != nil {
		t.Fatalf("emergence mode should have no Set hook")
	}
	if _, err := e.PseudoAxesValuesGet(); err != nil {
		t.Fatalf("PseudoAxesValuesGet: %v", err)
	}
}
