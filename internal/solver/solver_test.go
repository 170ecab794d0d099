package solver

import (
	"math"
	"testing"

	"hklgeo/pkg/domain"
	"hklgeo/pkg/unit"
	"hklgeo/pkg/vecmath"
)

// buildLinearGeometry returns a one-axis geometry whose single rotation axis
// "theta" is the write axis of a trivial mode: residual = theta - target.
func buildLinearGeometry(t *testing.T, target float64) (*domain.Geometry, *domain.Mode) {
	t.Helper()
	g := domain.NewGeometry(domain.Descriptor{Name: "test", AxisNames: []string{"theta"}}, domain.Source{WavelengthNM: 0.1, KiDirection: vecmath.Vector3{X: 1}})
	g.AddHolder()
	if _, err := g.AddRotation(0, "theta", vecmath.Vector3{Z: 1}, unit.Radian); err != nil {
		t.Fatalf("AddRotation: %v", err)
	}

	mode := &domain.Mode{
		Name:      "linear",
		WriteAxes: []string{"theta"},
		Residuals: []domain.ResidualFunc{
			func(ctx *domain.ResidualContext) []float64 {
				v, _ := ctx.Geometry.AxisGet("theta")
				return []float64{v - target}
			},
		},
	}
	return g, mode
}

func TestSolveConvergesToRoot(t *testing.T) {
	g, mode := buildLinearGeometry(t, 0.7)
	ctx := &domain.ResidualContext{Geometry: g, Mode: mode}

	roots, err := Solve(ctx, Options{Rand: domain.NewRand(42)})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(roots) == 0 {
		t.Fatalf("expected at least one root")
	}
	found := false
	for _, r := range roots {
		if math.Abs(r[0]-0.7) < 1e-6 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a root near 0.7, got %v", roots)
	}
}

func TestSolveUnreachableTargetYieldsNoSolution(t *testing.T) {
	g := domain.NewGeometry(domain.Descriptor{Name: "test", AxisNames: []string{"theta"}}, domain.Source{WavelengthNM: 0.1, KiDirection: vecmath.Vector3{X: 1}})
	g.AddHolder()
	if _, err := g.AddRotation(0, "theta", vecmath.Vector3{Z: 1}, unit.Radian); err != nil {
		t.Fatalf("AddRotation: %v", err)
	}
	axis, _ := g.AxisByName("theta")
	if err := axis.SetRange(-0.1, 0.1); err != nil {
		t.Fatalf("SetRange: %v", err)
	}

	mode := &domain.Mode{
		Name:      "linear",
		WriteAxes: []string{"theta"},
		Residuals: []domain.ResidualFunc{
			func(ctx *domain.ResidualContext) []float64 {
				v, _ := ctx.Geometry.AxisGet("theta")
				return []float64{v - 3.0}
			},
		},
	}
	ctx := &domain.ResidualContext{Geometry: g, Mode: mode}

	roots, err := Solve(ctx, Options{Rand: domain.NewRand(7), MaxIterations: 200})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(roots) != 0 {
		t.Fatalf("expected no solutions in range, got %v", roots)
	}
}
