package validation

import (
	"testing"

	"hklgeo/pkg/domain"
)

func TestCheckModeContractFlagsMissingSetHook(t *testing.T) {
	m := &domain.Mode{
		Name:      "broken",
		WriteAxes: []string{"a"},
		Residuals: []domain.ResidualFunc{
			func(ctx *domain.ResidualContext) []float64 { return []float64{0} },
		},
	}
	errs := CheckModeContract("test", m)
	if len(errs) == 0 {
		t.Fatalf("expected a violation for a residual mode with no Set hook")
	}
}

func TestCheckModeContractAcceptsWellFormedMode(t *testing.T) {
	m := &domain.Mode{
		Name:      "ok",
		ReadAxes:  []string{"a"},
		WriteAxes: []string{"a"},
		Residuals: []domain.ResidualFunc{
			func(ctx *domain.ResidualContext) []float64 { return []float64{0} },
		},
		Ops: domain.ModeOperations{
			Get: func(ctx *domain.ResidualContext) error { return nil },
			Set: func(ctx *domain.ResidualContext, targets []float64) ([]*domain.Geometry, error) { return nil, nil },
		},
	}
	if errs := CheckModeContract("test", m); len(errs) != 0 {
		t.Fatalf("expected no violations, got %v", errs)
	}
}
