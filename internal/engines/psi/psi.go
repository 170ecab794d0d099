// Package psi implements the "psi" engine: the angle of a chosen reference
// vector around Q, spec.md §4.5. Get is closed-form; Set reuses the same
// closed-form expression as a one-component residual fed to the generic
// solver, since psi adds no write axis beyond the ones hkl's bissector-style
// equations already constrain — the "analytical mode" spec.md §4.4
// describes is this closed-form Get, not a special-cased Set.
package psi

import (
	"hklgeo/internal/engine"
	"hklgeo/pkg/domain"
	"hklgeo/pkg/unit"
	"hklgeo/pkg/vecmath"
)

// New builds the psi engine. The reference vector is the first recorded
// reflection's (h,k,l); Get and Set fail while the sample has no recorded
// reflection. The engine's initialized flag (InitializedSet) is not
// consulted.
func New(detectorLocalKf vecmath.Vector3, writeAxes []string) *domain.Engine {
	psiAxis := domain.NewScalar("psi", "rotation of the reference vector about Q", 0, unit.Degree)

	qSample := func(ctx *domain.ResidualContext) vecmath.Vector3 {
		ki := ctx.Geometry.Ki()
		kf := ctx.Geometry.Kf(detectorLocalKf)
		qLab := kf.Sub(ki)
		return ctx.Geometry.SampleHolder().Quaternion().Conjugate().Rotate(qLab)
	}

	currentPsi := func(ctx *domain.ResidualContext) (float64, error) {
		if ctx.Sample == nil || len(ctx.Sample.Reflections) == 0 {
			return 0, domain.NewError(domain.NotInitialized, "psi", "psi requires a reference reflection; record one and call initialized_set(true)")
		}
		ref := ctx.Sample.Reflections[0]
		q := qSample(ctx)
		n := q.Normalized()
		refQ := vecmath.Vector3{X: ref.H, Y: ref.K, Z: ref.L}
		refPerp := refQ.Sub(n.Scale(refQ.Dot(n)))
		if refPerp.Norm() < vecmath.Epsilon {
			return 0, domain.NewError(domain.Degenerate, "psi", "reference vector is parallel to Q")
		}
		zero := vecmath.ProjectOnPlane(vecmath.Vector3{Z: 1}, n)
		if zero.Norm() < vecmath.Epsilon {
			zero = vecmath.ProjectOnPlane(vecmath.Vector3{Y: 1}, n)
		}
		angle := vecmath.Angle(zero, refPerp)
		if n.Dot(zero.Cross(refPerp)) < 0 {
			angle = -angle
		}
		return angle, nil
	}

	get := func(ctx *domain.ResidualContext) error {
		ctx.Geometry.Update()
		angle, err := currentPsi(ctx)
		if err != nil {
			return err
		}
		return psiAxis.SetValue(angle)
	}

	mode := &domain.Mode{
		Name:      "psi",
		ReadAxes:  []string{"psi"},
		WriteAxes: writeAxes,
		Ops:       domain.ModeOperations{Get: get},
		Residuals: []domain.ResidualFunc{
			func(ctx *domain.ResidualContext) []float64 {
				angle, err := currentPsi(ctx)
				if err != nil {
					return []float64{1e9}
				}
				return []float64{psiAxis.Value() - angle}
			},
		},
	}
	mode.Ops.Set = func(ctx *domain.ResidualContext, targets []float64) ([]*domain.Geometry, error) {
		_ = psiAxis.SetValue(targets[0])
		return engine.AutoSet(ctx, engine.SolverOptions{})
	}

	e := &domain.Engine{
		Name:         "psi",
		PseudoAxes:   []*domain.Parameter{psiAxis},
		Modes:        []*domain.Mode{mode},
		Dependencies: domain.DependsOnAxes | domain.DependsOnEnergy | domain.DependsOnSample,
	}
	e.Current = mode
	return e
}
