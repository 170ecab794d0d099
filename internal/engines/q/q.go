// Package q implements the "q", "q2", and "qper_qpar" engines: momentum
// transfer magnitude and its angular decompositions, grounded on the
// upstream hkl_pseudo_axis_engine_q_func family (see
// _examples/original_source/hkl/hkl-pseudoaxis-common-q.c).
package q

import (
	"math"

	"hklgeo/internal/engine"
	"hklgeo/pkg/domain"
	"hklgeo/pkg/unit"
	"hklgeo/pkg/vecmath"
)

// qmax returns 2*wavenumber = 4*pi/wavelength, the maximum achievable q for
// the given source — the upstream hkl_source_get_kmax convention (see
// hkl-pseudoaxis-common-q.c's qmax).
func qmax(src domain.Source) float64 { return 2 * src.Wavenumber() }

// signedHalfAngle returns theta = angle(ki, kf)/2, negated if kf's y or z
// component is negative — the upstream sign convention for q's direction
// relative to the scattering plane.
func signedHalfAngle(ki, kf vecmath.Vector3) float64 {
	theta := vecmath.Angle(ki, kf) / 2
	if kf.Y < 0 || kf.Z < 0 {
		theta = -theta
	}
	return theta
}

// New builds the "q" engine: a single pseudo-axis q = qmax*sin(theta).
func New(detectorLocalKf vecmath.Vector3, writeAxes []string) *domain.Engine {
	qAxis := domain.NewScalar("q", "momentum transfer magnitude", 0, unit.Radian)

	get := func(ctx *domain.ResidualContext) error {
		ctx.Geometry.Update()
		ki := ctx.Geometry.Ki()
		kf := ctx.Geometry.Kf(detectorLocalKf)
		theta := signedHalfAngle(ki, kf)
		_ = qAxis.SetValue(qmax(ctx.Geometry.Source) * math.Sin(theta))
		return nil
	}

	mode := &domain.Mode{
		Name:      "q",
		ReadAxes:  []string{"q"},
		WriteAxes: writeAxes,
		Ops:       domain.ModeOperations{Get: get},
		Residuals: []domain.ResidualFunc{
			func(ctx *domain.ResidualContext) []float64 {
				ki := ctx.Geometry.Ki()
				kf := ctx.Geometry.Kf(detectorLocalKf)
				theta := signedHalfAngle(ki, kf)
				return []float64{qAxis.Value() - qmax(ctx.Geometry.Source)*math.Sin(theta)}
			},
		},
	}
	mode.Ops.Set = func(ctx *domain.ResidualContext, targets []float64) ([]*domain.Geometry, error) {
		_ = qAxis.SetValue(targets[0])
		return engine.AutoSet(ctx, engine.SolverOptions{})
	}

	e := &domain.Engine{Name: "q", PseudoAxes: []*domain.Parameter{qAxis}, Modes: []*domain.Mode{mode}, Dependencies: domain.DependsOnAxes | domain.DependsOnEnergy}
	e.Current = mode
	return e
}

// NewQ2 builds the "q2" engine: q as above, plus alpha = atan2(kf_z, kf_y),
// the azimuth of kf's projection onto the yOz plane (the plane normal to
// ki's nominal +x direction).
func NewQ2(detectorLocalKf vecmath.Vector3, writeAxes []string) *domain.Engine {
	qAxis := domain.NewScalar("q", "momentum transfer magnitude", 0, unit.Radian)
	alpha := domain.NewScalar("alpha", "azimuth of kf about ki in the yOz plane", 0, unit.Degree)

	get := func(ctx *domain.ResidualContext) error {
		ctx.Geometry.Update()
		ki := ctx.Geometry.Ki()
		kf := ctx.Geometry.Kf(detectorLocalKf)
		theta := signedHalfAngle(ki, kf)
		_ = qAxis.SetValue(qmax(ctx.Geometry.Source) * math.Sin(theta))
		_ = alpha.SetValue(math.Atan2(kf.Z, kf.Y))
		return nil
	}

	mode := &domain.Mode{
		Name:      "q2",
		ReadAxes:  []string{"q", "alpha"},
		WriteAxes: writeAxes,
		Ops:       domain.ModeOperations{Get: get},
		Residuals: []domain.ResidualFunc{
			func(ctx *domain.ResidualContext) []float64 {
				ki := ctx.Geometry.Ki()
				kf := ctx.Geometry.Kf(detectorLocalKf)
				theta := signedHalfAngle(ki, kf)
				return []float64{
					qAxis.Value() - qmax(ctx.Geometry.Source)*math.Sin(theta),
					alpha.Value() - math.Atan2(kf.Z, kf.Y),
				}
			},
		},
	}
	mode.Ops.Set = func(ctx *domain.ResidualContext, targets []float64) ([]*domain.Geometry, error) {
		_ = qAxis.SetValue(targets[0])
		_ = alpha.SetValue(targets[1])
		return engine.AutoSet(ctx, engine.SolverOptions{})
	}

	e := &domain.Engine{Name: "q2", PseudoAxes: []*domain.Parameter{qAxis, alpha}, Modes: []*domain.Mode{mode}, Dependencies: domain.DependsOnAxes | domain.DependsOnEnergy}
	e.Current = mode
	return e
}

// NewQperQpar builds the "qper_qpar" engine: q = kf - ki decomposed onto a
// surface normal n (rotated with the sample holder) into a perpendicular
// component qper and an in-plane component qpar, with signs taken from the
// sign of the relevant scalar products (spec.md §4.5).
func NewQperQpar(detectorLocalKf, normal vecmath.Vector3, writeAxes []string) *domain.Engine {
	qper := domain.NewScalar("qper", "component of q normal to the surface", 0, unit.Radian)
	qpar := domain.NewScalar("qpar", "component of q in the surface plane", 0, unit.Radian)

	decompose := func(ctx *domain.ResidualContext) (float64, float64) {
		ki := ctx.Geometry.Ki()
		kf := ctx.Geometry.Kf(detectorLocalKf)
		qVec := kf.Sub(ki)
		n := ctx.Geometry.SampleHolder().Quaternion().Rotate(normal).Normalized()
		perp := qVec.Dot(n)
		par := qVec.Sub(n.Scale(perp)).Norm()
		if qVec.Dot(n.Cross(vecmath.Vector3{X: 1})) < 0 {
			par = -par
		}
		return perp, par
	}

	get := func(ctx *domain.ResidualContext) error {
		ctx.Geometry.Update()
		perp, par := decompose(ctx)
		_ = qper.SetValue(perp)
		_ = qpar.SetValue(par)
		return nil
	}

	mode := &domain.Mode{
		Name:      "qper_qpar",
		ReadAxes:  []string{"qper", "qpar"},
		WriteAxes: writeAxes,
		Ops:       domain.ModeOperations{Get: get},
		Residuals: []domain.ResidualFunc{
			func(ctx *domain.ResidualContext) []float64 {
				perp, par := decompose(ctx)
				return []float64{qper.Value() - perp, qpar.Value() - par}
			},
		},
	}
	mode.Ops.Set = func(ctx *domain.ResidualContext, targets []float64) ([]*domain.Geometry, error) {
		_ = qper.SetValue(targets[0])
		_ = qpar.SetValue(targets[1])
		return engine.AutoSet(ctx, engine.SolverOptions{})
	}

	e := &domain.Engine{Name: "qper_qpar", PseudoAxes: []*domain.Parameter{qper, qpar}, Modes: []*domain.Mode{mode}, Dependencies: domain.DependsOnAxes | domain.DependsOnEnergy}
	e.Current = mode
	return e
}
