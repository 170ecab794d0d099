// Package hkl implements the "hkl" engine: Miller-index pseudo-axes
// (h, k, l) inverted under a selectable mode, per spec.md §4.5's
// R·U·B·(h,k,l) = Q(geometry) residual plus a mode-specific extra equation.
package hkl

import (
	"math"

	"hklgeo/internal/engine"
	"hklgeo/pkg/domain"
	"hklgeo/pkg/unit"
	"hklgeo/pkg/vecmath"
)

// Params bundles the inputs the hkl residuals need beyond the write axes
// themselves: the sample (for UB) and the detector-local kf direction (for
// Kf()).
type Params struct {
	Sample          *domain.Sample
	DetectorLocalKf vecmath.Vector3

	// SurfaceNormal is the sample surface normal in the sample holder's
	// unrotated frame, used by emergence_fixed and reflectivity. Plugins
	// that don't model a sample surface can leave this at its zero value;
	// it defaults to {0,0,1}, the convention the incidence/emergence
	// engines and the SOLEIL SIXS MED plugin already use.
	SurfaceNormal vecmath.Vector3
}

// qResidual returns R(axes)·U·B·(h,k,l) - Q(geometry), the three-component
// residual every hkl mode shares: the requested (h,k,l), transformed into
// the lab frame by the current sample orientation and rotated by the
// sample holder, must equal the momentum transfer the current geometry
// produces.
func qResidual(p Params, h, k, l float64) domain.ResidualFunc {
	return func(ctx *domain.ResidualContext) []float64 {
		ub, err := p.Sample.UB()
		if err != nil {
			return []float64{math.NaN(), math.NaN(), math.NaN()}
		}
		hphi := ub.MulVector(vecmath.Vector3{X: h, Y: k, Z: l})
		qLab := ctx.Geometry.SampleHolder().Quaternion().Rotate(hphi)

		ki := ctx.Geometry.Ki()
		kf := ctx.Geometry.Kf(p.DetectorLocalKf)
		q := kf.Sub(ki)

		return []float64{qLab.X - q.X, qLab.Y - q.Y, qLab.Z - q.Z}
	}
}

// New builds the hkl Engine over writeAxes (the axes the solver may vary,
// in canonical order), wiring the modes common
// across diffractometer geometries: bissector, constant_omega/chi/phi,
// double_diffraction, psi_constant, emergence_fixed, and reflectivity.
// tthName/omegaName/chiName/phiName name the four-circle-equivalent axes a
// given geometry exposes (bissector and constant_* need them by name).
func New(p Params, writeAxes []string, tthName, omegaName, chiName, phiName string) *domain.Engine {
	h := domain.NewScalar("h", "Miller index h", 0, unit.Radian)
	k := domain.NewScalar("k", "Miller index k", 0, unit.Radian)
	l := domain.NewScalar("l", "Miller index l", 0, unit.Radian)

	hklValues := func(ctx *domain.ResidualContext) (float64, float64, float64, error) {
		ub, err := p.Sample.UB()
		if err != nil {
			return 0, 0, 0, err
		}
		ki := ctx.Geometry.Ki()
		kf := ctx.Geometry.Kf(p.DetectorLocalKf)
		qLab := kf.Sub(ki)
		hphi := ctx.Geometry.SampleHolder().Quaternion().Conjugate().Rotate(qLab)
		ubInv, err := ub.Inverse()
		if err != nil {
			return 0, 0, 0, err
		}
		hkl := ubInv.MulVector(hphi)
		return hkl.X, hkl.Y, hkl.Z, nil
	}

	getOp := func(ctx *domain.ResidualContext) error {
		ctx.Geometry.Update()
		hv, kv, lv, err := hklValues(ctx)
		if err != nil {
			return err
		}
		_ = h.SetValue(hv)
		_ = k.SetValue(kv)
		_ = l.SetValue(lv)
		return nil
	}

	newMode := func(name string, extra domain.ResidualFunc) *domain.Mode {
		m := &domain.Mode{
			Name:      name,
			ReadAxes:  []string{"h", "k", "l"},
			WriteAxes: writeAxes,
			Ops:       domain.ModeOperations{Get: getOp},
		}
		m.Residuals = []domain.ResidualFunc{
			func(ctx *domain.ResidualContext) []float64 {
				return qResidual(p, h.Value(), k.Value(), l.Value())(ctx)
			},
		}
		if extra != nil {
			m.Residuals = append(m.Residuals, extra)
		}
		m.Ops.Set = func(ctx *domain.ResidualContext, targets []float64) ([]*domain.Geometry, error) {
			_ = h.SetValue(targets[0])
			_ = k.SetValue(targets[1])
			_ = l.SetValue(targets[2])
			return engine.AutoSet(ctx, engine.SolverOptions{})
		}
		return m
	}

	// newConstantMode builds a constant_X mode: axisName is frozen at
	// whatever value it holds the moment Set is invoked, not at its
	// (constantly-shifting) value during the solve itself — the residual
	// closures run against the solver's trial geometry, so comparing
	// axisName to itself would always read zero.
	newConstantMode := func(name, axisName string) *domain.Mode {
		var frozen float64
		m := newMode(name, func(ctx *domain.ResidualContext) []float64 {
			v, err := ctx.Geometry.AxisGet(axisName)
			if err != nil {
				return []float64{math.NaN()}
			}
			return []float64{v - frozen}
		})
		innerSet := m.Ops.Set
		m.Ops.Set = func(ctx *domain.ResidualContext, targets []float64) ([]*domain.Geometry, error) {
			if v, err := ctx.Geometry.AxisGet(axisName); err == nil {
				frozen = v
			}
			return innerSet(ctx, targets)
		}
		return m
	}

	surfaceNormal := p.SurfaceNormal
	if surfaceNormal.Norm() < vecmath.Epsilon {
		surfaceNormal = vecmath.Vector3{Z: 1}
	}

	// incidenceAngle/emergenceAngle mirror the incidence/emergence
	// engines' closed form: the signed angle between the beam and the
	// sample surface normal, rotated into the lab frame by the sample
	// holder (both ki and kf reflect off the same sample surface, so both
	// use the sample holder's rotation, unlike the standalone emergence
	// engine which uses the detector holder for the detector-side angle).
	rotatedNormal := func(ctx *domain.ResidualContext) vecmath.Vector3 {
		return ctx.Geometry.SampleHolder().Quaternion().Rotate(surfaceNormal).Normalized()
	}
	clampAsin := func(x float64) float64 {
		if x > 1 {
			x = 1
		}
		if x < -1 {
			x = -1
		}
		return math.Asin(x)
	}
	incidenceAngle := func(ctx *domain.ResidualContext) float64 {
		beam := ctx.Geometry.Ki().Normalized()
		return clampAsin(beam.Dot(rotatedNormal(ctx)))
	}
	emergenceAngle := func(ctx *domain.ResidualContext) float64 {
		beam := ctx.Geometry.Kf(p.DetectorLocalKf).Normalized()
		return clampAsin(beam.Dot(rotatedNormal(ctx)))
	}

	// currentPsi mirrors the psi engine's closed form: the angle of the
	// first recorded reflection's (h,k,l), projected perpendicular to Q,
	// measured around Q from a fixed zero direction.
	currentPsi := func(ctx *domain.ResidualContext) (float64, error) {
		if p.Sample == nil || len(p.Sample.Reflections) == 0 {
			return 0, domain.NewError(domain.NotInitialized, "psi_constant", "psi_constant requires a reference reflection")
		}
		ref := p.Sample.Reflections[0]
		ki := ctx.Geometry.Ki()
		kf := ctx.Geometry.Kf(p.DetectorLocalKf)
		qLab := kf.Sub(ki)
		qSample := ctx.Geometry.SampleHolder().Quaternion().Conjugate().Rotate(qLab)
		n := qSample.Normalized()
		refQ := vecmath.Vector3{X: ref.H, Y: ref.K, Z: ref.L}
		refPerp := refQ.Sub(n.Scale(refQ.Dot(n)))
		if refPerp.Norm() < vecmath.Epsilon {
			return 0, domain.NewError(domain.Degenerate, "psi_constant", "reference vector is parallel to Q")
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

	bissector := newMode("bissector", func(ctx *domain.ResidualContext) []float64 {
		tth, err1 := ctx.Geometry.AxisGet(tthName)
		omega, err2 := ctx.Geometry.AxisGet(omegaName)
		if err1 != nil || err2 != nil {
			return []float64{math.NaN()}
		}
		return []float64{tth - 2*omega}
	})

	constantOmega := newConstantMode("constant_omega", omegaName)
	constantChi := newConstantMode("constant_chi", chiName)
	constantPhi := newConstantMode("constant_phi", phiName)

	doubleDiffraction := newMode("double_diffraction", func(ctx *domain.ResidualContext) []float64 {
		tth, err1 := ctx.Geometry.AxisGet(tthName)
		omega, err2 := ctx.Geometry.AxisGet(omegaName)
		if err1 != nil || err2 != nil {
			return []float64{math.NaN()}
		}
		return []float64{tth - 2*omega}
	})

	psiRef := domain.NewScalar("psi_ref", "fixed psi angle for psi_constant mode", 0, unit.Degree)
	psiConstant := newMode("psi_constant", func(ctx *domain.ResidualContext) []float64 {
		angle, err := currentPsi(ctx)
		if err != nil {
			return []float64{1e9}
		}
		return []float64{angle - psiRef.Value()}
	})
	psiConstant.Parameters = []*domain.Parameter{psiRef}

	emergenceFixed := domain.NewScalar("emergence_fixed_value", "fixed emergence angle", 0, unit.Degree)
	emergenceMode := newMode("emergence_fixed", func(ctx *domain.ResidualContext) []float64 {
		return []float64{emergenceAngle(ctx) - emergenceFixed.Value()}
	})
	emergenceMode.Parameters = []*domain.Parameter{emergenceFixed}

	// reflectivity imposes the specular condition: the incidence and
	// emergence angles against the sample surface are equal, the
	// defining constraint of a reflectivity/specular scan.
	reflectivity := newMode("reflectivity", func(ctx *domain.ResidualContext) []float64 {
		return []float64{incidenceAngle(ctx) - emergenceAngle(ctx)}
	})

	e := &domain.Engine{
		Name:         "hkl",
		PseudoAxes:   []*domain.Parameter{h, k, l},
		Modes:        []*domain.Mode{bissector, constantOmega, constantChi, constantPhi, doubleDiffraction, psiConstant, emergenceMode, reflectivity},
		Dependencies: domain.DependsOnAxes | domain.DependsOnEnergy | domain.DependsOnSample,
	}
	e.Current = e.Modes[0]
	return e
}
