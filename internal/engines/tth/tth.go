// Package tth implements the "tth"/"tth2" engines: the closed-form angle
// between ki and kf, per spec.md §4.5.
package tth

import (
	"math"

	"hklgeo/internal/engine"
	"hklgeo/pkg/domain"
	"hklgeo/pkg/unit"
	"hklgeo/pkg/vecmath"
)

// New builds the tth engine. When withAlpha is true it becomes "tth2",
// additionally exposing alpha = atan2(kf_z, kf_y) of kf's projection onto
// the yOz plane, matching the q2 engine's alpha convention.
func New(detectorLocalKf vecmath.Vector3, writeAxes []string, tthName string, withAlpha bool) *domain.Engine {
	name := "tth"
	if withAlpha {
		name = "tth2"
	}

	tth := domain.NewScalar("tth", "scattering angle 2*theta", 0, unit.Degree)
	pseudo := []*domain.Parameter{tth}
	var alpha *domain.Parameter
	if withAlpha {
		alpha = domain.NewScalar("alpha", "azimuth of kf about ki", 0, unit.Degree)
		pseudo = append(pseudo, alpha)
	}

	get := func(ctx *domain.ResidualContext) error {
		ctx.Geometry.Update()
		ki := ctx.Geometry.Ki()
		kf := ctx.Geometry.Kf(detectorLocalKf)
		_ = tth.SetValue(vecmath.Angle(ki, kf))
		if withAlpha {
			_ = alpha.SetValue(math.Atan2(kf.Z, kf.Y))
		}
		return nil
	}

	defaultMode := &domain.Mode{
		Name:      "default",
		ReadAxes:  pseudo0Names(withAlpha),
		WriteAxes: writeAxes,
		Ops:       domain.ModeOperations{Get: get},
		Residuals: []domain.ResidualFunc{
			func(ctx *domain.ResidualContext) []float64 {
				ki := ctx.Geometry.Ki()
				kf := ctx.Geometry.Kf(detectorLocalKf)
				out := []float64{tth.Value() - vecmath.Angle(ki, kf)}
				if withAlpha {
					out = append(out, alpha.Value()-math.Atan2(kf.Z, kf.Y))
				}
				return out
			},
		},
	}
	defaultMode.Ops.Set = func(ctx *domain.ResidualContext, targets []float64) ([]*domain.Geometry, error) {
		for i, p := range pseudo {
			_ = p.SetValue(targets[i])
		}
		return engine.AutoSet(ctx, engine.SolverOptions{})
	}

	e := &domain.Engine{
		Name:         name,
		PseudoAxes:   pseudo,
		Modes:        []*domain.Mode{defaultMode},
		Dependencies: domain.DependsOnAxes | domain.DependsOnEnergy,
	}
	e.Current = defaultMode
	return e
}

func pseudo0Names(withAlpha bool) []string {
	if withAlpha {
		return []string{"tth", "alpha"}
	}
	return []string{"tth"}
}
