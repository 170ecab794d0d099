// Package incidence implements the read-only "incidence"/"emergence"
// engines: the signed angle between ki (or kf) and a surface normal rotated
// with the relevant holder, per spec.md §4.5.
package incidence

import (
	"math"

	"hklgeo/pkg/domain"
	"hklgeo/pkg/unit"
	"hklgeo/pkg/vecmath"
)

// Kind selects whether the engine reads the incidence angle (ki against the
// sample-side normal) or the emergence angle (kf against the detector-side
// normal).
type Kind int

const (
	Incidence Kind = iota
	Emergence
)

// New builds the incidence or emergence engine. normal is the surface
// normal in the un-rotated frame of the holder it is attached to (sample
// holder for incidence, detector holder for emergence); detectorLocalKf is
// only used by Emergence.
func New(kind Kind, normal, detectorLocalKf vecmath.Vector3) *domain.Engine {
	name := "incidence"
	axisName := "alpha_i"
	if kind == Emergence {
		name = "emergence"
		axisName = "alpha_e"
	}

	angle := domain.NewScalar(axisName, "surface incidence/emergence angle", 0, unit.Degree)

	get := func(ctx *domain.ResidualContext) error {
		ctx.Geometry.Update()
		var beam, rotatedNormal vecmath.Vector3
		switch kind {
		case Incidence:
			beam = ctx.Geometry.Ki().Normalized()
			rotatedNormal = ctx.Geometry.SampleHolder().Quaternion().Rotate(normal).Normalized()
		default:
			beam = ctx.Geometry.Kf(detectorLocalKf).Normalized()
			rotatedNormal = ctx.Geometry.DetectorHolder().Quaternion().Rotate(normal).Normalized()
		}
		proj := beam.Dot(rotatedNormal)
		if proj > 1 {
			proj = 1
		}
		if proj < -1 {
			proj = -1
		}
		_ = angle.SetValue(math.Asin(proj))
		return nil
	}

	mode := &domain.Mode{
		Name:      "default",
		ReadAxes:  []string{axisName},
		WriteAxes: nil,
		Ops:       domain.ModeOperations{Get: get},
	}

	e := &domain.Engine{
		Name:         name,
		PseudoAxes:   []*domain.Parameter{angle},
		Modes:        []*domain.Mode{mode},
		Dependencies: domain.DependsOnAxes | domain.DependsOnEnergy,
	}
	e.Current = mode
	return e
}
