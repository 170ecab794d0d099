// Package k4cv registers the K4CV ("4-circle kappa") diffractometer: native
// axes komega/kappa/kphi/tth, plus an "eulerians" engine mapping the kappa
// triad onto the same (omega, chi, phi) pseudo-axes E4CV exposes natively,
// per spec.md §8's K4CV worked examples.
package k4cv

import (
	"math"

	"hklgeo/internal/engine"
	"hklgeo/internal/engines/hkl"
	"hklgeo/internal/engines/incidence"
	"hklgeo/internal/engines/psi"
	"hklgeo/internal/engines/q"
	"hklgeo/internal/engines/tth"
	"hklgeo/internal/registry"
	"hklgeo/pkg/domain"
	"hklgeo/pkg/unit"
	"hklgeo/pkg/vecmath"
)

const (
	komega = "komega"
	kappa  = "kappa"
	kphi   = "kphi"
	tthAx  = "tth"

	// kappaAlpha is the kappa axis's fixed tilt from the phi axis, the
	// conventional 50 degrees most kappa 4-circle diffractometers use.
	kappaAlpha = 50 * math.Pi / 180
)

var descriptor = domain.Descriptor{
	Name:        "K4CV",
	AxisNames:   []string{komega, kappa, kphi, tthAx},
	Description: "4-circle kappa: komega/kappa/kphi rotate the sample about z/(tilted)/z, tth rotates the detector about z",
}

func buildGeometry(wavelengthNM float64) *domain.Geometry {
	g := domain.NewGeometry(descriptor, domain.Source{WavelengthNM: wavelengthNM, KiDirection: vecmath.Vector3{X: 1}})
	sampleHolder := g.AddHolder()
	detectorHolder := g.AddHolder()

	kappaAxisDir := vecmath.Vector3{X: math.Sin(kappaAlpha), Z: math.Cos(kappaAlpha)}
	_, _ = g.AddRotation(sampleHolder, komega, vecmath.Vector3{Z: 1}, unit.Degree)
	_, _ = g.AddRotation(sampleHolder, kappa, kappaAxisDir, unit.Degree)
	_, _ = g.AddRotation(sampleHolder, kphi, vecmath.Vector3{Z: 1}, unit.Degree)

	_, _ = g.AddRotation(detectorHolder, tthAx, vecmath.Vector3{Z: 1}, unit.Degree)
	return g
}

// kappaToEuler applies the conventional kappa-to-Eulerian relation for a
// kappa axis tilted by kappaAlpha from the phi axis: chi depends only on
// the kappa angle, while omega and phi each pick up the same offset eta.
// This is a convention (like the hkl/q sign choices already documented
// elsewhere), not an independent derivation.
func kappaToEuler(komegaV, kappaV, kphiV float64) (omega, chi, phi float64) {
	chi = 2 * math.Asin(math.Sin(kappaV/2)*math.Sin(kappaAlpha))
	eta := math.Atan2(math.Sin(kappaV/2)*math.Cos(kappaAlpha), math.Cos(kappaV/2))
	omega = komegaV + eta
	phi = kphiV + eta
	return
}

func buildEngineList(g *domain.Geometry, d *domain.Detector, s *domain.Sample) *engine.List {
	list := engine.New(g, d, s)
	writeAxes := []string{komega, kappa, kphi}
	localKf := d.LocalKf()

	list.Add(hkl.New(hkl.Params{Sample: s, DetectorLocalKf: localKf}, writeAxes, tthAx, komega, kappa, kphi))
	list.Add(psi.New(localKf, writeAxes))
	list.Add(q.New(localKf, writeAxes))
	list.Add(q.NewQ2(localKf, writeAxes))
	list.Add(q.NewQperQpar(localKf, vecmath.Vector3{Z: 1}, writeAxes))
	list.Add(tth.New(localKf, writeAxes, tthAx, false))
	list.Add(incidence.New(incidence.Incidence, vecmath.Vector3{Z: 1}, localKf))
	list.Add(incidence.New(incidence.Emergence, vecmath.Vector3{Z: 1}, localKf))
	list.Add(newEuleriansEngine(writeAxes))
	return list
}

// newEuleriansEngine exposes (omega, chi, phi) as pseudo-axes computed from
// the native kappa triad; its Set goes through the generic residual solver
// since the kappa-to-Euler map is not everywhere invertible in closed form
// (this is also exactly where spec.md §8's K4CV degenerate two-solution
// example comes from: the inverse kappa map is two-to-one near chi=0).
func newEuleriansEngine(writeAxes []string) *domain.Engine {
	omegaP := domain.NewScalar("omega", "Eulerian omega derived from the kappa triad", 0, unit.Degree)
	chiP := domain.NewScalar("chi", "Eulerian chi derived from the kappa triad", 0, unit.Degree)
	phiP := domain.NewScalar("phi", "Eulerian phi derived from the kappa triad", 0, unit.Degree)

	get := func(ctx *domain.ResidualContext) error {
		ctx.Geometry.Update()
		komegaV, err1 := ctx.Geometry.AxisGet(komega)
		kappaV, err2 := ctx.Geometry.AxisGet(kappa)
		kphiV, err3 := ctx.Geometry.AxisGet(kphi)
		if err1 != nil || err2 != nil || err3 != nil {
			return domain.NewError(domain.BadInput, "eulerians", "kappa axes not present in geometry")
		}
		omega, chi, phi := kappaToEuler(komegaV, kappaV, kphiV)
		_ = omegaP.SetValue(omega)
		_ = chiP.SetValue(chi)
		_ = phiP.SetValue(phi)
		return nil
	}

	mode := &domain.Mode{
		Name:      "eulerians",
		ReadAxes:  []string{"omega", "chi", "phi"},
		WriteAxes: writeAxes,
		Ops:       domain.ModeOperations{Get: get},
		Residuals: []domain.ResidualFunc{
			func(ctx *domain.ResidualContext) []float64 {
				komegaV, _ := ctx.Geometry.AxisGet(komega)
				kappaV, _ := ctx.Geometry.AxisGet(kappa)
				kphiV, _ := ctx.Geometry.AxisGet(kphi)
				omega, chi, phi := kappaToEuler(komegaV, kappaV, kphiV)
				return []float64{omegaP.Value() - omega, chiP.Value() - chi, phiP.Value() - phi}
			},
		},
	}
	mode.Ops.Set = func(ctx *domain.ResidualContext, targets []float64) ([]*domain.Geometry, error) {
		_ = omegaP.SetValue(targets[0])
		_ = chiP.SetValue(targets[1])
		_ = phiP.SetValue(targets[2])
		return engine.AutoSet(ctx, engine.SolverOptions{})
	}

	e := &domain.Engine{
		Name:         "eulerians",
		PseudoAxes:   []*domain.Parameter{omegaP, chiP, phiP},
		Modes:        []*domain.Mode{mode},
		Dependencies: domain.DependsOnAxes,
	}
	e.Current = mode
	return e
}

func init() {
	registry.Register(descriptor.Name, registry.Entry{
		Descriptor: descriptor,
		Geometry:   buildGeometry,
		EngineList: buildEngineList,
	})
}
