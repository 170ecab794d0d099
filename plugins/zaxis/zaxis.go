// Package zaxis registers the ZAXIS surface-diffraction diffractometer: a
// vertical-scattering-plane geometry with a fixed-incidence mu circle and a
// two-axis detector arm, per spec.md §4.5's generic engine catalog. Surface
// diffraction is the natural home for the qper_qpar engine's surface-normal
// decomposition.
package zaxis

import (
	"hklgeo/internal/engine"
	"hklgeo/internal/engines/hkl"
	"hklgeo/internal/engines/incidence"
	"hklgeo/internal/engines/q"
	"hklgeo/internal/engines/tth"
	"hklgeo/internal/registry"
	"hklgeo/pkg/domain"
	"hklgeo/pkg/unit"
	"hklgeo/pkg/vecmath"
)

const (
	mu    = "mu"
	omega = "omega"
	chi   = "chi"
	phi   = "phi"
	delta = "delta"
	gamma = "gamma"
)

var descriptor = domain.Descriptor{
	Name:        "ZAXIS",
	AxisNames:   []string{mu, omega, chi, phi, delta, gamma},
	Description: "Z-axis surface diffractometer: mu fixes incidence, omega/chi/phi orient the sample, delta/gamma rotate the detector about z/x",
}

// surfaceNormal is the sample surface normal in the un-rotated frame,
// consistent with ZAXIS's convention that z is normal to the sample base.
var surfaceNormal = vecmath.Vector3{Z: 1}

func buildGeometry(wavelengthNM float64) *domain.Geometry {
	g := domain.NewGeometry(descriptor, domain.Source{WavelengthNM: wavelengthNM, KiDirection: vecmath.Vector3{X: 1}})
	sampleHolder := g.AddHolder()
	detectorHolder := g.AddHolder()

	_, _ = g.AddRotation(sampleHolder, mu, vecmath.Vector3{Z: 1}, unit.Degree)
	_, _ = g.AddRotation(sampleHolder, omega, vecmath.Vector3{Z: 1}, unit.Degree)
	_, _ = g.AddRotation(sampleHolder, chi, vecmath.Vector3{X: 1}, unit.Degree)
	_, _ = g.AddRotation(sampleHolder, phi, vecmath.Vector3{Z: 1}, unit.Degree)

	_, _ = g.AddRotation(detectorHolder, delta, vecmath.Vector3{Z: 1}, unit.Degree)
	_, _ = g.AddRotation(detectorHolder, gamma, vecmath.Vector3{X: 1}, unit.Degree)
	return g
}

func buildEngineList(g *domain.Geometry, d *domain.Detector, s *domain.Sample) *engine.List {
	list := engine.New(g, d, s)
	writeAxes := []string{mu, omega, chi, phi, delta, gamma}
	localKf := d.LocalKf()

	list.Add(hkl.New(hkl.Params{Sample: s, DetectorLocalKf: localKf}, writeAxes, delta, omega, chi, phi))
	list.Add(q.New(localKf, writeAxes))
	list.Add(q.NewQperQpar(localKf, surfaceNormal, writeAxes))
	list.Add(tth.New(localKf, writeAxes, delta, false))
	list.Add(incidence.New(incidence.Incidence, surfaceNormal, localKf))
	list.Add(incidence.New(incidence.Emergence, surfaceNormal, localKf))
	return list
}

func init() {
	registry.Register(descriptor.Name, registry.Entry{
		Descriptor: descriptor,
		Geometry:   buildGeometry,
		EngineList: buildEngineList,
	})
}
