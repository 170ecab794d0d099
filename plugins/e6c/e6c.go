// Package e6c registers the E6C ("6-circle Eulerian") diffractometer: a
// base mu circle ahead of the E4CV sample triad, and a two-axis detector
// arm (delta, nu), per spec.md §4.5's generic engine catalog.
package e6c

import (
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
	mu    = "mu"
	omega = "omega"
	chi   = "chi"
	phi   = "phi"
	delta = "delta"
	nu    = "nu"
)

var descriptor = domain.Descriptor{
	Name:        "E6C",
	AxisNames:   []string{mu, omega, chi, phi, delta, nu},
	Description: "6-circle Eulerian: mu/omega/chi/phi rotate the sample about z/z/x/z, delta/nu rotate the detector about z/x",
}

func buildGeometry(wavelengthNM float64) *domain.Geometry {
	g := domain.NewGeometry(descriptor, domain.Source{WavelengthNM: wavelengthNM, KiDirection: vecmath.Vector3{X: 1}})
	sampleHolder := g.AddHolder()
	detectorHolder := g.AddHolder()

	_, _ = g.AddRotation(sampleHolder, mu, vecmath.Vector3{Z: 1}, unit.Degree)
	_, _ = g.AddRotation(sampleHolder, omega, vecmath.Vector3{Z: 1}, unit.Degree)
	_, _ = g.AddRotation(sampleHolder, chi, vecmath.Vector3{X: 1}, unit.Degree)
	_, _ = g.AddRotation(sampleHolder, phi, vecmath.Vector3{Z: 1}, unit.Degree)

	_, _ = g.AddRotation(detectorHolder, delta, vecmath.Vector3{Z: 1}, unit.Degree)
	_, _ = g.AddRotation(detectorHolder, nu, vecmath.Vector3{X: 1}, unit.Degree)
	return g
}

func buildEngineList(g *domain.Geometry, d *domain.Detector, s *domain.Sample) *engine.List {
	list := engine.New(g, d, s)
	writeAxes := []string{mu, omega, chi, phi, delta, nu}
	localKf := d.LocalKf()

	list.Add(hkl.New(hkl.Params{Sample: s, DetectorLocalKf: localKf}, writeAxes, delta, omega, chi, phi))
	list.Add(psi.New(localKf, writeAxes))
	list.Add(q.New(localKf, writeAxes))
	list.Add(q.NewQ2(localKf, writeAxes))
	list.Add(q.NewQperQpar(localKf, vecmath.Vector3{Z: 1}, writeAxes))
	list.Add(tth.New(localKf, writeAxes, delta, true))
	list.Add(incidence.New(incidence.Incidence, vecmath.Vector3{Z: 1}, localKf))
	list.Add(incidence.New(incidence.Emergence, vecmath.Vector3{Z: 1}, localKf))
	return list
}

func init() {
	registry.Register(descriptor.Name, registry.Entry{
		Descriptor: descriptor,
		Geometry:   buildGeometry,
		EngineList: buildEngineList,
	})
}
