// Package k6c registers the K6C ("6-circle kappa") diffractometer: the
// E6C detector arm (delta, nu) paired with a base mu circle and the K4CV
// kappa sample triad, per spec.md §4.5's generic engine catalog.
package k6c

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
	mu     = "mu"
	komega = "komega"
	kappa  = "kappa"
	kphi   = "kphi"
	delta  = "delta"
	nu     = "nu"

	kappaAlpha = 50 * math.Pi / 180
)

var descriptor = domain.Descriptor{
	Name:        "K6C",
	AxisNames:   []string{mu, komega, kappa, kphi, delta, nu},
	Description: "6-circle kappa: mu/komega/kappa/kphi rotate the sample about z/z/(tilted)/z, delta/nu rotate the detector about z/x",
}

func buildGeometry(wavelengthNM float64) *domain.Geometry {
	g := domain.NewGeometry(descriptor, domain.Source{WavelengthNM: wavelengthNM, KiDirection: vecmath.Vector3{X: 1}})
	sampleHolder := g.AddHolder()
	detectorHolder := g.AddHolder()

	kappaAxisDir := vecmath.Vector3{X: math.Sin(kappaAlpha), Z: math.Cos(kappaAlpha)}
	_, _ = g.AddRotation(sampleHolder, mu, vecmath.Vector3{Z: 1}, unit.Degree)
	_, _ = g.AddRotation(sampleHolder, komega, vecmath.Vector3{Z: 1}, unit.Degree)
	_, _ = g.AddRotation(sampleHolder, kappa, kappaAxisDir, unit.Degree)
	_, _ = g.AddRotation(sampleHolder, kphi, vecmath.Vector3{Z: 1}, unit.Degree)

	_, _ = g.AddRotation(detectorHolder, delta, vecmath.Vector3{Z: 1}, unit.Degree)
	_, _ = g.AddRotation(detectorHolder, nu, vecmath.Vector3{X: 1}, unit.Degree)
	return g
}

func buildEngineList(g *domain.Geometry, d *domain.Detector, s *domain.Sample) *engine.List {
	list := engine.New(g, d, s)
	writeAxes := []string{mu, komega, kappa, kphi, delta, nu}
	localKf := d.LocalKf()

	list.Add(hkl.New(hkl.Params{Sample: s, DetectorLocalKf: localKf}, writeAxes, delta, komega, kappa, kphi))
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
