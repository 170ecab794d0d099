// Package e4cv registers the E4CV ("4-circle Eulerian") diffractometer and
// its gamma-axis variants E4CVG/E4CVG2, per spec.md §4.5/§8's worked
// examples. Axis order and rotation directions follow spec.md §3's
// right-hand-rule convention: omega, chi, phi rotate the sample holder in
// that insertion order about z, x, and z respectively; tth (and, for the
// G variants, gamma) rotate the detector holder about z and x.
package e4cv

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
	omega = "omega"
	chi   = "chi"
	phi   = "phi"
	tthAx = "tth"
	gamma = "gamma"
)

var descriptorE4CV = domain.Descriptor{
	Name:        "E4CV",
	AxisNames:   []string{omega, chi, phi, tthAx},
	Description: "4-circle Eulerian: omega/chi/phi rotate the sample about z/x/z, tth rotates the detector about z",
}

var descriptorE4CVG = domain.Descriptor{
	Name:        "E4CVG",
	AxisNames:   []string{omega, chi, phi, tthAx, gamma},
	Description: "E4CV plus an out-of-plane detector gamma circle about x; gamma=0 degenerates to E4CV",
}

var descriptorE4CVG2 = domain.Descriptor{
	Name:        "E4CVG2",
	AxisNames:   []string{omega, chi, phi, tthAx, gamma},
	Description: "E4CVG2 mirrors E4CVG's documented axis set only; the upstream source's stray symbols are not modelled",
}

// buildGeometry constructs the sample holder (omega, chi, phi) and detector
// holder (tth, plus gamma when withGamma) for the given descriptor.
func buildGeometry(descriptor domain.Descriptor, withGamma bool, wavelengthNM float64) *domain.Geometry {
	g := domain.NewGeometry(descriptor, domain.Source{WavelengthNM: wavelengthNM, KiDirection: vecmath.Vector3{X: 1}})
	sampleHolder := g.AddHolder()
	detectorHolder := g.AddHolder()

	_, _ = g.AddRotation(sampleHolder, omega, vecmath.Vector3{Z: 1}, unit.Degree)
	_, _ = g.AddRotation(sampleHolder, chi, vecmath.Vector3{X: 1}, unit.Degree)
	_, _ = g.AddRotation(sampleHolder, phi, vecmath.Vector3{Z: 1}, unit.Degree)

	_, _ = g.AddRotation(detectorHolder, tthAx, vecmath.Vector3{Z: 1}, unit.Degree)
	if withGamma {
		_, _ = g.AddRotation(detectorHolder, gamma, vecmath.Vector3{X: 1}, unit.Degree)
	}
	return g
}

func buildEngineList(withGamma bool) registry.EngineListFactory {
	return func(g *domain.Geometry, d *domain.Detector, s *domain.Sample) *engine.List {
		list := engine.New(g, d, s)
		writeAxes := []string{omega, chi, phi}
		if withGamma {
			writeAxes = append(writeAxes, gamma)
		}
		localKf := d.LocalKf()

		list.Add(hkl.New(hkl.Params{Sample: s, DetectorLocalKf: localKf}, writeAxes, tthAx, omega, chi, phi))
		list.Add(psi.New(localKf, writeAxes))
		list.Add(q.New(localKf, writeAxes))
		list.Add(q.NewQ2(localKf, writeAxes))
		list.Add(q.NewQperQpar(localKf, vecmath.Vector3{Z: 1}, writeAxes))
		list.Add(tth.New(localKf, writeAxes, tthAx, false))
		list.Add(incidence.New(incidence.Incidence, vecmath.Vector3{Z: 1}, localKf))
		list.Add(incidence.New(incidence.Emergence, vecmath.Vector3{Z: 1}, localKf))
		return list
	}
}

func init() {
	registry.Register(descriptorE4CV.Name, registry.Entry{
		Descriptor: descriptorE4CV,
		Geometry:   func(wavelengthNM float64) *domain.Geometry { return buildGeometry(descriptorE4CV, false, wavelengthNM) },
		EngineList: buildEngineList(false),
	})
	registry.Register(descriptorE4CVG.Name, registry.Entry{
		Descriptor: descriptorE4CVG,
		Geometry:   func(wavelengthNM float64) *domain.Geometry { return buildGeometry(descriptorE4CVG, true, wavelengthNM) },
		EngineList: buildEngineList(true),
	})
	// E4CVG2 mirrors E4CVG exactly: the upstream source's second "G2"
	// engine variant references symbols absent from its own axis list
	// (BASEPITCH, THETAH); per spec.md §9 we mirror only the documented
	// axis set rather than inventing meaning for those stray symbols.
	registry.Register(descriptorE4CVG2.Name, registry.Entry{
		Descriptor: descriptorE4CVG2,
		Geometry:   func(wavelengthNM float64) *domain.Geometry { return buildGeometry(descriptorE4CVG2, true, wavelengthNM) },
		EngineList: buildEngineList(true),
	})
}
