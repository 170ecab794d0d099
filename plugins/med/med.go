// Package med registers the SOLEIL SIXS MED2+3 diffractometer: a
// BETA/MU/OMEGA sample triad, a GAMMA/DELTA detector arm, and a sixth
// "slits" axis (ETA_A) whose value is not solved for directly but fit, for
// every hkl solution, so the slit normal stays perpendicular to the sample
// surface — spec.md §4.6 item 7's post-set hook, grounded on
// hkl_geometry_list_multiply_soleil_sixs_med_2_3 (see
// _examples/original_source/hkl/hkl-engine-soleil-sixs-med.c).
package med

import (
	"math"

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
	beta  = "beta"
	mu    = "mu"
	omega = "omega"
	gamma = "gamma"
	delta = "delta"
	etaA  = "eta_a"
)

var descriptor = domain.Descriptor{
	Name:      "MED2+3",
	AxisNames: []string{beta, mu, omega, gamma, delta, etaA},
	Description: "SOLEIL SIXS MED2+3: beta/mu/omega orient the sample about z/z/z, gamma/delta rotate the detector about x/z, " +
		"eta_a rotates the slit assembly about -x and is fit rather than solved",
}

func buildGeometry(wavelengthNM float64) *domain.Geometry {
	g := domain.NewGeometry(descriptor, domain.Source{WavelengthNM: wavelengthNM, KiDirection: vecmath.Vector3{X: 1}})
	sampleHolder := g.AddHolder()
	detectorHolder := g.AddHolder()

	_, _ = g.AddRotation(sampleHolder, beta, vecmath.Vector3{Z: 1}, unit.Degree)
	_, _ = g.AddRotation(sampleHolder, mu, vecmath.Vector3{Z: 1}, unit.Degree)
	_, _ = g.AddRotation(sampleHolder, omega, vecmath.Vector3{Z: 1}, unit.Degree)

	_, _ = g.AddRotation(detectorHolder, gamma, vecmath.Vector3{X: 1}, unit.Degree)
	_, _ = g.AddRotation(detectorHolder, delta, vecmath.Vector3{Z: 1}, unit.Degree)
	_, _ = g.AddRotation(detectorHolder, etaA, vecmath.Vector3{X: -1}, unit.Degree)
	return g
}

// slitNormal is the local [0,0,1] direction the C source rotates through
// the detector holder's cumulative quaternion to get the current slit
// orientation.
var slitNormal = vecmath.Vector3{Z: 1}

// fitSlitOrientation rewrites g's eta_a axis in place so the rotated slit
// normal is perpendicular to the sample's surface normal (the last
// sample-holder axis's direction, rotated by the sample holder's
// quaternion at the solution). It solves the resulting 1D root by bisection
// over eta_a's full [-pi, pi] range since sign changes bracket a root
// whenever one exists, rather than reusing the n-dimensional solver for a
// one-axis problem.
func fitSlitOrientation(g *domain.Geometry) {
	sampleHolder := g.SampleHolder()
	indices := sampleHolder.Indices()
	if len(indices) == 0 {
		return
	}
	lastSampleAxis := g.Axes()[indices[len(indices)-1]]
	surface := sampleHolder.Quaternion().Rotate(lastSampleAxis.AxisV)

	axis, ok := g.AxisByName(etaA)
	if !ok {
		return
	}
	original := axis.Value()

	residual := func(v float64) float64 {
		_ = axis.SetValue(v)
		g.Update()
		n := g.DetectorHolder().Quaternion().Rotate(slitNormal)
		return surface.Dot(n)
	}

	const steps = 64
	lo, hi := -math.Pi, math.Pi
	step := (hi - lo) / steps
	found := false
	var bracketLo, bracketHi float64
	prevV := lo
	prevR := residual(lo)
	for i := 1; i <= steps; i++ {
		v := lo + float64(i)*step
		r := residual(v)
		if (prevR <= 0 && r >= 0) || (prevR >= 0 && r <= 0) {
			bracketLo, bracketHi = prevV, v
			found = true
			break
		}
		prevV, prevR = v, r
	}
	if !found {
		_ = axis.SetValue(original)
		g.Update()
		return
	}
	for i := 0; i < 60; i++ {
		mid := (bracketLo + bracketHi) / 2
		r := residual(mid)
		if r == 0 {
			bracketLo, bracketHi = mid, mid
			break
		}
		rLo := residual(bracketLo)
		if (rLo <= 0 && r >= 0) || (rLo >= 0 && r <= 0) {
			bracketHi = mid
		} else {
			bracketLo = mid
		}
	}
	_ = axis.SetValue(vecmath.AngleRestrictPos((bracketLo + bracketHi) / 2))
	g.Update()
}

func buildEngineList(g *domain.Geometry, d *domain.Detector, s *domain.Sample) *engine.List {
	list := engine.New(g, d, s)
	writeAxes := []string{beta, mu, omega, gamma, delta}
	localKf := d.LocalKf()

	hklEngine := hkl.New(hkl.Params{Sample: s, DetectorLocalKf: localKf}, writeAxes, delta, omega, beta, mu)
	wrapWithSlitFit(hklEngine)
	list.Add(hklEngine)
	list.Add(q.New(localKf, writeAxes))
	list.Add(q.NewQperQpar(localKf, vecmath.Vector3{Z: 1}, writeAxes))
	list.Add(tth.New(localKf, writeAxes, delta, false))
	list.Add(incidence.New(incidence.Incidence, vecmath.Vector3{Z: 1}, localKf))
	list.Add(incidence.New(incidence.Emergence, vecmath.Vector3{Z: 1}, localKf))
	return list
}

// wrapWithSlitFit wraps every writable mode's Set hook so that, after the
// generic solver produces its candidate geometries, fitSlitOrientation runs
// on each before the list is returned to the caller.
func wrapWithSlitFit(e *domain.Engine) {
	for _, m := range e.Modes {
		if m.Ops.Set == nil {
			continue
		}
		inner := m.Ops.Set
		m.Ops.Set = func(ctx *domain.ResidualContext, targets []float64) ([]*domain.Geometry, error) {
			solutions, err := inner(ctx, targets)
			if err != nil {
				return nil, err
			}
			for _, sol := range solutions {
				fitSlitOrientation(sol)
			}
			return solutions, nil
		}
	}
}

func init() {
	registry.Register(descriptor.Name, registry.Entry{
		Descriptor: descriptor,
		Geometry:   buildGeometry,
		EngineList: buildEngineList,
	})
}
