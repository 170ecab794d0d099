// Package cliutil holds the geometry/sample/engine-list assembly shared by
// cmd/hklctl's subcommands: resolving a registered diffractometer by name,
// seeding a default sample, and applying axis overrides from flags.
package cliutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"hklgeo/internal/engine"
	"hklgeo/internal/registry"
	"hklgeo/pkg/domain"
)

// deg converts a degree value to the radians every axis/lattice Parameter
// stores internally.
const deg = math.Pi / 180

// DefaultSample returns an identity-orientation cubic sample (a=b=c=1nm,
// all angles 90deg) — a convenient bench sample for get/set when the
// caller has no real lattice to supply.
func DefaultSample(name string) (*domain.Sample, error) {
	lattice, err := domain.NewLattice(1, 1, 1, 90*deg, 90*deg, 90*deg)
	if err != nil {
		return nil, err
	}
	return domain.NewSample(name, lattice), nil
}

// Build resolves name via the registry and assembles a Geometry (at
// wavelengthNM), a point Detector, a default Sample, and the bound
// EngineList.
func Build(name string, wavelengthNM float64) (*domain.Geometry, *domain.Sample, *engine.List, error) {
	entry, err := registry.Lookup(name)
	if err != nil {
		return nil, nil, nil, err
	}
	g := entry.Geometry(wavelengthNM)
	sample, err := DefaultSample(name)
	if err != nil {
		return nil, nil, nil, err
	}
	detector := domain.NewDetector0D()
	list := entry.EngineList(g, detector, sample)
	return g, sample, list, nil
}

// ParseAxisAssignments parses a comma-separated "name=value" list (values
// in degrees for rotations, the Parameter's display unit otherwise) into a
// name->value map, in the order given.
func ParseAxisAssignments(raw string) ([]string, map[string]float64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil, nil
	}
	var order []string
	values := make(map[string]float64)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, nil, fmt.Errorf("invalid axis assignment %q, want name=value", part)
		}
		name := strings.TrimSpace(kv[0])
		value, err := strconv.ParseFloat(strings.TrimSpace(kv[1]), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid axis value %q: %w", part, err)
		}
		order = append(order, name)
		values[name] = value
	}
	return order, values, nil
}

// ApplyAxisAssignments sets g's axes from a ParseAxisAssignments result,
// interpreting each value in the axis Parameter's display unit.
func ApplyAxisAssignments(g *domain.Geometry, order []string, values map[string]float64) error {
	for _, name := range order {
		p, ok := g.AxisByName(name)
		if !ok {
			return domain.NewError(domain.BadInput, name, "geometry %q has no axis %q", g.Descriptor.Name, name)
		}
		if err := p.SetValueUser(values[name]); err != nil {
			return err
		}
	}
	g.Update()
	return nil
}

// ParseTargets parses a comma-separated list of pseudo-axis target values.
func ParseTargets(raw string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid target %q: %w", part, err)
		}
		out = append(out, v)
	}
	return out, nil
}
