// Package registry is the process-wide, read-only-after-init directory of
// diffractometer factories: name -> (Geometry constructor, EngineList
// constructor), per spec.md §4.1's catalog contract. Concrete plugin
// packages register themselves in their own init() via Register.
package registry

import (
	"sort"
	"sync"

	"hklgeo/internal/engine"
	"hklgeo/pkg/domain"
)

// GeometryFactory builds a fresh Geometry for one diffractometer, given a
// wavelength in nanometres.
type GeometryFactory func(wavelengthNM float64) *domain.Geometry

// EngineListFactory builds the EngineList matching a Geometry produced by
// the corresponding GeometryFactory.
type EngineListFactory func(g *domain.Geometry, d *domain.Detector, s *domain.Sample) *engine.List

// Entry is one registered diffractometer.
type Entry struct {
	Descriptor  domain.Descriptor
	Geometry    GeometryFactory
	EngineList  EngineListFactory
}

var (
	mu       sync.RWMutex
	entries  = map[string]Entry{}
	finalized bool
)

// Register adds a diffractometer under name. Panics on a duplicate name or
// a call after Finalize — registration is expected to happen only from
// plugin package init() functions, all of which run before main().
func Register(name string, entry Entry) {
	mu.Lock()
	defer mu.Unlock()
	if finalized {
		panic("registry: Register called after Finalize; plugins must register from init()")
	}
	if _, exists := entries[name]; exists {
		panic("registry: duplicate diffractometer name " + name)
	}
	entries[name] = entry
}

// Finalize freezes the registry against further Register calls. Idempotent.
func Finalize() {
	mu.Lock()
	defer mu.Unlock()
	finalized = true
}

// Lookup returns the registered entry for name.
func Lookup(name string) (Entry, error) {
	mu.RLock()
	defer mu.RUnlock()
	e, ok := entries[name]
	if !ok {
		return Entry{}, domain.NewError(domain.BadInput, name, "unknown diffractometer %q", name)
	}
	return e, nil
}

// Names returns every registered diffractometer name, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(entries))
	for name := range entries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
