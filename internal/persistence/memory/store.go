// Package memory implements hklgeo's sample and preset stores over a
// mutex-guarded map, the default and the one used by tests — grounded on
// the teacher's in-memory transactional store pattern (clone-on-write
// state, no partial mutation visible to other goroutines).
package memory

import (
	"context"
	"sort"
	"sync"

	"hklgeo/pkg/domain"
)

// SampleStore implements domain.SampleStore over process memory.
type SampleStore struct {
	mu      sync.RWMutex
	records map[string]domain.SampleRecord
}

// NewSampleStore returns an empty in-memory SampleStore.
func NewSampleStore() *SampleStore {
	return &SampleStore{records: make(map[string]domain.SampleRecord)}
}

func cloneRecord(r domain.SampleRecord) domain.SampleRecord {
	cp := r
	cp.Reflections = make([]domain.ReflectionRecord, len(r.Reflections))
	for i, ref := range r.Reflections {
		cr := ref
		cr.AxisValues = make(map[string]float64, len(ref.AxisValues))
		for k, v := range ref.AxisValues {
			cr.AxisValues[k] = v
		}
		cp.Reflections[i] = cr
	}
	return cp
}

// Save stores a deep copy of record, overwriting any existing record of the
// same name.
func (s *SampleStore) Save(_ context.Context, record domain.SampleRecord) error {
	if record.Name == "" {
		return domain.NewError(domain.BadInput, "", "sample record must have a name")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.Name] = cloneRecord(record)
	return nil
}

// Load returns a deep copy of the named record.
func (s *SampleStore) Load(_ context.Context, name string) (domain.SampleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[name]
	if !ok {
		return domain.SampleRecord{}, domain.NewError(domain.BadInput, name, "sample not found")
	}
	return cloneRecord(r), nil
}

// List returns every stored sample's name, sorted.
func (s *SampleStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.records))
	for name := range s.records {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// Delete removes the named record; deleting an absent record is not an
// error.
func (s *SampleStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, name)
	return nil
}

// PresetStore implements domain.PresetStore over process memory.
type PresetStore struct {
	mu      sync.RWMutex
	presets map[string]domain.GeometryPreset
}

// NewPresetStore returns an empty in-memory PresetStore.
func NewPresetStore() *PresetStore {
	return &PresetStore{presets: make(map[string]domain.GeometryPreset)}
}

func clonePreset(p domain.GeometryPreset) domain.GeometryPreset {
	cp := p
	cp.AxisValues = make(map[string]float64, len(p.AxisValues))
	for k, v := range p.AxisValues {
		cp.AxisValues[k] = v
	}
	return cp
}

// Save stores a deep copy of preset, overwriting any existing preset of the
// same name.
func (s *PresetStore) Save(_ context.Context, preset domain.GeometryPreset) error {
	if preset.Name == "" {
		return domain.NewError(domain.BadInput, "", "preset must have a name")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presets[preset.Name] = clonePreset(preset)
	return nil
}

// Load returns a deep copy of the named preset.
func (s *PresetStore) Load(_ context.Context, name string) (domain.GeometryPreset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.presets[name]
	if !ok {
		return domain.GeometryPreset{}, domain.NewError(domain.BadInput, name, "preset not found")
	}
	return clonePreset(p), nil
}

// List returns every stored preset's name, sorted.
func (s *PresetStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.presets))
	for name := range s.presets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// Delete removes the named preset; deleting an absent preset is not an
// error.
func (s *PresetStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.presets, name)
	return nil
}

var (
	_ domain.SampleStore = (*SampleStore)(nil)
	_ domain.PresetStore = (*PresetStore)(nil)
)
