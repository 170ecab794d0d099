package memory

import (
	"context"
	"testing"

	"hklgeo/pkg/domain"
)

func TestSampleStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewSampleStore()
	rec := domain.SampleRecord{Name: "cu-foil", A: 0.54, B: 0.54, C: 0.54}
	if err := store.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load(ctx, "cu-foil")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.A != rec.A {
		t.Fatalf("A = %v, want %v", got.A, rec.A)
	}

	names, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 1 || names[0] != "cu-foil" {
		t.Fatalf("List = %v, want [cu-foil]", names)
	}

	if err := store.Delete(ctx, "cu-foil"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Load(ctx, "cu-foil"); err == nil {
		t.Fatal("Load after Delete: expected error, got nil")
	}
}

func TestSampleStoreSaveIsolatesCaller(t *testing.T) {
	ctx := context.Background()
	store := NewSampleStore()
	rec := domain.SampleRecord{Name: "s1", Reflections: []domain.ReflectionRecord{
		{H: 1, AxisValues: map[string]float64{"omega": 0.1}},
	}}
	if err := store.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	rec.Reflections[0].AxisValues["omega"] = 99
	got, err := store.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Reflections[0].AxisValues["omega"] != 0.1 {
		t.Fatalf("stored record mutated by caller: omega = %v, want 0.1", got.Reflections[0].AxisValues["omega"])
	}
}

func TestPresetStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewPresetStore()
	preset := domain.GeometryPreset{
		Name: "bissector-100", Diffractometer: "E4CV",
		AxisValues: map[string]float64{"omega": 0.5, "tth": 1.0}, WavelengthNM: 0.154,
	}
	if err := store.Save(ctx, preset); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load(ctx, "bissector-100")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.AxisValues["tth"] != 1.0 {
		t.Fatalf("tth = %v, want 1.0", got.AxisValues["tth"])
	}

	names, _ := store.List(ctx)
	if len(names) != 1 || names[0] != "bissector-100" {
		t.Fatalf("List = %v", names)
	}
	if err := store.Delete(ctx, "bissector-100"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if names, _ := store.List(ctx); len(names) != 0 {
		t.Fatalf("List after Delete = %v, want empty", names)
	}
}

func TestSampleStoreLoadMissingReturnsBadInput(t *testing.T) {
	store := NewSampleStore()
	_, err := store.Load(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error for missing sample")
	}
	if !domainIsBadInput(err) {
		t.Fatalf("expected BadInput, got %v", err)
	}
}

func domainIsBadInput(err error) bool {
	de, ok := err.(*domain.Error)
	return ok && de.Kind == domain.BadInput
}
