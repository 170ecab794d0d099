package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"hklgeo/pkg/domain"
)

func TestSampleStoreRoundTrip(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "hklgeo.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	store := NewSampleStore(db)
	rec := domain.SampleRecord{Name: "cu-foil", A: 0.54, B: 0.54, C: 0.54,
		Reflections: []domain.ReflectionRecord{{H: 1, Diffractometer: "E4CV", AxisValues: map[string]float64{"omega": 0.5}}}}
	if err := store.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load(ctx, "cu-foil")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.A != rec.A || len(got.Reflections) != 1 || got.Reflections[0].AxisValues["omega"] != 0.5 {
		t.Fatalf("Load = %+v, want %+v", got, rec)
	}

	rec.C = 0.6
	if err := store.Save(ctx, rec); err != nil {
		t.Fatalf("Save (update): %v", err)
	}
	got, err = store.Load(ctx, "cu-foil")
	if err != nil {
		t.Fatalf("Load after update: %v", err)
	}
	if got.C != 0.6 {
		t.Fatalf("C after update = %v, want 0.6", got.C)
	}

	names, err := store.List(ctx)
	if err != nil || len(names) != 1 || names[0] != "cu-foil" {
		t.Fatalf("List = %v, %v", names, err)
	}

	if err := store.Delete(ctx, "cu-foil"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Load(ctx, "cu-foil"); err == nil {
		t.Fatal("Load after Delete: expected error")
	}
}

func TestPresetStoreRoundTrip(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "hklgeo.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	store := NewPresetStore(db)
	preset := domain.GeometryPreset{Name: "bissector-100", Diffractometer: "E4CV",
		AxisValues: map[string]float64{"omega": 0.5, "tth": 1.0}, WavelengthNM: 0.154}
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
}
