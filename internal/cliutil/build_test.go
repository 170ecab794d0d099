package cliutil

import (
	"math"
	"testing"
)

func TestDefaultSampleIsCubicIdentity(t *testing.T) {
	sample, err := DefaultSample("bench")
	if err != nil {
		t.Fatalf("DefaultSample: %v", err)
	}
	if sample.Name != "bench" {
		t.Fatalf("got name %q, want %q", sample.Name, "bench")
	}
	if math.Abs(sample.Lattice.A.Value()-1) > 1e-9 || math.Abs(sample.Lattice.Alpha.Value()-math.Pi/2) > 1e-9 {
		t.Fatalf("expected a unit cubic lattice, got %+v", sample.Lattice)
	}
}

func TestParseAxisAssignments(t *testing.T) {
	order, values, err := ParseAxisAssignments("omega=30, chi=0,phi=90")
	if err != nil {
		t.Fatalf("ParseAxisAssignments: %v", err)
	}
	wantOrder := []string{"omega", "chi", "phi"}
	for i, name := range wantOrder {
		if order[i] != name {
			t.Fatalf("order[%d] = %q, want %q", i, order[i], name)
		}
	}
	want := map[string]float64{"omega": 30, "chi": 0, "phi": 90}
	for name, v := range want {
		if values[name] != v {
			t.Fatalf("values[%q] = %v, want %v", name, values[name], v)
		}
	}
}

func TestParseAxisAssignmentsEmpty(t *testing.T) {
	order, values, err := ParseAxisAssignments("")
	if err != nil {
		t.Fatalf("ParseAxisAssignments: %v", err)
	}
	if order != nil || values != nil {
		t.Fatalf("expected nil order/values for an empty string, got %v %v", order, values)
	}
}

func TestParseAxisAssignmentsRejectsMalformed(t *testing.T) {
	if _, _, err := ParseAxisAssignments("omega"); err == nil {
		t.Fatalf("expected an error for an assignment missing '='")
	}
	if _, _, err := ParseAxisAssignments("omega=notanumber"); err == nil {
		t.Fatalf("expected an error for a non-numeric value")
	}
}

func TestParseTargets(t *testing.T) {
	targets, err := ParseTargets("1, 0, 0")
	if err != nil {
		t.Fatalf("ParseTargets: %v", err)
	}
	want := []float64{1, 0, 0}
	for i := range want {
		if targets[i] != want[i] {
			t.Fatalf("targets[%d] = %v, want %v", i, targets[i], want[i])
		}
	}
}

func TestBuildUnknownDiffractometer(t *testing.T) {
	if _, _, _, err := Build("NOPE", 0.154); err == nil {
		t.Fatalf("expected an error for an unregistered diffractometer name")
	}
}
