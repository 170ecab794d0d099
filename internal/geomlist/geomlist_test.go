package geomlist

import (
	"testing"

	"hklgeo/pkg/domain"
	"hklgeo/pkg/unit"
	"hklgeo/pkg/vecmath"
)

func buildBase(t *testing.T) *domain.Geometry {
	t.Helper()
	g := domain.NewGeometry(domain.Descriptor{Name: "test", AxisNames: []string{"theta"}}, domain.Source{WavelengthNM: 0.1, KiDirection: vecmath.Vector3{X: 1}})
	g.AddHolder()
	if _, err := g.AddRotation(0, "theta", vecmath.Vector3{Z: 1}, unit.Radian); err != nil {
		t.Fatalf("AddRotation: %v", err)
	}
	return g
}

func TestListDeduplicate(t *testing.T) {
	base := buildBase(t)
	l := New(base, []string{"theta"}, [][]float64{{0.5}, {0.5 + 1e-12}, {1.0}})
	l.Deduplicate(1e-6)
	if l.Len() != 2 {
		t.Fatalf("expected 2 items after dedup, got %d", l.Len())
	}
}

func TestListSortByDistance(t *testing.T) {
	base := buildBase(t)
	l := New(base, []string{"theta"}, [][]float64{{1.0}, {0.1}, {0.5}})
	ref := base.Clone()
	_ = ref.AxisSet("theta", 0.0)
	l.SortByDistanceTo(ref)
	got := l.Items()
	if got[0].Values[0] != 0.1 {
		t.Fatalf("expected closest item first, got %v", got[0].Values)
	}
}
