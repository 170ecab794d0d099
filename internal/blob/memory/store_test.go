package memory

import (
	"context"
	"testing"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.Put(ctx, "detectors/pilatus.json", []byte(`{"pixels":100}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	data, err := s.Get(ctx, "detectors/pilatus.json")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(data) != `{"pixels":100}` {
		t.Fatalf("Get = %s", data)
	}

	infos, err := s.List(ctx, "detectors/")
	if err != nil || len(infos) != 1 || infos[0].Key != "detectors/pilatus.json" {
		t.Fatalf("List = %v, %v", infos, err)
	}

	if err := s.Delete(ctx, "detectors/pilatus.json"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "detectors/pilatus.json"); err == nil {
		t.Fatal("Get after Delete: expected error")
	}
}

func TestStoreGetIsolatesCaller(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.Put(ctx, "k", []byte{1, 2, 3})
	data, _ := s.Get(ctx, "k")
	data[0] = 99
	again, _ := s.Get(ctx, "k")
	if again[0] != 1 {
		t.Fatalf("stored blob mutated by caller: got %v", again)
	}
}
