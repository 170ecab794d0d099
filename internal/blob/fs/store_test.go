package fs

import (
	"context"
	"testing"
)

func TestStoreRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()
	if err := s.Put(ctx, "calibration/pilatus.json", []byte("payload")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	data, err := s.Get(ctx, "calibration/pilatus.json")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("Get = %s", data)
	}

	infos, err := s.List(ctx, "calibration/")
	if err != nil || len(infos) != 1 {
		t.Fatalf("List = %v, %v", infos, err)
	}

	if err := s.Delete(ctx, "calibration/pilatus.json"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "calibration/pilatus.json"); err == nil {
		t.Fatal("Get after Delete: expected error")
	}
}

func TestStoreRejectsTraversal(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Put(context.Background(), "../escape.json", []byte("x")); err == nil {
		t.Fatal("expected error for traversal key")
	}
}
