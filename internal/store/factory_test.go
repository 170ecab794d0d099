package store

import (
	"context"
	"path/filepath"
	"testing"
)

func TestNewSampleStoreDefaultsToMemory(t *testing.T) {
	s, err := NewSampleStore(context.Background(), "", "")
	if err != nil {
		t.Fatalf("NewSampleStore: %v", err)
	}
	if s == nil {
		t.Fatalf("expected a non-nil store")
	}
}

func TestNewSampleStoreSqlite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "samples.db")
	s, err := NewSampleStore(context.Background(), "sqlite", dsn)
	if err != nil {
		t.Fatalf("NewSampleStore(sqlite): %v", err)
	}
	if s == nil {
		t.Fatalf("expected a non-nil store")
	}
}

func TestNewSampleStoreUnknownKind(t *testing.T) {
	if _, err := NewSampleStore(context.Background(), "carrier-pigeon", ""); err == nil {
		t.Fatalf("expected an error for an unknown sample store kind")
	}
}

func TestNewPresetStoreUnknownKind(t *testing.T) {
	if _, err := NewPresetStore(context.Background(), "carrier-pigeon", ""); err == nil {
		t.Fatalf("expected an error for an unknown preset store kind")
	}
}

func TestNewBlobStoreDefaultsToMemory(t *testing.T) {
	b, err := NewBlobStore(context.Background(), "", "")
	if err != nil {
		t.Fatalf("NewBlobStore: %v", err)
	}
	if b == nil {
		t.Fatalf("expected a non-nil store")
	}
}

func TestNewBlobStoreFS(t *testing.T) {
	b, err := NewBlobStore(context.Background(), "fs", t.TempDir())
	if err != nil {
		t.Fatalf("NewBlobStore(fs): %v", err)
	}
	if b == nil {
		t.Fatalf("expected a non-nil store")
	}
}

func TestNewBlobStoreUnknownKind(t *testing.T) {
	if _, err := NewBlobStore(context.Background(), "carrier-pigeon", ""); err == nil {
		t.Fatalf("expected an error for an unknown blob store kind")
	}
}

func TestSplitBucketEndpoint(t *testing.T) {
	cases := []struct {
		dsn, wantBucket, wantEndpoint string
	}{
		{"my-bucket", "my-bucket", ""},
		{"my-bucket@http://localhost:9000", "my-bucket", "http://localhost:9000"},
	}
	for _, c := range cases {
		bucket, endpoint := splitBucketEndpoint(c.dsn)
		if bucket != c.wantBucket || endpoint != c.wantEndpoint {
			t.Fatalf("splitBucketEndpoint(%q) = (%q, %q), want (%q, %q)", c.dsn, bucket, endpoint, c.wantBucket, c.wantEndpoint)
		}
	}
}
