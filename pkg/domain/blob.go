package domain

import "context"

// BlobInfo describes a stored blob.
type BlobInfo struct {
	Key  string
	Size int64
}

// BlobStore persists opaque (key, data) pairs — used to store detector
// pixel-geometry calibration maps referenced by Detector.CalibrationKey.
// The core never parses a blob's content; it only round-trips the bytes a
// caller handed it.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]BlobInfo, error)
}
