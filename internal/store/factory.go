// Package store provides the make_sample_store/make_blob_store factories
// spec.md's external-interfaces section calls for: pick a backend by name
// at the process boundary (CLI flag, config file) instead of importing a
// specific persistence/blob package everywhere a store is needed.
package store

import (
	"context"

	blobfs "hklgeo/internal/blob/fs"
	blobmemory "hklgeo/internal/blob/memory"
	blobs3 "hklgeo/internal/blob/s3"
	persistmemory "hklgeo/internal/persistence/memory"
	"hklgeo/internal/persistence/postgres"
	"hklgeo/internal/persistence/sqlite"
	"hklgeo/pkg/domain"
)

// NewSampleStore builds a domain.SampleStore for kind ("memory", "sqlite",
// "postgres"), using dsn as the sqlite file path or postgres connection
// string (ignored for memory).
func NewSampleStore(ctx context.Context, kind, dsn string) (domain.SampleStore, error) {
	switch kind {
	case "", "memory":
		return persistmemory.NewSampleStore(), nil
	case "sqlite":
		db, err := sqlite.Open(dsn)
		if err != nil {
			return nil, err
		}
		return sqlite.NewSampleStore(db), nil
	case "postgres":
		db, err := postgres.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return postgres.NewSampleStore(db), nil
	default:
		return nil, domain.NewError(domain.BadInput, kind, "unknown sample store kind %q", kind)
	}
}

// NewPresetStore mirrors NewSampleStore for domain.PresetStore.
func NewPresetStore(ctx context.Context, kind, dsn string) (domain.PresetStore, error) {
	switch kind {
	case "", "memory":
		return persistmemory.NewPresetStore(), nil
	case "sqlite":
		db, err := sqlite.Open(dsn)
		if err != nil {
			return nil, err
		}
		return sqlite.NewPresetStore(db), nil
	case "postgres":
		db, err := postgres.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return postgres.NewPresetStore(db), nil
	default:
		return nil, domain.NewError(domain.BadInput, kind, "unknown preset store kind %q", kind)
	}
}

// NewBlobStore builds a domain.BlobStore for kind ("memory", "fs", "s3").
// For "fs", dsn is the local root directory. For "s3", dsn names the
// bucket, optionally followed by "@endpoint" for an S3-compatible
// alternative (e.g. MinIO), which also forces path-style addressing.
func NewBlobStore(ctx context.Context, kind, dsn string) (domain.BlobStore, error) {
	switch kind {
	case "", "memory":
		return blobmemory.New(), nil
	case "fs":
		return blobfs.New(dsn)
	case "s3":
		bucket, endpoint := splitBucketEndpoint(dsn)
		return blobs3.New(ctx, blobs3.Config{
			Bucket:    bucket,
			Endpoint:  endpoint,
			PathStyle: endpoint != "",
		})
	default:
		return nil, domain.NewError(domain.BadInput, kind, "unknown blob store kind %q", kind)
	}
}

func splitBucketEndpoint(dsn string) (bucket, endpoint string) {
	for i := 0; i < len(dsn); i++ {
		if dsn[i] == '@' {
			return dsn[:i], dsn[i+1:]
		}
	}
	return dsn, ""
}
