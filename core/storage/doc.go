// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a small Client interface covering the
// operations the workflow tasks need: bucket creation, object upload and
// object download. This works against AWS S3 as well as a local MinIO
// sandbox.
//
// # Client Interface
//
// The Client interface makes it easy to mock storage interactions in unit
// tests (see core/storage/mocks).
//
// # Errors
//
// S3 failures arrive as minio.ErrorResponse values. IsBucketOwned and
// IsNotFound classify them by their S3 error code so callers can tolerate
// the "already owned" case of bucket creation without string matching.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	if err := client.MakeBucket(ctx, "chain-flyte-entities", minio.MakeBucketOptions{}); storage.IsBucketOwned(err) {
//	    // nothing to do
//	}
package storage
