package storage

import (
	"errors"

	"github.com/minio/minio-go/v7"
)

// S3 error codes the callers distinguish.
const (
	CodeBucketAlreadyOwnedByYou = "BucketAlreadyOwnedByYou"
	CodeNoSuchBucket            = "NoSuchBucket"
	CodeNoSuchKey               = "NoSuchKey"
)

// ErrorCode returns the S3 error code carried by err, or "" when err is not
// (and does not wrap) a minio.ErrorResponse.
func ErrorCode(err error) string {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp.Code
	}
	return ""
}

// IsBucketOwned reports whether err says the bucket already exists and
// belongs to the caller.
func IsBucketOwned(err error) bool {
	return ErrorCode(err) == CodeBucketAlreadyOwnedByYou
}

// IsNotFound reports whether err says the bucket or object does not exist.
func IsNotFound(err error) bool {
	switch ErrorCode(err) {
	case CodeNoSuchBucket, CodeNoSuchKey:
		return true
	default:
		return false
	}
}
