package iris

import (
	"bytes"
	"context"
	"fmt"

	"chainflow/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

const (
	// BucketName is the container the example writes to.
	BucketName = "chain-flyte-entities"
	// CSVFile is the object key of the iris table.
	CSVFile = "iris.csv"
)

// NewStorageClient builds the object store client from configuration.
func NewStorageClient(cfg storage.Config) (storage.Client, error) {
	return storage.NewClient(cfg)
}

// Tasks holds the storage side effects of the example workflows.
type Tasks struct {
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewTasks creates the task set. An empty bucket falls back to BucketName.
func NewTasks(client storage.Client, bucket string, logger *zap.Logger) *Tasks {
	if bucket == "" {
		bucket = BucketName
	}
	return &Tasks{client: client, bucket: bucket, logger: logger}
}

// Bucket returns the bucket the tasks operate on.
func (t *Tasks) Bucket() string {
	return t.bucket
}

// CreateBucket creates the bucket. A bucket already owned by the caller is
// not an error.
func (t *Tasks) CreateBucket(ctx context.Context) error {
	err := t.client.MakeBucket(ctx, t.bucket, minio.MakeBucketOptions{})
	if err == nil {
		t.logger.Info("Bucket created", zap.String("bucket", t.bucket))
		return nil
	}
	if storage.IsBucketOwned(err) {
		t.logger.Info("Bucket has already been created by you", zap.String("bucket", t.bucket))
		return nil
	}
	return fmt.Errorf("failed to create bucket %s: %w", t.bucket, err)
}

// Write uploads the sample table as CSV.
func (t *Tasks) Write(ctx context.Context) error {
	data, err := EncodeCSV(Table{SampleRecord()})
	if err != nil {
		return err
	}
	_, err = t.client.PutObject(ctx, t.bucket, CSVFile, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s/%s: %w", t.bucket, CSVFile, err)
	}
	t.logger.Debug("Uploaded table", zap.String("bucket", t.bucket), zap.String("object", CSVFile), zap.Int("bytes", len(data)))
	return nil
}

// Read downloads and parses the table. Storage errors raised while the
// body streams keep their cause, so storage.IsNotFound still applies.
func (t *Tasks) Read(ctx context.Context) (Table, error) {
	obj, err := t.client.GetObject(ctx, t.bucket, CSVFile, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to download %s/%s: %w", t.bucket, CSVFile, err)
	}
	defer obj.Close()

	table, err := DecodeCSV(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s: %w", t.bucket, CSVFile, err)
	}
	return table, nil
}
