package storage_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"chainflow/core/storage"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    false,
			Bucket:    "test-bucket",
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTP", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "http://localhost:30002",
			AccessKey: "minio",
			SecretKey: "miniostorage",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTPS", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "https://s3.amazonaws.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    true,
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestIsBucketOwned(t *testing.T) {
	owned := minio.ErrorResponse{Code: storage.CodeBucketAlreadyOwnedByYou, StatusCode: 409}
	taken := minio.ErrorResponse{Code: "BucketAlreadyExists", StatusCode: 409}

	assert.True(t, storage.IsBucketOwned(owned))
	assert.True(t, storage.IsBucketOwned(fmt.Errorf("create: %w", owned)))
	assert.False(t, storage.IsBucketOwned(taken))
	assert.False(t, storage.IsBucketOwned(errors.New("connection refused")))
	assert.False(t, storage.IsBucketOwned(nil))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, storage.IsNotFound(minio.ErrorResponse{Code: storage.CodeNoSuchKey}))
	assert.True(t, storage.IsNotFound(minio.ErrorResponse{Code: storage.CodeNoSuchBucket}))
	assert.False(t, storage.IsNotFound(minio.ErrorResponse{Code: "AccessDenied"}))
	assert.False(t, storage.IsNotFound(nil))
}

// newS3Server serves a single object at /bucket/iris.csv and answers 404
// for every other key.
func newS3Server(t *testing.T, body string) storage.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bucket/iris.csv" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("ETag", `"0123456789abcdef"`)
		w.Header().Set("Last-Modified", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC).Format(http.TimeFormat))
		w.WriteHeader(http.StatusOK)
		if r.Method != http.MethodHead {
			_, _ = io.WriteString(w, body)
		}
	}))
	t.Cleanup(srv.Close)

	client, err := storage.NewClient(storage.Config{
		Endpoint:  srv.URL,
		AccessKey: "minio",
		SecretKey: "miniostorage",
		Region:    "us-east-1",
	})
	require.NoError(t, err)
	return client
}

func TestClient_GetObject(t *testing.T) {
	t.Run("MissingObjectFailsEagerly", func(t *testing.T) {
		client := newS3Server(t, "")

		obj, err := client.GetObject(context.Background(), "bucket", "missing.csv", minio.GetObjectOptions{})
		assert.Nil(t, obj)
		require.Error(t, err)
		assert.True(t, storage.IsNotFound(err), err.Error())
	})

	t.Run("Existing", func(t *testing.T) {
		body := "species\nsetosa\n"
		client := newS3Server(t, body)

		obj, err := client.GetObject(context.Background(), "bucket", "iris.csv", minio.GetObjectOptions{})
		require.NoError(t, err)
		defer obj.Close()

		data, err := io.ReadAll(obj)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "species"))
	})
}
