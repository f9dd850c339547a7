package blob

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// MinIO adapts a minio.Client to the Store interface, keyed by identifier
// inside a single bucket.
type MinIO struct {
	client *minio.Client
	bucket string
}

// NewMinIO constructs a MinIO-backed store over the given bucket.
func NewMinIO(client *minio.Client, bucket string) *MinIO {
	return &MinIO{client: client, bucket: bucket}
}

func (s *MinIO) Put(ctx context.Context, id uuid.UUID, r io.Reader, size int64) (int64, error) {
	info, err := s.client.PutObject(ctx, s.bucket, id.String(), r, size, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return 0, fmt.Errorf("put object %s: %w", id, err)
	}
	return info.Size, nil
}

func (s *MinIO) Get(ctx context.Context, id uuid.UUID) (io.ReadCloser, int64, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, id.String(), minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, fmt.Errorf("get object %s: %w", id, err)
	}

	// GetObject is lazy; Stat forces the first round trip so absence is
	// reported here instead of on the first Read.
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		var resp minio.ErrorResponse
		if errors.As(err, &resp) && resp.Code == "NoSuchKey" {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("stat object %s: %w", id, err)
	}
	return obj, info.Size, nil
}

func (s *MinIO) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.client.RemoveObject(ctx, s.bucket, id.String(), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", id, err)
	}
	return nil
}
