// Package storage keeps reset snapshots in MinIO.
package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
)

// MinioSnapshots implements services.SnapshotStore
type MinioSnapshots struct {
	client *minio.Client
	bucket string
}

// NewMinioSnapshots creates a snapshot store writing to bucket
func NewMinioSnapshots(client *minio.Client, bucket string) *MinioSnapshots {
	return &MinioSnapshots{client: client, bucket: bucket}
}

// Save uploads payload as a JSON object
func (s *MinioSnapshots) Save(ctx context.Context, name string, payload []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("minio put %s: %w", name, err)
	}
	return nil
}
