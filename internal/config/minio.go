package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ConnectMinio creates the MinIO client and makes sure the bucket exists.
// It returns nil when storage is not configured.
func ConnectMinio(cfg *Config) (*minio.Client, error) {
	if !cfg.Storage.Enabled() {
		log.Println("⚠️ MinIO not configured, reset snapshots disabled")
		return nil, nil
	}

	client, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Storage.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		log.Printf("✅ Bucket %s created", cfg.Storage.Bucket)
	}

	log.Printf("✅ MinIO connected successfully [%s/%s]", cfg.Storage.Endpoint, cfg.Storage.Bucket)
	return client, nil
}
