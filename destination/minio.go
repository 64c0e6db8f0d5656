package destination

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/lechuhuuha/log_relay/model"
)

// MinIOConfig holds the settings for an object-store destination.
type MinIOConfig struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	// Prefix is prepended to every object key.
	Prefix string
}

// MinIO archives each batch as one NDJSON object named by date and write
// time, giving an append-only batch history in object storage.
type MinIO struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinIO builds an object-store destination and verifies the bucket exists.
func NewMinIO(ctx context.Context, cfg MinIOConfig) (*MinIO, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("minio destination: endpoint and bucket must be provided")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("minio destination: bucket %q does not exist", cfg.Bucket)
	}
	return &MinIO{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// Write implements Destination.
func (m *MinIO) Write(ctx context.Context, entries []model.LogEntry) error {
	payload, err := encodeNDJSON(entries)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	object := path.Join(m.prefix, now.Format("2006-01-02"),
		fmt.Sprintf("batch_%d.ndjson", now.UnixNano()))

	_, err = m.client.PutObject(ctx, m.bucket, object,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/x-ndjson"})
	if err != nil {
		return fmt.Errorf("put batch object: %w", err)
	}
	return nil
}
