package blob

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Swarnab2026/colour-shop/pkg/config"
)

// MinioStorage stores product images in an S3-compatible bucket.
type MinioStorage struct {
	client  *minio.Client
	bucket  string
	region  string
	baseURL string
	prefix  string
}

var _ Storage = (*MinioStorage)(nil)

// NewMinioStorage builds the client from configuration. It does not touch
// the network; call EnsureBucket once at startup.
func NewMinioStorage(cfg *config.BlobConfig) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create blob storage client: %w", err)
	}

	baseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = client.EndpointURL().String()
	}

	return &MinioStorage{
		client:  client,
		bucket:  cfg.Bucket,
		region:  cfg.Region,
		baseURL: baseURL,
		prefix:  cfg.KeyPrefix,
	}, nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func (s *MinioStorage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %q: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return fmt.Errorf("failed to create bucket %q: %w", s.bucket, err)
	}
	return nil
}

// Put uploads the object under a fresh key and returns its public URL
// together with the key.
func (s *MinioStorage) Put(ctx context.Context, in PutInput) (*Asset, error) {
	key := objectKey(s.prefix, in.Filename)

	_, err := s.client.PutObject(ctx, s.bucket, key, in.Reader, in.Size, minio.PutObjectOptions{
		ContentType: in.ContentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object %q: %w", key, err)
	}

	return &Asset{
		URL: s.baseURL + "/" + s.bucket + "/" + key,
		Key: key,
	}, nil
}

// Remove deletes the object behind the key. MinIO treats removal of a
// missing object as success, which matches the at-least-once contract.
func (s *MinioStorage) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %q: %w", key, err)
	}
	return nil
}

// objectKey builds a collision-free key, keeping only the upload's
// extension so client-supplied names never reach the bucket.
func objectKey(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 8 || strings.ContainsAny(ext, "/\\ ") {
		ext = ""
	}
	return path.Join(prefix, uuid.NewString()+ext)
}
