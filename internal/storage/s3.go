// Package storage uploads synthesized audio to S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/xid"
)

// DefaultURLExpiry is how long presigned audio URLs stay valid.
const DefaultURLExpiry = 15 * time.Minute

// Config holds the object storage settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Prefix    string
	UseSSL    bool
	URLExpiry time.Duration
}

// objectAPI is the part of the minio client used by S3Store.
type objectAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

// S3Store stores audio objects and hands out presigned URLs for them.
type S3Store struct {
	client objectAPI
	bucket string
	prefix string
	expiry time.Duration
}

// NewS3Store connects to the endpoint and checks that the bucket exists.
func NewS3Store(ctx context.Context, cfg Config) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init S3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", cfg.Bucket)
	}

	return newS3Store(client, cfg), nil
}

func newS3Store(client objectAPI, cfg Config) *S3Store {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "speech"
	}
	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = DefaultURLExpiry
	}
	return &S3Store{
		client: client,
		bucket: cfg.Bucket,
		prefix: prefix,
		expiry: expiry,
	}
}

// Put uploads audio under a fresh key and returns a presigned GET URL.
func (s *S3Store) Put(ctx context.Context, audio []byte, contentType string) (string, error) {
	key := s.objectKey(contentType)

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(audio), int64(len(audio)), minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"uploaded-at": time.Now().UTC().Format(time.RFC3339)},
	})
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}

	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}

	return u.String(), nil
}

func (s *S3Store) objectKey(contentType string) string {
	ext := ".bin"
	if contentType == "audio/mpeg" {
		ext = ".mp3"
	}
	return path.Join(s.prefix, xid.New().String()+ext)
}
