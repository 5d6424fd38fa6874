// Package archive copies uploaded artifacts to an S3-compatible bucket so the
// source of a generated note can be recovered later.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"studivio/internal/config"
	"studivio/internal/services"
)

// Archiver stores an uploaded artifact and returns its object key.
type Archiver interface {
	Store(ctx context.Context, user, filename string, data []byte) (string, error)
}

// ObjectStore is the subset of *minio.Client the archive uses.
type ObjectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
}

// Bucket archives into one bucket.
type Bucket struct {
	client ObjectStore
	bucket string
	now    func() time.Time
}

// New returns a MinIO-backed archiver when archiving is enabled, or a no-op
// archiver otherwise.
func New(cfg *config.Config) (Archiver, error) {
	if !cfg.Archive.Enabled {
		return Disabled{}, nil
	}
	client, err := minio.New(cfg.Archive.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Archive.AccessKey, cfg.Archive.SecretKey, ""),
		Secure: cfg.Archive.UseSSL,
	})
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "archive", "connect", cfg.Archive.Endpoint, err)
	}
	return NewBucket(client, cfg.Archive.Bucket), nil
}

// NewBucket archives into bucket through client.
func NewBucket(client ObjectStore, bucket string) *Bucket {
	return &Bucket{client: client, bucket: bucket, now: time.Now}
}

// Store uploads data and returns the object key.
func (b *Bucket) Store(ctx context.Context, user, filename string, data []byte) (string, error) {
	key := ObjectKey(user, filename, b.now(), uuid.NewString())
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := b.client.PutObject(ctx, b.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"owner": ownerSegment(user), "filename": url.PathEscape(filename)},
	})
	if err != nil {
		return "", services.Wrap(services.ErrUpstream, "archive", "put object", key, err)
	}
	return key, nil
}

// Check verifies the bucket is reachable and exists.
func (b *Bucket) Check(ctx context.Context) error {
	ok, err := b.client.BucketExists(ctx, b.bucket)
	if err != nil {
		return services.Wrap(services.ErrUpstream, "archive", "check bucket", b.bucket, err)
	}
	if !ok {
		return services.Wrap(services.ErrConfiguration, "archive", "check bucket", fmt.Sprintf("bucket %q does not exist", b.bucket), nil)
	}
	return nil
}

// Disabled discards artifacts.
type Disabled struct{}

// Store returns an empty key.
func (Disabled) Store(context.Context, string, string, []byte) (string, error) { return "", nil }
