package media

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
)

// Presigned GET URLs cannot outlive seven days with SigV4.
const presignTTL = 7 * 24 * time.Hour

// S3Host keeps images in an S3-compatible bucket. With a public base URL the
// returned link is permanent; otherwise it is a presigned GET.
type S3Host struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string

	ensureOnce sync.Once
	ensureErr  error
}

func NewS3Host(client *minio.Client, bucket, publicBaseURL string) *S3Host {
	return &S3Host{
		client:        client,
		bucket:        strings.TrimSpace(bucket),
		publicBaseURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
	}
}

func (h *S3Host) EnsureBucket(ctx context.Context) error {
	if h.client == nil {
		return fmt.Errorf("s3 client is nil")
	}
	if h.bucket == "" {
		return fmt.Errorf("s3 bucket is empty")
	}

	h.ensureOnce.Do(func() {
		exists, err := h.client.BucketExists(ctx, h.bucket)
		if err != nil {
			h.ensureErr = err
			return
		}
		if exists {
			return
		}
		h.ensureErr = h.client.MakeBucket(ctx, h.bucket, minio.MakeBucketOptions{})
	})

	if h.ensureErr != nil {
		return fmt.Errorf("ensure s3 bucket %q: %w", h.bucket, h.ensureErr)
	}
	return nil
}

func (h *S3Host) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	if key == "" || body == nil {
		return "", ErrValidation
	}
	if err := h.EnsureBucket(ctx); err != nil {
		return "", err
	}

	if _, err := h.client.PutObject(ctx, h.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return "", fmt.Errorf("put object to s3: %w", err)
	}

	if h.publicBaseURL != "" {
		return publicObjectURL(h.publicBaseURL, key), nil
	}

	presigned, err := h.client.PresignedGetObject(ctx, h.bucket, key, presignTTL, url.Values{})
	if err != nil {
		_ = h.client.RemoveObject(ctx, h.bucket, key, minio.RemoveObjectOptions{})
		return "", fmt.Errorf("presign get object: %w", err)
	}
	return presigned.String(), nil
}

func publicObjectURL(base, key string) string {
	segments := strings.Split(key, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return base + "/" + strings.Join(segments, "/")
}
