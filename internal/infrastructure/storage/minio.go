package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"edunews-backend/internal/config"
)

// ImagePrefix is where post images live inside the bucket.
const ImagePrefix = "post_images/"

// MinIOStorage is the asset store client. Objects are addressed externally
// by their public URL; only URLs this store Owns() may be deleted through it.
type MinIOStorage struct {
	client *minio.Client
	bucket string
}

// NewMinIOStorage connects and makes sure the bucket exists.
func NewMinIOStorage(cfg config.MinIOConfig) (*MinIOStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinIOStorage{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// Put uploads image bytes under a fresh key and returns the public URL.
// The record referencing this URL must only be written after Put succeeds.
func (s *MinIOStorage) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	key := ImagePrefix + uuid.NewString() + extFor(contentType)

	_, err := s.client.PutObject(
		ctx,
		s.bucket,
		key,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return "", fmt.Errorf("failed to upload to minio: %w", err)
	}

	return s.urlFor(key), nil
}

// Delete removes the object the URL points at. Callers treat failure as
// non-fatal; this method just reports it.
func (s *MinIOStorage) Delete(ctx context.Context, fullURL string) error {
	key, ok := s.keyFromURL(fullURL)
	if !ok {
		return fmt.Errorf("url %q is not owned by this store", fullURL)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// Owns reports whether the URL points into this store's bucket. Deleting is
// only attempted for owned URLs; records may carry foreign image URLs and
// those are left alone.
func (s *MinIOStorage) Owns(fullURL string) bool {
	_, ok := s.keyFromURL(fullURL)
	return ok
}

// StoredImage describes one object under ImagePrefix, for the orphan sweep.
type StoredImage struct {
	URL          string
	Key          string
	LastModified time.Time
}

// ListImages walks every object under ImagePrefix.
func (s *MinIOStorage) ListImages(ctx context.Context) ([]StoredImage, error) {
	objectsCh := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    ImagePrefix,
		Recursive: true,
	})

	var images []StoredImage
	for object := range objectsCh {
		if object.Err != nil {
			return nil, fmt.Errorf("error listing objects: %w", object.Err)
		}
		images = append(images, StoredImage{
			URL:          s.urlFor(object.Key),
			Key:          object.Key,
			LastModified: object.LastModified,
		})
	}
	return images, nil
}

// DeleteKey removes an object by its bucket key (sweep path, where we
// already hold keys rather than URLs).
func (s *MinIOStorage) DeleteKey(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

func (s *MinIOStorage) urlFor(key string) string {
	scheme := "http"
	if s.client.EndpointURL().Scheme == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.client.EndpointURL().Host, s.bucket, key)
}

// keyFromURL reverses urlFor: same host, path under our bucket.
func (s *MinIOStorage) keyFromURL(fullURL string) (string, bool) {
	u, err := url.Parse(fullURL)
	if err != nil {
		return "", false
	}
	if u.Host != s.client.EndpointURL().Host {
		return "", false
	}
	p := strings.TrimPrefix(u.Path, "/")
	parts := strings.SplitN(p, "/", 2)
	if len(parts) < 2 || parts[0] != s.bucket || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func extFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	default:
		return ""
	}
}
