package loglocator

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectGetter is the part of the minio client the bucket store needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
}

// BucketStore is a RunStore for runs uploaded to an S3 compatible bucket,
// one prefix per run.
type BucketStore struct {
	client ObjectGetter
	bucket string
	prefix string
}

// NewBucketStore ...
func NewBucketStore(client ObjectGetter, bucket, prefix string) *BucketStore {
	return &BucketStore{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// NewMinioClient connects to an S3 compatible endpoint given as http:// or https:// URL.
func NewMinioClient(endpoint, accessKeyID, secretAccessKey string) (*minio.Client, error) {
	secure := true
	switch {
	case strings.HasPrefix(endpoint, "http://"):
		secure = false
		endpoint = strings.TrimPrefix(endpoint, "http://")
	case strings.HasPrefix(endpoint, "https://"):
		endpoint = strings.TrimPrefix(endpoint, "https://")
	default:
		return nil, fmt.Errorf("unsupported S3 endpoint (%s), should start with http:// or https://", endpoint)
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client for %s: %w", endpoint, err)
	}
	return client, nil
}

// ObjectKey ...
func (s *BucketStore) ObjectKey(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

func (s *BucketStore) Open(ctx context.Context, name string) (Object, ObjectInfo, error) {
	key := s.ObjectKey(name)

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, wrapObjectError(s.bucket, key, err)
	}

	// GetObject is lazy, Stat is the first request that hits the bucket.
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, ObjectInfo{}, wrapObjectError(s.bucket, key, err)
	}

	return obj, ObjectInfo{Size: info.Size, ModTime: info.LastModified}, nil
}

func wrapObjectError(bucket, key string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return fmt.Errorf("s3://%s/%s: %w", bucket, key, fs.ErrNotExist)
	}
	return fmt.Errorf("failed to get s3://%s/%s: %w", bucket, key, err)
}
