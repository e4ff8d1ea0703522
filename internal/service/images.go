package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	a "elivtory/inventory-api/aws"
	"elivtory/inventory-api/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const minMultipartSize = 12 << 20

// ImageStore keeps product images and hands out the public URL they are served from
type ImageStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (url string, err error)
	Delete(ctx context.Context, key string) error
}

// LocalImageStore writes images to a directory that the router serves under /uploads
type LocalImageStore struct {
	dir       string
	publicURL string
}

func NewLocalImageStore(c config.Storage) (*LocalImageStore, error) {
	if err := os.MkdirAll(c.LocalDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory, %w", err)
	}

	return &LocalImageStore{
		dir:       c.LocalDir,
		publicURL: strings.TrimRight(c.PublicURL, "/"),
	}, nil
}

func (l *LocalImageStore) path(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("invalid image key %q", key)
	}

	return filepath.Join(l.dir, key), nil
}

func (l *LocalImageStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	p, err := l.path(key)
	if err != nil {
		return "", err
	}

	f, err := os.Create(p)
	if err != nil {
		return "", fmt.Errorf("failed to create image file, %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(p)
		return "", fmt.Errorf("failed to write image file, %w", err)
	}

	return l.publicURL + "/" + key, nil
}

func (l *LocalImageStore) Delete(ctx context.Context, key string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image file, %w", err)
	}

	return nil
}

// S3ImageStore uploads images to an S3 compatible bucket
type S3ImageStore struct {
	S3        *a.S3Client
	publicURL string
}

func NewS3ImageStore(client *a.S3Client, c config.S3) *S3ImageStore {
	return &S3ImageStore{
		S3:        client,
		publicURL: strings.TrimRight(c.PublicURL, "/"),
	}
}

func (s *S3ImageStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	objectInput := &s3.PutObjectInput{
		Bucket:       s.S3.Bucket,
		Key:          aws.String(key),
		Body:         r,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	}

	var err error
	if size > minMultipartSize {
		uploader := manager.NewUploader(s.S3.C, func(u *manager.Uploader) {
			u.Concurrency = 5
			u.PartSize = 6 << 20
		})

		_, err = uploader.Upload(ctx, objectInput)
	} else {
		objectInput.ContentLength = aws.Int64(size)
		_, err = s.S3.C.PutObject(ctx, objectInput)
	}
	if err != nil {
		return "", fmt.Errorf("failed to upload image to s3, %w", err)
	}

	return s.publicURL + "/" + key, nil
}

func (s *S3ImageStore) Delete(ctx context.Context, key string) error {
	_, err := s.S3.C.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: s.S3.Bucket,
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image from s3, %w", err)
	}

	return nil
}
