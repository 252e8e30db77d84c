// Package minio stores attachment bytes. The core only owns attachment
// metadata rows; the object store is an external collaborator reached through
// this thin client.
package minio

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/boardsync/boardsync/config"
)

type Store struct {
	cli    *minio.Client
	bucket string
}

func New(conf config.MinIO) (*Store, error) {
	client, err := minio.New(fmt.Sprintf("%s:%s", conf.Host, conf.Port), &minio.Options{
		Creds:  credentials.NewStaticV4(conf.User, conf.Pass, ""),
		Secure: false,
	})
	if err != nil {
		return nil, fmt.Errorf("minio.New: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, conf.Bucket)
	if err != nil || !exists {
		if err := client.MakeBucket(ctx, conf.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio.MakeBucket: %v", err)
		}
	}

	return &Store{
		cli:    client,
		bucket: conf.Bucket,
	}, nil
}

// Put uploads the attachment bytes under a fresh object name and returns it.
// The original file name only survives in the metadata row.
func (s *Store) Put(ctx context.Context, r io.Reader, size int64, fileName, contentType string) (string, error) {
	storedName := fmt.Sprintf("%s%s", uuid.New().String(), filepath.Ext(fileName))

	_, err := s.cli.PutObject(ctx, s.bucket, storedName, r, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("minio.PutObject: %v", err)
	}
	return storedName, nil
}

// PresignedURL returns a time-limited download link for a stored object.
func (s *Store) PresignedURL(ctx context.Context, storedName string) (*url.URL, error) {
	return s.cli.PresignedGetObject(ctx, s.bucket, storedName, 24*time.Hour, nil)
}

// Remove deletes the stored object; a missing object is not an error.
func (s *Store) Remove(ctx context.Context, storedName string) error {
	return s.cli.RemoveObject(ctx, s.bucket, storedName, minio.RemoveObjectOptions{})
}
