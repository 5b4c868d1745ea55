package service

import (
	"biokuiz/internal/config"
	"biokuiz/internal/util"
	"biokuiz/pkg/logger"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// ObjectStore keeps material images somewhere addressable by URL.
type ObjectStore interface {
	Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, name string) error
	URL(name string) string
}

type LocalStore struct {
	Root string
}

// cleanName roots name so ".." segments cannot leave the store.
func cleanName(name string) string {
	return strings.TrimPrefix(path.Clean("/"+name), "/")
}

func (s *LocalStore) resolve(name string) (string, error) {
	clean := cleanName(name)
	if clean == "" {
		return "", fmt.Errorf("%w: empty object name", util.ErrUnsupportedFile)
	}
	return filepath.Join(s.Root, filepath.FromSlash(clean)), nil
}

func (s *LocalStore) Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	dst, err := s.resolve(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		os.Remove(dst)
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return s.URL(name), nil
}

func (s *LocalStore) Delete(ctx context.Context, name string) error {
	dst, err := s.resolve(name)
	if err != nil {
		return err
	}
	return os.Remove(dst)
}

func (s *LocalStore) URL(name string) string {
	return util.UploadsURLPrefix + cleanName(name)
}

type MinioStore struct {
	Bucket string
	Client *minio.Client
}

func NewMinioStore(cfg *config.StorageConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioSecure,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStore{Bucket: cfg.MinioBucket, Client: client}, nil
}

func (s *MinioStore) Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	if size <= 0 {
		size = -1
	}
	_, err := s.Client.PutObject(ctx, s.Bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return s.URL(name), nil
}

func (s *MinioStore) Delete(ctx context.Context, name string) error {
	return s.Client.RemoveObject(ctx, s.Bucket, name, minio.RemoveObjectOptions{})
}

func (s *MinioStore) URL(name string) string {
	return "/" + s.Bucket + "/" + name
}

type OSSStore struct {
	Endpoint string
	Bucket   string
	Client   *oss.Client
}

func NewOSSStore(cfg *config.StorageConfig) (*OSSStore, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	return &OSSStore{Endpoint: cfg.OSSEndpoint, Bucket: cfg.OSSBucket, Client: client}, nil
}

func (s *OSSStore) Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	bucket, err := s.Client.Bucket(s.Bucket)
	if err != nil {
		return "", err
	}
	if err := bucket.PutObject(name, r, oss.ContentType(contentType)); err != nil {
		return "", err
	}
	return s.URL(name), nil
}

func (s *OSSStore) Delete(ctx context.Context, name string) error {
	bucket, err := s.Client.Bucket(s.Bucket)
	if err != nil {
		return err
	}
	return bucket.DeleteObject(name)
}

func (s *OSSStore) URL(name string) string {
	return fmt.Sprintf("https://%s.%s/%s", s.Bucket, s.Endpoint, name)
}

type StorageService struct {
	Store ObjectStore
}

// NewStorageService picks the configured backend. A remote backend that
// cannot be constructed falls back to local disk.
func NewStorageService(cfg *config.StorageConfig) *StorageService {
	var (
		store ObjectStore
		err   error
	)
	switch cfg.Type {
	case util.StorageMinio:
		store, err = NewMinioStore(cfg)
	case util.StorageOSS:
		store, err = NewOSSStore(cfg)
	}
	if err != nil {
		logger.Log.Warn("object storage unavailable, using local disk",
			zap.String("type", cfg.Type),
			zap.Error(err),
		)
		store = nil
	}
	if store == nil {
		store = &LocalStore{Root: cfg.LocalPath}
	}
	return &StorageService{Store: store}
}

func (s *StorageService) Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	return s.Store.Upload(ctx, name, r, size, contentType)
}

func (s *StorageService) Delete(ctx context.Context, name string) error {
	return s.Store.Delete(ctx, name)
}

func (s *StorageService) URL(name string) string {
	return s.Store.URL(name)
}
