package service

import (
	"biokuiz/internal/config"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreKeepsFilesUnderRoot(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := &LocalStore{Root: root}

	url, err := store.Upload(ctx, "../../etc/passwd", strings.NewReader("x"), 1, "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/etc/passwd", url)
	_, err = os.Stat(filepath.Join(root, "etc", "passwd"))
	assert.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "../../etc/passwd"))
	_, err = os.Stat(filepath.Join(root, "etc", "passwd"))
	assert.True(t, os.IsNotExist(err))

	_, err = store.Upload(ctx, "", strings.NewReader("x"), 1, "text/plain")
	assert.Error(t, err)
}

func TestNewStorageServiceDefaultsToLocal(t *testing.T) {
	svc := NewStorageService(&config.StorageConfig{Type: "local", LocalPath: t.TempDir()})
	_, ok := svc.Store.(*LocalStore)
	assert.True(t, ok)
	assert.Equal(t, "/uploads/materials/1/a.png", svc.URL("materials/1/a.png"))

	minio := NewStorageService(&config.StorageConfig{Type: "minio", MinioEndpoint: "127.0.0.1:9000", MinioBucket: "biokuiz"})
	_, ok = minio.Store.(*MinioStore)
	assert.True(t, ok)
	assert.Equal(t, "/biokuiz/materials/1/a.png", minio.URL("materials/1/a.png"))
}
