package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"optics-shop/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	info, err := s.Put(ctx, "orders/240305-001_Иванов.html", bytes.NewReader([]byte("<html>v1</html>")),
		PutOptions{ContentType: "text/html; charset=utf-8", Metadata: map[string]string{"order": "1"}})
	require.NoError(t, err)
	assert.Equal(t, "orders/240305-001_Иванов.html", info.Key)
	assert.Equal(t, int64(15), info.Size)

	// Put replaces.
	_, err = s.Put(ctx, "orders/240305-001_Иванов.html", bytes.NewReader([]byte("<html>v2</html>")), PutOptions{ContentType: "text/html; charset=utf-8"})
	require.NoError(t, err)

	got, rc, err := s.Get(ctx, "orders/240305-001_Иванов.html")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	_ = rc.Close()
	assert.Equal(t, "<html>v2</html>", string(data))
	assert.Equal(t, "text/html; charset=utf-8", got.ContentType)

	_, err = s.Put(ctx, "other/x.txt", bytes.NewReader([]byte("x")), PutOptions{})
	require.NoError(t, err)
	list, err := s.List(ctx, "orders/")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "orders/240305-001_Иванов.html", list[0].Key)

	ok, err := s.Delete(ctx, "orders/240305-001_Иванов.html")
	require.NoError(t, err)
	assert.True(t, ok)

	_, _, err = s.Get(ctx, "orders/240305-001_Иванов.html")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)

	for _, bad := range []string{"", "../etc/passwd", "/abs", "a/../../b"} {
		_, err := s.Put(ctx, bad, bytes.NewReader(nil), PutOptions{})
		assert.Error(t, err, bad)
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	assert.Equal(t, DriverMemory, m.Driver())
	exerciseStore(t, m)

	ok, err := m.Delete(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFilesystem(t *testing.T) {
	root := t.TempDir()
	fs, err := NewFilesystem(root)
	require.NoError(t, err)
	assert.Equal(t, DriverFilesystem, fs.Driver())
	exerciseStore(t, fs)

	ok, err := fs.Delete(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFilesystem_WritesSidecar(t *testing.T) {
	root := t.TempDir()
	fs, err := NewFilesystem(root)
	require.NoError(t, err)
	_, err = fs.Put(context.Background(), "orders/a.html", bytes.NewReader([]byte("a")), PutOptions{ContentType: "text/html"})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, "orders", "a.html"))
	require.NoError(t, err)
	meta, err := os.ReadFile(filepath.Join(root, "orders", "a.html.meta"))
	require.NoError(t, err)
	assert.Contains(t, string(meta), `"content_type": "text/html"`)

	entries, err := os.ReadDir(filepath.Join(root, "orders"))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temp files must not be left behind")
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, &config.Config{BlobDriver: "memory"})
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, s.Driver())

	s, err = Open(ctx, &config.Config{BlobDriver: "fs", BlobDir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, DriverFilesystem, s.Driver())

	t.Setenv("AWS_ACCESS_KEY_ID", "AKIA")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "SECRET")
	s, err = Open(ctx, &config.Config{BlobDriver: "s3", BlobS3Bucket: "exports", BlobS3Endpoint: "http://minio:9000", BlobS3PathStyle: true})
	require.NoError(t, err)
	assert.Equal(t, DriverS3, s.Driver())

	_, err = Open(ctx, &config.Config{BlobDriver: "gcs"})
	assert.Error(t, err)
	_, err = Open(ctx, &config.Config{BlobDriver: "s3"})
	assert.Error(t, err, "s3 without bucket")
}
