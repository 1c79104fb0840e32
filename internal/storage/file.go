package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File stores each bucket as <dir>/<bucket>.json. Writes go to a temp file in
// the same directory and are renamed into place, so a crash leaves either the
// old or the new snapshot.
type File struct {
	dir string
}

// NewFile creates dir if needed and returns a File backend rooted there.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage directory not set")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &File{dir: dir}, nil
}

func (f *File) path(bucket string) (string, error) {
	if bucket == "" || strings.ContainsAny(bucket, `/\`) || bucket == "." || bucket == ".." {
		return "", fmt.Errorf("invalid bucket name %q", bucket)
	}
	return filepath.Join(f.dir, bucket+".json"), nil
}

func (f *File) Load(ctx context.Context, bucket string) ([]byte, error) {
	p, err := f.path(bucket)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", bucket, err)
	}
	return data, nil
}

func (f *File) Save(ctx context.Context, bucket string, payload []byte) (retErr error) {
	p, err := f.path(bucket)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, bucket+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", bucket, err)
	}
	defer func() {
		if retErr != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", bucket, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", bucket, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", bucket, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("rename %s: %w", bucket, err)
	}
	return nil
}

func (f *File) Close() error   { return nil }
func (f *File) Driver() string { return "file" }
