// Package storage provides the image disks uploads are written to: a local
// directory served by the storefront, or an S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/foodapp/storefront/internal/core/ports"
)

// LocalDisk writes files under root and serves them from baseURL.
type LocalDisk struct {
	root    string
	baseURL string
}

// NewLocalDisk returns a LocalDisk. The root directory is created on first write.
func NewLocalDisk(root, baseURL string) *LocalDisk {
	return &LocalDisk{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

var _ ports.ImageStore = (*LocalDisk)(nil)

// Root is the directory files are written to.
func (d *LocalDisk) Root() string { return d.root }

func (d *LocalDisk) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	full, err := d.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage/local: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return fmt.Errorf("storage/local: create: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("storage/local: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage/local: close %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return fmt.Errorf("storage/local: rename %s: %w", key, err)
	}
	return nil
}

func (d *LocalDisk) URL(key string) string {
	return d.baseURL + "/" + strings.TrimLeft(key, "/")
}

// path resolves key inside root, refusing keys that escape it.
func (d *LocalDisk) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("storage/local: empty key")
	}
	return filepath.Join(d.root, clean), nil
}
