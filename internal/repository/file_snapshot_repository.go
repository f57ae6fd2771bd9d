package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/nikolayk812/cartsync/internal/port"
)

// fileSnapshotRepository keeps one file per key under dir.
type fileSnapshotRepository struct {
	dir string
}

func NewFileSnapshot(dir string) (port.SnapshotStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is empty")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll: %w", err)
	}

	return &fileSnapshotRepository{dir: dir}, nil
}

func (r *fileSnapshotRepository) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := r.path(key)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}

	return data, nil
}

func (r *fileSnapshotRepository) Set(ctx context.Context, key string, value []byte) error {
	path, err := r.path(key)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(r.dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("os.CreateTemp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		return errors.Join(fmt.Errorf("tmp.Write: %w", err), tmp.Close())
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tmp.Close: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("os.Rename: %w", err)
	}

	return nil
}

func (r *fileSnapshotRepository) path(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key is empty")
	}

	// keys like "@RocketShoes:cart" are not portable file names
	return filepath.Join(r.dir, url.QueryEscape(key)+".json"), nil
}
