package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileBackend keeps one pretty-printed JSON array file per collection.
// Writes overwrite the file in place; a crash mid-write can truncate it.
type FileBackend struct {
	dir string
}

func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", dir, err)
	}
	return &FileBackend{dir: dir}, nil
}

func (b *FileBackend) Name() string { return "file" }

func (b *FileBackend) Path(collection string) string {
	return filepath.Join(b.dir, collection+".json")
}

// Init creates an empty array file for every collection that has none.
func (b *FileBackend) Init(collections ...string) error {
	for _, c := range collections {
		path := b.Path(c)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.WriteFile(path, []byte("[]\n"), 0o644); err != nil {
			return fmt.Errorf("failed to init %s: %w", path, err)
		}
	}
	return nil
}

func (b *FileBackend) Read(_ context.Context, collection string) ([]byte, error) {
	data, err := os.ReadFile(b.Path(collection))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrCollectionNotFound
	}
	return data, err
}

func (b *FileBackend) Write(_ context.Context, collection string, data []byte) error {
	return os.WriteFile(b.Path(collection), data, 0o644)
}

func (b *FileBackend) Ping(_ context.Context) error {
	info, err := os.Stat(b.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("data dir %s is not a directory", b.dir)
	}
	return nil
}
