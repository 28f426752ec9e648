package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FileBackend keeps one <name>.json file per document under a data
// directory. This is the default backend for a single-device install.
type FileBackend struct {
	dir string
}

func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileBackend{dir: dir}, nil
}

func (b *FileBackend) path(name string) string {
	return filepath.Join(b.dir, name+".json")
}

func (b *FileBackend) Load(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(b.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save writes to a temp file and renames it over the target so a crash
// mid-write never leaves a truncated document.
func (b *FileBackend) Save(_ context.Context, name string, data []byte) error {
	tmp, err := os.CreateTemp(b.dir, name+"-*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), b.path(name))
}
