package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/2beens/gympro/pkg"

	log "github.com/sirupsen/logrus"
)

var _ Backend = (*FileBackend)(nil)

// FileBackend keeps the blob in <dir>/<key>.json.
type FileBackend struct {
	path string
}

func NewFileBackend(dir, key string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir [%s]: %w", dir, err)
	}
	return &FileBackend{
		path: filepath.Join(dir, key+".json"),
	}, nil
}

func (b *FileBackend) Name() string {
	return "file"
}

func (b *FileBackend) Path() string {
	return b.path
}

func (b *FileBackend) Read(_ context.Context) ([]byte, error) {
	exists, err := pkg.PathExists(b.path, false)
	if err != nil {
		return nil, fmt.Errorf("check state file [%s]: %w", b.path, err)
	}
	if !exists {
		return nil, ErrNotFound
	}
	return os.ReadFile(b.path)
}

// Write replaces the file through a rename, so a crash never leaves a half
// written blob behind.
func (b *FileBackend) Write(_ context.Context, blob []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(b.path), filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
			log.Warnf("remove temp state file [%s]: %s", tmpPath, err)
		}
	}()

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp state file: %w", err)
	}

	if err := os.Rename(tmpPath, b.path); err != nil {
		return fmt.Errorf("rename state file: %w", err)
	}
	log.Tracef("state saved to [%s], %d bytes", b.path, len(blob))
	return nil
}
