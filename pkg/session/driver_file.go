package session

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// fileDriver keeps one JSON file per session under a directory. Sweep
// removes files by modification time.
type fileDriver struct {
	dir string
}

func newFileDriver(dir string) (*fileDriver, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Join(ErrMissingPath, err)
	}
	return &fileDriver{dir: dir}, nil
}

// path rejects identifiers that could escape the storage directory.
func (d *fileDriver) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, "/\\.") {
		return "", ErrNotFound
	}
	return filepath.Join(d.dir, id+".json"), nil
}

func (d *fileDriver) Load(_ context.Context, id string) (*Record, error) {
	p, err := d.path(id)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeRecord(b)
}

func (d *fileDriver) Save(_ context.Context, rec *Record, _ time.Duration) error {
	p, err := d.path(rec.ID)
	if err != nil {
		return err
	}
	b, err := encodeRecord(rec)
	if err != nil {
		return err
	}

	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

func (d *fileDriver) Destroy(_ context.Context, id string) error {
	p, err := d.path(id)
	if err != nil {
		return nil
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (d *fileDriver) Sweep(ctx context.Context, before time.Time) error {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(before) {
			_ = os.Remove(filepath.Join(d.dir, entry.Name()))
		}
	}
	return nil
}

var _ Driver = (*fileDriver)(nil)
