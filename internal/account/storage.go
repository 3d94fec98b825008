package account

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// fileStorage is the file-backed Storage: one file per key inside a
// directory, key names base64url-encoded so arbitrary keys are safe as file
// names. Writes go through a temp file + rename so a crash never leaves a
// half-written blob.
type fileStorage struct {
	dir string
}

// NewFileStorage returns a Storage rooted at dir, creating it if needed.
func NewFileStorage(dir string) (Storage, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("account: create storage dir: %w", err)
	}
	return &fileStorage{dir: dir}, nil
}

func (f *fileStorage) path(key string) string {
	return filepath.Join(f.dir, base64.URLEncoding.EncodeToString([]byte(key)))
}

func (f *fileStorage) Get(key string) ([]byte, bool, error) {
	raw, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (f *fileStorage) Set(key string, value []byte) error {
	path := f.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (f *fileStorage) Delete(key string) error {
	err := os.Remove(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
