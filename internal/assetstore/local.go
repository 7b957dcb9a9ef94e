package assetstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore хранит файлы в каталоге на диске, раздаваемом HTTP-сервером.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore создаёт каталог dir, если его нет.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	const op = "assetstore.NewLocalStore"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir возвращает корневой каталог хранилища.
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Put(ctx context.Context, key string, data []byte, _ string) (string, error) {
	const op = "assetstore.LocalStore.Put"
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	path, err := s.path(key)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	// запись через временный файл, чтобы по URL не отдавался недописанный файл
	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return s.baseURL + "/" + key, nil
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	const op = "assetstore.LocalStore.Delete"
	path, err := s.path(key)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *LocalStore) KeyFromURL(url string) (string, bool) {
	return keyFromURL(s.baseURL, url)
}

func (s *LocalStore) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.dir, clean), nil
}
