package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"tourtube/internal/config"
)

// LocalStorage 文件写入本地目录，由 API 进程以静态文件方式提供
type LocalStorage struct {
	dir     string
	baseURL string
}

func NewLocalStorage(cfg *config.LocalConfig) (*LocalStorage, error) {
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create media dir: %w", err)
	}
	return &LocalStorage{dir: cfg.Dir, baseURL: cfg.PublicBaseURL}, nil
}

// Dir 返回媒体根目录
func (s *LocalStorage) Dir() string {
	return s.dir
}

func (s *LocalStorage) Upload(_ context.Context, folder, filename string, r io.Reader, _ int64, _ string) (string, error) {
	key := ObjectKey(folder, filename)
	target := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create local file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return joinURL(s.baseURL, key), nil
}

func (s *LocalStorage) Delete(_ context.Context, fileURL string) error {
	key, err := KeyFromURL(fileURL, s.baseURL)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.dir, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
