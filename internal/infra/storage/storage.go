// Package storage 媒体文件存储，按配置选择 MinIO / S3 / GCS / 本地目录
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"tourtube/internal/config"

	"github.com/google/uuid"
)

// ErrInvalidURL 地址不属于当前存储，无法推导对象键
var ErrInvalidURL = errors.New("url does not belong to this storage")

// Store 媒体存储
type Store interface {
	// Upload 上传文件到 folder 下，返回公开访问地址
	Upload(ctx context.Context, folder, filename string, r io.Reader, size int64, contentType string) (string, error)
	// Delete 根据公开地址删除对象，对象不存在视为成功
	Delete(ctx context.Context, fileURL string) error
}

// New 根据配置创建存储
func New(ctx context.Context, cfg *config.StorageConfig) (Store, error) {
	switch cfg.Provider {
	case "minio":
		return NewMinIOStorage(ctx, &cfg.MinIO)
	case "s3":
		return NewS3Storage(ctx, &cfg.S3)
	case "gcs":
		return NewGCSStorage(ctx, &cfg.GCS)
	case "local":
		return NewLocalStorage(&cfg.Local)
	}
	return nil, fmt.Errorf("unsupported storage provider %q", cfg.Provider)
}

// ObjectKey 生成对象键 folder/<uuid><ext>，保留原文件扩展名
func ObjectKey(folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(folder, uuid.NewString()+ext)
}

// KeyFromURL 从公开地址推导对象键：去掉 base 的路径前缀后剩余的部分
func KeyFromURL(fileURL, base string) (string, error) {
	u, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	prefix := "/"
	if base != "" {
		b, err := url.Parse(base)
		if err != nil {
			return "", fmt.Errorf("invalid base url %q: %w", base, err)
		}
		if b.Host != "" && !strings.EqualFold(b.Host, u.Host) {
			return "", ErrInvalidURL
		}
		prefix = strings.TrimSuffix(b.Path, "/") + "/"
	}

	p := u.Path
	if !strings.HasPrefix(p, prefix) {
		return "", ErrInvalidURL
	}
	key := path.Clean(strings.TrimPrefix(p, prefix))
	if key == "." || key == "" || strings.HasPrefix(key, "../") || key == ".." {
		return "", ErrInvalidURL
	}
	return key, nil
}

func joinURL(base, key string) string {
	return strings.TrimSuffix(base, "/") + "/" + key
}
