package service

import (
	"context"
	"io"
	"time"

	infraKafka "tourtube/internal/infra/kafka"
	"tourtube/internal/repository"
)

// MediaStore 媒体存储
type MediaStore interface {
	Upload(ctx context.Context, folder, filename string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, fileURL string) error
}

// TokenRevoker access token 黑名单
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// EventPublisher 领域事件与媒体清理任务的投递
type EventPublisher interface {
	PublishVideoEvent(ctx context.Context, event *infraKafka.VideoEvent) error
	EnqueueMediaCleanup(ctx context.Context, task *infraKafka.MediaCleanupTask) error
}

// VideoSearcher 视频标题搜索，返回当前页 ID 与总数
type VideoSearcher interface {
	SearchVideos(ctx context.Context, q repository.VideoQuery) ([]int64, int64, error)
}

// DurationProber 读取视频时长（秒）
type DurationProber interface {
	Duration(ctx context.Context, r io.Reader) (float64, error)
}

// FileUpload 上传的文件，Open 可以多次调用
type FileUpload struct {
	Filename    string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// NopPublisher 未启用 Kafka 时使用
type NopPublisher struct{}

func (NopPublisher) PublishVideoEvent(context.Context, *infraKafka.VideoEvent) error { return nil }

func (NopPublisher) EnqueueMediaCleanup(context.Context, *infraKafka.MediaCleanupTask) error {
	return nil
}
