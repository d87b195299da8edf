package service

import (
	"context"

	"tourtube/internal/apperr"
	infraKafka "tourtube/internal/infra/kafka"
	"tourtube/pkg/logger"

	"go.uber.org/zap"
)

// 存储中的目录
const (
	folderAvatars    = "avatars"
	folderCovers     = "covers"
	folderVideos     = "videos"
	folderThumbnails = "thumbnails"
)

// mediaHelper 上传与尽力删除远程媒体
type mediaHelper struct {
	store  MediaStore
	events EventPublisher
}

func (m mediaHelper) upload(ctx context.Context, folder string, f *FileUpload) (string, error) {
	r, err := f.Open()
	if err != nil {
		return "", apperr.Wrap(ErrUploadFailed, err)
	}
	defer r.Close()

	fileURL, err := m.store.Upload(ctx, folder, f.Filename, r, f.Size, f.ContentType)
	if err != nil {
		return "", apperr.Wrap(ErrUploadFailed, err)
	}
	return fileURL, nil
}

// discard 删除刚上传但未落库的文件，失败只记录日志
func (m mediaHelper) discard(ctx context.Context, urls ...string) {
	for _, u := range urls {
		if u == "" {
			continue
		}
		if err := m.store.Delete(ctx, u); err != nil {
			logger.FromContext(ctx).Warn("Failed to discard uploaded media", zap.String("url", u), zap.Error(err))
		}
	}
}

// remove 删除已不再引用的媒体，失败的地址投递给 worker 重试
func (m mediaHelper) remove(ctx context.Context, reason string, urls ...string) {
	var failed []string
	for _, u := range urls {
		if u == "" {
			continue
		}
		if err := m.store.Delete(ctx, u); err != nil {
			logger.FromContext(ctx).Warn("Failed to delete remote media",
				zap.String("url", u),
				zap.String("reason", reason),
				zap.Error(err),
			)
			failed = append(failed, u)
		}
	}
	if len(failed) == 0 {
		return
	}

	task := &infraKafka.MediaCleanupTask{URLs: failed, Attempt: 1, Reason: reason}
	if err := m.events.EnqueueMediaCleanup(ctx, task); err != nil {
		logger.FromContext(ctx).Error("Failed to enqueue media cleanup",
			zap.Strings("urls", failed),
			zap.Error(err),
		)
	}
}
