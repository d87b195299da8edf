package worker

import (
	"context"
	"time"

	infraKafka "tourtube/internal/infra/kafka"
	"tourtube/pkg/logger"

	"go.uber.org/zap"
)

// MediaDeleter 远程媒体删除
type MediaDeleter interface {
	Delete(ctx context.Context, fileURL string) error
}

// CleanupQueue 重新投递失败的删除任务
type CleanupQueue interface {
	EnqueueMediaCleanup(ctx context.Context, task *infraKafka.MediaCleanupTask) error
}

// MediaJanitor 重试 API 进程中同步删除失败的媒体
type MediaJanitor struct {
	store       MediaDeleter
	queue       CleanupQueue
	maxAttempts int
	backoff     func(attempt int) time.Duration
}

func NewMediaJanitor(store MediaDeleter, queue CleanupQueue, maxAttempts int) *MediaJanitor {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &MediaJanitor{
		store:       store,
		queue:       queue,
		maxAttempts: maxAttempts,
		backoff:     exponentialBackoff,
	}
}

// exponentialBackoff 1s, 2s, 4s ... 最多 1 分钟
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 7 {
		return time.Minute
	}
	d := time.Second << (attempt - 1)
	if d > time.Minute {
		d = time.Minute
	}
	return d
}

// Handle 删除任务中的全部地址；仍失败的地址在退避后以 Attempt+1 重新投递，超过上限则放弃
func (j *MediaJanitor) Handle(ctx context.Context, task *infraKafka.MediaCleanupTask) error {
	var failed []string
	for _, u := range task.URLs {
		if err := j.store.Delete(ctx, u); err != nil {
			logger.Warn("Media cleanup failed",
				zap.String("url", u),
				zap.Int("attempt", task.Attempt),
				zap.Error(err),
			)
			failed = append(failed, u)
		}
	}
	if len(failed) == 0 {
		return nil
	}

	if task.Attempt >= j.maxAttempts {
		logger.Error("Giving up media cleanup",
			zap.Strings("urls", failed),
			zap.Int("attempts", task.Attempt),
			zap.String("reason", task.Reason),
		)
		return nil
	}

	timer := time.NewTimer(j.backoff(task.Attempt))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	return j.queue.EnqueueMediaCleanup(ctx, &infraKafka.MediaCleanupTask{
		URLs:    failed,
		Attempt: task.Attempt + 1,
		Reason:  task.Reason,
	})
}
