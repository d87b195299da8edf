package service

import (
	"context"
	"strconv"
	"time"

	"tourtube/internal/repository"
	"tourtube/pkg/logger"

	"go.uber.org/zap"
)

// ViewRecorder 播放去重：同一观众在窗口期内对同一视频只计一次播放
type ViewRecorder struct {
	views    repository.ViewStore
	users    repository.UserStore
	window   time.Duration
	interval time.Duration
	now      func() time.Time
}

func NewViewRecorder(views repository.ViewStore, users repository.UserStore, window, purgeInterval time.Duration) *ViewRecorder {
	return &ViewRecorder{
		views:    views,
		users:    users,
		window:   window,
		interval: purgeInterval,
		now:      time.Now,
	}
}

// ViewerKey 登录用户按用户 ID，匿名观众按客户端地址
func ViewerKey(viewerID *int64, remoteAddr string) string {
	if viewerID != nil {
		return "user:" + strconv.FormatInt(*viewerID, 10)
	}
	return "ip:" + remoteAddr
}

// Record 返回本次播放是否计数
// 登录用户的观看历史无论是否计数都会更新：历史记录"打开过"，播放量记录"窗口内的不同观众"
func (r *ViewRecorder) Record(ctx context.Context, videoID int64, viewerID *int64, remoteAddr string) (bool, error) {
	counted, err := r.views.Record(ctx, videoID, ViewerKey(viewerID, remoteAddr), r.now(), r.window)
	if err != nil {
		return false, err
	}

	// 计数已提交，历史写入失败只记日志，下次打开时会补上
	if viewerID != nil {
		if err := r.users.AddToWatchHistory(ctx, *viewerID, videoID); err != nil {
			logger.FromContext(ctx).Warn("Failed to update watch history",
				zap.Int64("user_id", *viewerID),
				zap.Int64("video_id", videoID),
				zap.Error(err),
			)
		}
	}
	return counted, nil
}

// Purge 删除窗口期之前的去重标记
func (r *ViewRecorder) Purge(ctx context.Context) (int64, error) {
	return r.views.PurgeExpired(ctx, r.now().Add(-r.window))
}

// Run 定期清理过期标记，ctx 取消后返回
func (r *ViewRecorder) Run(ctx context.Context) {
	if r.interval <= 0 {
		logger.Warn("View marker sweeper disabled", zap.Duration("interval", r.interval))
		return
	}
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	logger.Info("View marker sweeper started", zap.Duration("interval", r.interval), zap.Duration("window", r.window))
	for {
		select {
		case <-ctx.Done():
			logger.Info("View marker sweeper stopped")
			return
		case <-ticker.C:
			purged, err := r.Purge(ctx)
			if err != nil {
				if ctx.Err() == nil {
					logger.Error("Failed to purge view markers", zap.Error(err))
				}
				continue
			}
			if purged > 0 {
				logger.Debug("Purged expired view markers", zap.Int64("count", purged))
			}
		}
	}
}
