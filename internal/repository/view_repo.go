package repository

import (
	"context"
	"time"

	"tourtube/internal/model"

	"gorm.io/gorm"
)

// upsertViewSQL 没有记录时插入；已有记录但早于窗口起点时刷新时间。窗口期内的重复观看不影响任何行
const upsertViewSQL = `INSERT INTO video_views (video_id, viewer_key, viewed_at) VALUES (?, ?, ?)
ON CONFLICT (video_id, viewer_key) DO UPDATE SET viewed_at = EXCLUDED.viewed_at
WHERE video_views.viewed_at < ?`

type ViewRepository struct {
	tx txRunner
}

func NewViewRepository(tx txRunner) *ViewRepository {
	return &ViewRepository{tx: tx}
}

// Record 写入去重标记，计数成功时同一事务内给视频播放量 +1
func (r *ViewRepository) Record(ctx context.Context, videoID int64, viewerKey string, now time.Time, window time.Duration) (bool, error) {
	var counted bool
	err := r.tx.run(ctx, func(tx *gorm.DB) error {
		counted = false
		result := tx.Exec(upsertViewSQL, videoID, viewerKey, now, now.Add(-window))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		if err := tx.Model(&model.Video{}).Where("id = ?", videoID).
			UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
			return err
		}
		counted = true
		return nil
	})
	return counted, translate(err)
}

// PurgeExpired 清理窗口期外的标记
func (r *ViewRepository) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.tx.db.WithContext(ctx).Where("viewed_at < ?", cutoff).Delete(&model.VideoView{})
	return result.RowsAffected, translate(result.Error)
}
