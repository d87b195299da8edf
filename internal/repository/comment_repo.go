package repository

import (
	"context"

	"tourtube/internal/model"
	"tourtube/internal/pagination"

	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
	tx txRunner
}

func NewCommentRepository(db *gorm.DB, tx txRunner) *CommentRepository {
	return &CommentRepository{db: db, tx: tx}
}

// Create 创建评论
func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return translate(err)
	}
	return translate(r.db.WithContext(ctx).Preload("Owner").First(comment, comment.ID).Error)
}

// GetByID 根据 ID 获取评论（含作者信息）
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).Preload("Owner").First(&comment, id).Error; err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

// UpdateContent 更新评论内容
func (r *CommentRepository) UpdateContent(ctx context.Context, id int64, content string) (*model.Comment, error) {
	result := r.db.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", id).Update("content", content)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// DeleteCascade 删除评论的点赞后删除评论
func (r *CommentRepository) DeleteCascade(ctx context.Context, id int64) error {
	return r.tx.run(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", id).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.Comment{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ListByVideo 视频评论列表，按创建时间倒序
func (r *CommentRepository) ListByVideo(ctx context.Context, videoID int64, p pagination.Params) ([]model.Comment, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Comment{}).Where("video_id = ?", videoID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var comments []model.Comment
	err := query.Preload("Owner").Order("created_at DESC, id DESC").Scopes(p.Scope()).Find(&comments).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return comments, total, nil
}

// CountByVideos 批量统计视频评论数
func (r *CommentRepository) CountByVideos(ctx context.Context, videoIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(videoIDs))
	if len(videoIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		VideoID int64
		Total   int64
	}
	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Select("video_id, COUNT(*) AS total").
		Where("video_id IN ?", videoIDs).
		Group("video_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	for _, row := range rows {
		counts[row.VideoID] = row.Total
	}
	return counts, nil
}
