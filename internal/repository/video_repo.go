package repository

import (
	"context"

	"tourtube/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var videoSortColumns = map[string]string{
	SortByCreatedAt: "created_at",
	SortByViews:     "views",
	SortByDuration:  "duration",
	SortByTitle:     "title",
}

type VideoRepository struct {
	db *gorm.DB
	tx txRunner
}

func NewVideoRepository(db *gorm.DB, tx txRunner) *VideoRepository {
	return &VideoRepository{db: db, tx: tx}
}

// Create 创建视频记录
func (r *VideoRepository) Create(ctx context.Context, video *model.Video) error {
	return translate(r.db.WithContext(ctx).Create(video).Error)
}

// GetByID 根据 ID 获取视频（含作者信息）
func (r *VideoRepository) GetByID(ctx context.Context, id int64) (*model.Video, error) {
	var video model.Video
	if err := r.db.WithContext(ctx).Preload("Owner").First(&video, id).Error; err != nil {
		return nil, translate(err)
	}
	return &video, nil
}

// GetByIDs 批量获取视频（含作者信息），不保证顺序
func (r *VideoRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.Video, error) {
	if len(ids) == 0 {
		return []model.Video{}, nil
	}
	var videos []model.Video
	err := r.db.WithContext(ctx).Preload("Owner").Where("id IN ?", ids).Find(&videos).Error
	return videos, translate(err)
}

// List 视频列表查询（分页、筛选、排序），总数与分页数据分别查询
func (r *VideoRepository) List(ctx context.Context, q VideoQuery) ([]model.Video, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Video{})

	if q.Search != "" {
		query = query.Where("title ILIKE ?", likePattern(q.Search))
	}
	if q.OwnerID != nil {
		query = query.Where("owner_id = ?", *q.OwnerID)
	}
	if q.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	column, ok := videoSortColumns[q.SortBy]
	if !ok {
		column = "created_at"
	}

	var videos []model.Video
	err := query.Preload("Owner").
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: q.SortDesc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: q.SortDesc}).
		Scopes(q.Page.Scope()).
		Find(&videos).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return videos, total, nil
}

// Update 更新视频字段
func (r *VideoRepository) Update(ctx context.Context, id int64, upd VideoUpdate) (*model.Video, error) {
	updates := map[string]interface{}{}
	if upd.Title != nil {
		updates["title"] = *upd.Title
	}
	if upd.Description != nil {
		updates["description"] = *upd.Description
	}
	if upd.Thumbnail != nil {
		updates["thumbnail"] = *upd.Thumbnail
	}
	if len(updates) == 0 {
		return r.GetByID(ctx, id)
	}

	result := r.db.WithContext(ctx).Model(&model.Video{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// TogglePublished 单条语句翻转发布状态
func (r *VideoRepository) TogglePublished(ctx context.Context, id int64) (*model.Video, error) {
	result := r.db.WithContext(ctx).Model(&model.Video{}).Where("id = ?", id).
		Update("is_published", gorm.Expr("NOT is_published"))
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// DeleteCascade 先删除依赖数据再删除视频本身，全部在一个事务内完成
func (r *VideoRepository) DeleteCascade(ctx context.Context, id int64) error {
	return r.tx.run(ctx, func(tx *gorm.DB) error {
		commentIDs := tx.Model(&model.Comment{}).Select("id").Where("video_id = ?", id)
		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&model.VideoView{}).Error; err != nil {
			return err
		}
		if err := tx.Exec(
			"UPDATE playlists SET videos = array_remove(videos, ?) WHERE ? = ANY(videos)", id, id,
		).Error; err != nil {
			return err
		}
		if err := tx.Exec(
			"UPDATE users SET watch_history = array_remove(watch_history, ?) WHERE ? = ANY(watch_history)", id, id,
		).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&model.Video{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ChannelStats 统计频道的视频数、总播放量和视频获赞数
func (r *VideoRepository) ChannelStats(ctx context.Context, ownerID int64) (ChannelStats, error) {
	var stats ChannelStats
	err := r.db.WithContext(ctx).Model(&model.Video{}).
		Select("COUNT(*) AS total_videos, COALESCE(SUM(views), 0) AS total_views").
		Where("owner_id = ?", ownerID).
		Scan(&stats).Error
	if err != nil {
		return stats, translate(err)
	}

	err = r.db.WithContext(ctx).Model(&model.Like{}).
		Joins("JOIN videos ON videos.id = likes.video_id").
		Where("videos.owner_id = ?", ownerID).
		Count(&stats.TotalLikes).Error
	return stats, translate(err)
}
