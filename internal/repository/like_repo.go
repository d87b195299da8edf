package repository

import (
	"context"

	"tourtube/internal/model"
	"tourtube/internal/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepository struct {
	db *gorm.DB
	tx txRunner
}

func NewLikeRepository(db *gorm.DB, tx txRunner) *LikeRepository {
	return &LikeRepository{db: db, tx: tx}
}

// Toggle 删除已有点赞，没有可删除的记录时插入；并发切换由可串行化事务排队
func (r *LikeRepository) Toggle(ctx context.Context, target model.LikeTarget, likerID int64) (bool, error) {
	var liked bool
	err := r.tx.run(ctx, func(tx *gorm.DB) error {
		result := tx.Where("liked_by = ? AND "+target.Kind.Column()+" = ?", likerID, target.ID).
			Delete(&model.Like{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			liked = false
			return nil
		}

		liked = true
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(model.NewLike(target, likerID)).Error
	})
	return liked, translate(err)
}

// Count 统计目标的点赞数
func (r *LikeRepository) Count(ctx context.Context, target model.LikeTarget) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Where(target.Kind.Column()+" = ?", target.ID).
		Count(&count).Error
	return count, translate(err)
}

// CountByTargets 批量统计点赞数
func (r *LikeRepository) CountByTargets(ctx context.Context, kind model.LikeKind, ids []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	column := kind.Column()
	var rows []struct {
		TargetID int64
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Select(column+" AS target_id, COUNT(*) AS total").
		Where(column+" IN ?", ids).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	for _, row := range rows {
		counts[row.TargetID] = row.Total
	}
	return counts, nil
}

// LikedBy 批量查询用户是否点赞
func (r *LikeRepository) LikedBy(ctx context.Context, kind model.LikeKind, ids []int64, likerID int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	column := kind.Column()
	var likedIDs []int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Where("liked_by = ? AND "+column+" IN ?", likerID, ids).
		Pluck(column, &likedIDs).Error
	if err != nil {
		return nil, translate(err)
	}

	likedSet := make(map[int64]bool, len(likedIDs))
	for _, id := range likedIDs {
		likedSet[id] = true
	}
	for _, id := range ids {
		result[id] = likedSet[id]
	}
	return result, nil
}

// ListLikedVideoIDs 用户点赞过的视频 ID，按点赞时间倒序
func (r *LikeRepository) ListLikedVideoIDs(ctx context.Context, likerID int64, p pagination.Params) ([]int64, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Like{}).Where("liked_by = ? AND video_id IS NOT NULL", likerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var ids []int64
	err := query.Order("created_at DESC, id DESC").Scopes(p.Scope()).Pluck("video_id", &ids).Error
	return ids, total, translate(err)
}
