package repository

import (
	"context"

	"tourtube/internal/model"
	"tourtube/internal/pagination"

	"gorm.io/gorm"
)

type TweetRepository struct {
	db *gorm.DB
	tx txRunner
}

func NewTweetRepository(db *gorm.DB, tx txRunner) *TweetRepository {
	return &TweetRepository{db: db, tx: tx}
}

func (r *TweetRepository) Create(ctx context.Context, tweet *model.Tweet) error {
	if err := r.db.WithContext(ctx).Create(tweet).Error; err != nil {
		return translate(err)
	}
	return translate(r.db.WithContext(ctx).Preload("Owner").First(tweet, tweet.ID).Error)
}

func (r *TweetRepository) GetByID(ctx context.Context, id int64) (*model.Tweet, error) {
	var tweet model.Tweet
	if err := r.db.WithContext(ctx).Preload("Owner").First(&tweet, id).Error; err != nil {
		return nil, translate(err)
	}
	return &tweet, nil
}

func (r *TweetRepository) UpdateContent(ctx context.Context, id int64, content string) (*model.Tweet, error) {
	result := r.db.WithContext(ctx).Model(&model.Tweet{}).Where("id = ?", id).Update("content", content)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// DeleteCascade 删除动态的点赞后删除动态
func (r *TweetRepository) DeleteCascade(ctx context.Context, id int64) error {
	return r.tx.run(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("tweet_id = ?", id).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.Tweet{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// List 动态列表，按创建时间倒序
func (r *TweetRepository) List(ctx context.Context, ownerID *int64, p pagination.Params) ([]model.Tweet, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Tweet{})
	if ownerID != nil {
		query = query.Where("owner_id = ?", *ownerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var tweets []model.Tweet
	err := query.Preload("Owner").Order("created_at DESC, id DESC").Scopes(p.Scope()).Find(&tweets).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return tweets, total, nil
}
