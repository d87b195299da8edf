package repository

import (
	"context"

	"tourtube/internal/model"
	"tourtube/internal/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionRepository struct {
	db *gorm.DB
	tx txRunner
}

func NewSubscriptionRepository(db *gorm.DB, tx txRunner) *SubscriptionRepository {
	return &SubscriptionRepository{db: db, tx: tx}
}

// Toggle 删除已有订阅，没有可删除的记录时插入
func (r *SubscriptionRepository) Toggle(ctx context.Context, subscriberID, channelID int64) (bool, error) {
	var subscribed bool
	err := r.tx.run(ctx, func(tx *gorm.DB) error {
		result := tx.Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
			Delete(&model.Subscription{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			subscribed = false
			return nil
		}

		subscribed = true
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.Subscription{SubscriberID: subscriberID, ChannelID: channelID}).Error
	})
	return subscribed, translate(err)
}

func (r *SubscriptionRepository) IsSubscribed(ctx context.Context, subscriberID, channelID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Count(&count).Error
	return count > 0, translate(err)
}

// CountSubscribers 频道的订阅者数量
func (r *SubscriptionRepository) CountSubscribers(ctx context.Context, channelID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).Where("channel_id = ?", channelID).Count(&count).Error
	return count, translate(err)
}

// CountSubscribedTo 用户订阅的频道数量
func (r *SubscriptionRepository) CountSubscribedTo(ctx context.Context, subscriberID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).Where("subscriber_id = ?", subscriberID).Count(&count).Error
	return count, translate(err)
}

func (r *SubscriptionRepository) CountSubscribersByChannels(ctx context.Context, channelIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(channelIDs))
	if len(channelIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		ChannelID int64
		Total     int64
	}
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Select("channel_id, COUNT(*) AS total").
		Where("channel_id IN ?", channelIDs).
		Group("channel_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	for _, row := range rows {
		counts[row.ChannelID] = row.Total
	}
	return counts, nil
}

func (r *SubscriptionRepository) SubscribedChannels(ctx context.Context, subscriberID int64, channelIDs []int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(channelIDs))
	if len(channelIDs) == 0 {
		return result, nil
	}

	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("subscriber_id = ? AND channel_id IN ?", subscriberID, channelIDs).
		Pluck("channel_id", &ids).Error
	if err != nil {
		return nil, translate(err)
	}

	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	for _, id := range channelIDs {
		result[id] = set[id]
	}
	return result, nil
}

// ListSubscribers 频道的订阅者列表，按订阅时间倒序
func (r *SubscriptionRepository) ListSubscribers(ctx context.Context, channelID int64, p pagination.Params) ([]model.Subscription, int64, error) {
	return r.list(ctx, "channel_id = ?", channelID, "Subscriber", p)
}

// ListChannels 用户订阅的频道列表，按订阅时间倒序
func (r *SubscriptionRepository) ListChannels(ctx context.Context, subscriberID int64, p pagination.Params) ([]model.Subscription, int64, error) {
	return r.list(ctx, "subscriber_id = ?", subscriberID, "Channel", p)
}

func (r *SubscriptionRepository) list(ctx context.Context, cond string, id int64, preload string, p pagination.Params) ([]model.Subscription, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Subscription{}).Where(cond, id)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var subs []model.Subscription
	err := query.Preload(preload).Order("created_at DESC, id DESC").Scopes(p.Scope()).Find(&subs).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return subs, total, nil
}
