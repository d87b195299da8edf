package service

import (
	"context"

	"tourtube/internal/api/dto"
	"tourtube/internal/model"
	"tourtube/internal/pagination"
	"tourtube/internal/repository"
)

type SubscriptionService struct {
	subs       repository.SubscriptionStore
	users      repository.UserStore
	engagement *Engagement
}

func NewSubscriptionService(store *repository.Store, engagement *Engagement) *SubscriptionService {
	return &SubscriptionService{subs: store.Subscriptions, users: store.Users, engagement: engagement}
}

// Toggle 订阅/取消订阅，返回切换后重新统计的订阅数
func (s *SubscriptionService) Toggle(ctx context.Context, subscriberID, channelID int64) (*dto.SubscriptionToggleData, error) {
	if subscriberID == channelID {
		return nil, ErrSelfSubscribe
	}
	if _, err := s.users.GetByID(ctx, channelID); err != nil {
		return nil, notFoundAs(err, ErrChannelNotFound)
	}

	subscribed, err := s.subs.Toggle(ctx, subscriberID, channelID)
	if err != nil {
		return nil, err
	}
	count, err := s.subs.CountSubscribers(ctx, channelID)
	if err != nil {
		return nil, err
	}
	return &dto.SubscriptionToggleData{Subscribed: subscribed, SubscribersCount: count}, nil
}

// ListSubscribers 频道的订阅者，按订阅时间倒序
func (s *SubscriptionService) ListSubscribers(ctx context.Context, channelID int64, p pagination.Params, viewerID *int64) (*dto.SubscriberListData, error) {
	if _, err := s.users.GetByID(ctx, channelID); err != nil {
		return nil, notFoundAs(err, ErrChannelNotFound)
	}

	subs, total, err := s.subs.ListSubscribers(ctx, channelID, p)
	if err != nil {
		return nil, err
	}
	users := make([]model.User, 0, len(subs))
	for i := range subs {
		users = append(users, subs[i].Subscriber)
	}
	items, err := s.engagement.Channels(ctx, users, viewerID)
	if err != nil {
		return nil, err
	}

	return &dto.SubscriberListData{
		Meta:             p.Meta(total),
		Subscribers:      items,
		TotalSubscribers: total,
	}, nil
}

// ListSubscribedChannels 用户订阅的频道，按订阅时间倒序
func (s *SubscriptionService) ListSubscribedChannels(ctx context.Context, userID int64, p pagination.Params) (*dto.SubscribedChannelListData, error) {
	subs, total, err := s.subs.ListChannels(ctx, userID, p)
	if err != nil {
		return nil, err
	}
	users := make([]model.User, 0, len(subs))
	for i := range subs {
		users = append(users, subs[i].Channel)
	}
	items, err := s.engagement.Channels(ctx, users, &userID)
	if err != nil {
		return nil, err
	}

	return &dto.SubscribedChannelListData{
		Meta:          p.Meta(total),
		Channels:      items,
		TotalChannels: total,
	}, nil
}
