package service

import (
	"context"

	"tourtube/internal/api/dto"
	"tourtube/internal/pagination"
	"tourtube/internal/repository"
)

type DashboardService struct {
	videos     repository.VideoStore
	subs       repository.SubscriptionStore
	engagement *Engagement
}

func NewDashboardService(store *repository.Store, engagement *Engagement) *DashboardService {
	return &DashboardService{videos: store.Videos, subs: store.Subscriptions, engagement: engagement}
}

// Stats 频道统计：视频数、总播放量、订阅数、视频获赞数
func (s *DashboardService) Stats(ctx context.Context, userID int64) (*dto.ChannelStats, error) {
	stats, err := s.videos.ChannelStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	subscribers, err := s.subs.CountSubscribers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.ChannelStats{
		TotalVideos:      stats.TotalVideos,
		TotalViews:       stats.TotalViews,
		TotalSubscribers: subscribers,
		TotalLikes:       stats.TotalLikes,
	}, nil
}

// Videos 频道的全部视频（含未发布），按创建时间倒序
func (s *DashboardService) Videos(ctx context.Context, userID int64, p pagination.Params) (*dto.VideoListData, error) {
	videos, total, err := s.videos.List(ctx, repository.VideoQuery{
		OwnerID:  &userID,
		SortBy:   repository.SortByCreatedAt,
		SortDesc: true,
		Page:     p,
	})
	if err != nil {
		return nil, err
	}
	items, err := s.engagement.Videos(ctx, videos, &userID)
	if err != nil {
		return nil, err
	}
	return &dto.VideoListData{
		Meta:        p.Meta(total),
		Videos:      items,
		TotalVideos: total,
	}, nil
}
