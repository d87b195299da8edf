package service

import (
	"context"

	"tourtube/internal/api/dto"
	"tourtube/internal/model"
	"tourtube/internal/pagination"
	"tourtube/internal/repository"
)

type LikeService struct {
	likes      repository.LikeStore
	videos     repository.VideoStore
	comments   repository.CommentStore
	tweets     repository.TweetStore
	engagement *Engagement
}

func NewLikeService(store *repository.Store, engagement *Engagement) *LikeService {
	return &LikeService{
		likes:      store.Likes,
		videos:     store.Videos,
		comments:   store.Comments,
		tweets:     store.Tweets,
		engagement: engagement,
	}
}

// ToggleVideo 点赞/取消点赞视频
func (s *LikeService) ToggleVideo(ctx context.Context, videoID, userID int64) (*dto.LikeToggleData, error) {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, notFoundAs(err, ErrVideoNotFound)
	}
	if !visibleTo(video, &userID) {
		return nil, ErrVideoNotFound
	}
	return s.toggle(ctx, model.LikeTarget{Kind: model.LikeVideo, ID: videoID}, userID)
}

// ToggleComment 点赞/取消点赞评论
func (s *LikeService) ToggleComment(ctx context.Context, commentID, userID int64) (*dto.LikeToggleData, error) {
	if _, err := s.comments.GetByID(ctx, commentID); err != nil {
		return nil, notFoundAs(err, ErrCommentNotFound)
	}
	return s.toggle(ctx, model.LikeTarget{Kind: model.LikeComment, ID: commentID}, userID)
}

// ToggleTweet 点赞/取消点赞动态
func (s *LikeService) ToggleTweet(ctx context.Context, tweetID, userID int64) (*dto.LikeToggleData, error) {
	if _, err := s.tweets.GetByID(ctx, tweetID); err != nil {
		return nil, notFoundAs(err, ErrTweetNotFound)
	}
	return s.toggle(ctx, model.LikeTarget{Kind: model.LikeTweet, ID: tweetID}, userID)
}

// toggle 切换后重新统计点赞数，不在本地加减
func (s *LikeService) toggle(ctx context.Context, target model.LikeTarget, userID int64) (*dto.LikeToggleData, error) {
	liked, err := s.likes.Toggle(ctx, target, userID)
	if err != nil {
		return nil, err
	}
	count, err := s.likes.Count(ctx, target)
	if err != nil {
		return nil, err
	}
	return &dto.LikeToggleData{IsLiked: liked, LikesCount: count}, nil
}

// LikedVideos 用户点赞过的视频，按点赞时间倒序
func (s *LikeService) LikedVideos(ctx context.Context, userID int64, p pagination.Params) (*dto.VideoListData, error) {
	ids, total, err := s.likes.ListLikedVideoIDs(ctx, userID, p)
	if err != nil {
		return nil, err
	}
	videos, err := s.videos.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	items, err := s.engagement.Videos(ctx, orderVideos(ids, videos, &userID), &userID)
	if err != nil {
		return nil, err
	}

	return &dto.VideoListData{
		Meta:        p.Meta(total),
		Videos:      items,
		TotalVideos: total,
	}, nil
}
