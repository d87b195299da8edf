package service

import (
	"context"
	"strings"

	"tourtube/internal/api/dto"
	"tourtube/internal/model"
	"tourtube/internal/pagination"
	"tourtube/internal/repository"
)

type TweetService struct {
	tweets     repository.TweetStore
	users      repository.UserStore
	engagement *Engagement
}

func NewTweetService(store *repository.Store, engagement *Engagement) *TweetService {
	return &TweetService{tweets: store.Tweets, users: store.Users, engagement: engagement}
}

// Create 发布动态
func (s *TweetService) Create(ctx context.Context, userID int64, content string) (*dto.TweetInfo, error) {
	tweet := &model.Tweet{Content: strings.TrimSpace(content), OwnerID: userID}
	if err := s.tweets.Create(ctx, tweet); err != nil {
		return nil, err
	}
	return s.one(ctx, tweet, userID)
}

// List 全部动态，按发布时间倒序
func (s *TweetService) List(ctx context.Context, p pagination.Params, viewerID *int64) (*dto.TweetListData, error) {
	return s.list(ctx, nil, p, viewerID)
}

// ListByUser 某个用户的动态
func (s *TweetService) ListByUser(ctx context.Context, userID int64, p pagination.Params, viewerID *int64) (*dto.TweetListData, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	return s.list(ctx, &userID, p, viewerID)
}

func (s *TweetService) list(ctx context.Context, ownerID *int64, p pagination.Params, viewerID *int64) (*dto.TweetListData, error) {
	tweets, total, err := s.tweets.List(ctx, ownerID, p)
	if err != nil {
		return nil, err
	}
	items, err := s.engagement.Tweets(ctx, tweets, viewerID)
	if err != nil {
		return nil, err
	}
	return &dto.TweetListData{
		Meta:        p.Meta(total),
		Tweets:      items,
		TotalTweets: total,
	}, nil
}

// Update 修改动态（仅作者）
func (s *TweetService) Update(ctx context.Context, tweetID, userID int64, content string) (*dto.TweetInfo, error) {
	tweet, err := s.tweets.GetByID(ctx, tweetID)
	if err := authorize(tweet, err, userID, ErrTweetNotFound, ErrTweetForbidden); err != nil {
		return nil, err
	}

	updated, err := s.tweets.UpdateContent(ctx, tweetID, strings.TrimSpace(content))
	if err != nil {
		return nil, notFoundAs(err, ErrTweetNotFound)
	}
	return s.one(ctx, updated, userID)
}

// Delete 删除动态及其点赞（仅作者）
func (s *TweetService) Delete(ctx context.Context, tweetID, userID int64) error {
	tweet, err := s.tweets.GetByID(ctx, tweetID)
	if err := authorize(tweet, err, userID, ErrTweetNotFound, ErrTweetForbidden); err != nil {
		return err
	}
	return notFoundAs(s.tweets.DeleteCascade(ctx, tweetID), ErrTweetNotFound)
}

func (s *TweetService) one(ctx context.Context, tweet *model.Tweet, viewerID int64) (*dto.TweetInfo, error) {
	items, err := s.engagement.Tweets(ctx, []model.Tweet{*tweet}, &viewerID)
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}
