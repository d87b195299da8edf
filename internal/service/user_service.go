package service

import (
	"context"
	"errors"
	"strings"

	"tourtube/internal/api/dto"
	"tourtube/internal/apperr"
	"tourtube/internal/repository"
)

// 频道搜索结果上限，与视频分页无关
const channelSearchLimit = 12

type UserService struct {
	users      repository.UserStore
	videos     repository.VideoStore
	subs       repository.SubscriptionStore
	engagement *Engagement
	media      mediaHelper
}

func NewUserService(store *repository.Store, engagement *Engagement, media MediaStore, events EventPublisher) *UserService {
	return &UserService{
		users:      store.Users,
		videos:     store.Videos,
		subs:       store.Subscriptions,
		engagement: engagement,
		media:      mediaHelper{store: media, events: events},
	}
}

// Current 当前登录用户
func (s *UserService) Current(ctx context.Context, userID int64) (*dto.UserInfo, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	info := toUserInfo(user)
	return &info, nil
}

// UpdateAccount 更新昵称和邮箱，邮箱被占用返回冲突
func (s *UserService) UpdateAccount(ctx context.Context, userID int64, req *dto.UpdateAccountRequest) (*dto.UserInfo, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.Update(ctx, userID, repository.UserUpdate{FullName: &fullName, Email: &email})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUserExists
		}
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	info := toUserInfo(user)
	return &info, nil
}

// UpdateAvatar 上传新头像，成功后删除旧头像
func (s *UserService) UpdateAvatar(ctx context.Context, userID int64, file *FileUpload) (*dto.UserInfo, error) {
	if file == nil {
		return nil, ErrAvatarRequired
	}
	return s.replaceImage(ctx, userID, folderAvatars, file, func(url string) repository.UserUpdate {
		return repository.UserUpdate{Avatar: &url}
	})
}

// UpdateCoverImage 上传新封面，成功后删除旧封面
func (s *UserService) UpdateCoverImage(ctx context.Context, userID int64, file *FileUpload) (*dto.UserInfo, error) {
	if file == nil {
		return nil, ErrCoverImageRequired
	}
	return s.replaceImage(ctx, userID, folderCovers, file, func(url string) repository.UserUpdate {
		return repository.UserUpdate{CoverImage: &url}
	})
}

func (s *UserService) replaceImage(ctx context.Context, userID int64, folder string, file *FileUpload, update func(string) repository.UserUpdate) (*dto.UserInfo, error) {
	before, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}

	newURL, err := s.media.upload(ctx, folder, file)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Update(ctx, userID, update(newURL))
	if err != nil {
		s.media.discard(ctx, newURL)
		return nil, notFoundAs(err, ErrUserNotFound)
	}

	oldURL := before.Avatar
	if folder == folderCovers {
		oldURL = before.CoverImage
	}
	s.media.remove(ctx, "replaced "+folder, oldURL)

	info := toUserInfo(user)
	return &info, nil
}

// ChannelProfile 频道主页：订阅数、订阅了多少频道、当前观众是否已订阅
func (s *UserService) ChannelProfile(ctx context.Context, username string, viewerID *int64) (*dto.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, apperr.Validation("username is missing")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFoundAs(err, ErrChannelNotFound)
	}

	subscribers, err := s.subs.CountSubscribers(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	subscribedTo, err := s.subs.CountSubscribedTo(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	var isSubscribed bool
	if viewerID != nil {
		if isSubscribed, err = s.subs.IsSubscribed(ctx, *viewerID, user.ID); err != nil {
			return nil, err
		}
	}

	profile := &dto.ChannelProfile{
		ID:                        user.ID,
		Username:                  user.Username,
		FullName:                  user.FullName,
		Avatar:                    user.Avatar,
		CoverImage:                user.CoverImage,
		SubscribersCount:          subscribers,
		ChannelsSubscribedToCount: subscribedTo,
		IsSubscribed:              isSubscribed,
	}
	if viewerID != nil && *viewerID == user.ID {
		profile.Email = user.Email
	}
	return profile, nil
}

// WatchHistory 观看历史，最近加入的在前；已删除或不可见的视频被跳过
func (s *UserService) WatchHistory(ctx context.Context, userID int64) ([]dto.VideoInfo, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}

	ids := make([]int64, 0, len(user.WatchHistory))
	for i := len(user.WatchHistory) - 1; i >= 0; i-- {
		ids = append(ids, user.WatchHistory[i])
	}
	videos, err := s.videos.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.engagement.Videos(ctx, orderVideos(ids, videos, &userID), &userID)
}

// SearchChannels 按用户名或昵称搜索频道
func (s *UserService) SearchChannels(ctx context.Context, query string, viewerID *int64) ([]dto.ChannelSnippet, error) {
	users, err := s.users.Search(ctx, query, channelSearchLimit)
	if err != nil {
		return nil, err
	}
	return s.engagement.Channels(ctx, users, viewerID)
}
