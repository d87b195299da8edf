package service

import (
	"context"
	"strings"

	"tourtube/internal/api/dto"
	"tourtube/internal/model"
	"tourtube/internal/pagination"
	"tourtube/internal/repository"
)

type PlaylistService struct {
	playlists  repository.PlaylistStore
	videos     repository.VideoStore
	users      repository.UserStore
	engagement *Engagement
}

func NewPlaylistService(store *repository.Store, engagement *Engagement) *PlaylistService {
	return &PlaylistService{
		playlists:  store.Playlists,
		videos:     store.Videos,
		users:      store.Users,
		engagement: engagement,
	}
}

func toPlaylistInfo(p *model.Playlist) dto.PlaylistInfo {
	ids := make([]int64, len(p.Videos))
	copy(ids, p.Videos)
	return dto.PlaylistInfo{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Owner:       p.OwnerID,
		VideoIDs:    ids,
		TotalVideos: len(ids),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// Create 创建播放列表
func (s *PlaylistService) Create(ctx context.Context, ownerID int64, req *dto.PlaylistCreateRequest) (*dto.PlaylistInfo, error) {
	playlist := &model.Playlist{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		OwnerID:     ownerID,
	}
	if err := s.playlists.Create(ctx, playlist); err != nil {
		return nil, err
	}
	info := toPlaylistInfo(playlist)
	return &info, nil
}

// Get 播放列表详情，视频按列表顺序展开，只包含观众可见的视频
func (s *PlaylistService) Get(ctx context.Context, playlistID int64, viewerID *int64) (*dto.PlaylistInfo, error) {
	playlist, err := s.playlists.GetByID(ctx, playlistID)
	if err != nil {
		return nil, notFoundAs(err, ErrPlaylistNotFound)
	}

	videos, err := s.videos.GetByIDs(ctx, playlist.Videos)
	if err != nil {
		return nil, err
	}
	items, err := s.engagement.Videos(ctx, orderVideos(playlist.Videos, videos, viewerID), viewerID)
	if err != nil {
		return nil, err
	}

	info := toPlaylistInfo(playlist)
	info.Videos = items
	return &info, nil
}

// ListByUser 用户的播放列表，按创建时间倒序
func (s *PlaylistService) ListByUser(ctx context.Context, userID int64, p pagination.Params) (*dto.PlaylistListData, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}

	playlists, total, err := s.playlists.ListByOwner(ctx, userID, p)
	if err != nil {
		return nil, err
	}

	items := make([]dto.PlaylistInfo, 0, len(playlists))
	for i := range playlists {
		items = append(items, toPlaylistInfo(&playlists[i]))
	}
	return &dto.PlaylistListData{
		Meta:           p.Meta(total),
		Playlists:      items,
		TotalPlaylists: total,
	}, nil
}

// Update 修改名称或描述（仅创建者）
func (s *PlaylistService) Update(ctx context.Context, playlistID, userID int64, req *dto.PlaylistUpdateRequest) (*dto.PlaylistInfo, error) {
	playlist, err := s.playlists.GetByID(ctx, playlistID)
	if err := authorize(playlist, err, userID, ErrPlaylistNotFound, ErrPlaylistForbidden); err != nil {
		return nil, err
	}
	if req.Name == nil && req.Description == nil {
		return nil, ErrNoFieldsToUpdate
	}

	upd := repository.PlaylistUpdate{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		upd.Name = &name
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		upd.Description = &description
	}

	updated, err := s.playlists.Update(ctx, playlistID, upd)
	if err != nil {
		return nil, notFoundAs(err, ErrPlaylistNotFound)
	}
	info := toPlaylistInfo(updated)
	return &info, nil
}

// Delete 删除播放列表（仅创建者）
func (s *PlaylistService) Delete(ctx context.Context, playlistID, userID int64) error {
	playlist, err := s.playlists.GetByID(ctx, playlistID)
	if err := authorize(playlist, err, userID, ErrPlaylistNotFound, ErrPlaylistForbidden); err != nil {
		return err
	}
	return notFoundAs(s.playlists.Delete(ctx, playlistID), ErrPlaylistNotFound)
}

// AddVideo 加入视频，已在列表中时不做修改；返回最新的播放列表和是否新增
func (s *PlaylistService) AddVideo(ctx context.Context, playlistID, videoID, userID int64) (*dto.PlaylistInfo, bool, error) {
	playlist, err := s.playlists.GetByID(ctx, playlistID)
	if err := authorize(playlist, err, userID, ErrPlaylistNotFound, ErrPlaylistForbidden); err != nil {
		return nil, false, err
	}
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, false, notFoundAs(err, ErrVideoNotFound)
	}
	if !visibleTo(video, &userID) {
		return nil, false, ErrVideoNotFound
	}

	added, err := s.playlists.AddVideo(ctx, playlistID, videoID)
	if err != nil {
		return nil, false, err
	}
	return s.reload(ctx, playlistID, added)
}

// RemoveVideo 移除视频，不在列表中时不做修改
func (s *PlaylistService) RemoveVideo(ctx context.Context, playlistID, videoID, userID int64) (*dto.PlaylistInfo, bool, error) {
	playlist, err := s.playlists.GetByID(ctx, playlistID)
	if err := authorize(playlist, err, userID, ErrPlaylistNotFound, ErrPlaylistForbidden); err != nil {
		return nil, false, err
	}

	removed, err := s.playlists.RemoveVideo(ctx, playlistID, videoID)
	if err != nil {
		return nil, false, err
	}
	return s.reload(ctx, playlistID, removed)
}

func (s *PlaylistService) reload(ctx context.Context, playlistID int64, changed bool) (*dto.PlaylistInfo, bool, error) {
	playlist, err := s.playlists.GetByID(ctx, playlistID)
	if err != nil {
		return nil, false, notFoundAs(err, ErrPlaylistNotFound)
	}
	info := toPlaylistInfo(playlist)
	return &info, changed, nil
}
