package repository

import (
	"context"
	"time"

	"tourtube/internal/model"
	"tourtube/internal/pagination"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type PlaylistRepository struct {
	db *gorm.DB
}

func NewPlaylistRepository(db *gorm.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

func (r *PlaylistRepository) Create(ctx context.Context, playlist *model.Playlist) error {
	if playlist.Videos == nil {
		playlist.Videos = pq.Int64Array{}
	}
	return translate(r.db.WithContext(ctx).Create(playlist).Error)
}

func (r *PlaylistRepository) GetByID(ctx context.Context, id int64) (*model.Playlist, error) {
	var playlist model.Playlist
	if err := r.db.WithContext(ctx).First(&playlist, id).Error; err != nil {
		return nil, translate(err)
	}
	return &playlist, nil
}

// ListByOwner 用户的播放列表，按创建时间倒序
func (r *PlaylistRepository) ListByOwner(ctx context.Context, ownerID int64, p pagination.Params) ([]model.Playlist, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Playlist{}).Where("owner_id = ?", ownerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var playlists []model.Playlist
	err := query.Order("created_at DESC, id DESC").Scopes(p.Scope()).Find(&playlists).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return playlists, total, nil
}

func (r *PlaylistRepository) Update(ctx context.Context, id int64, upd PlaylistUpdate) (*model.Playlist, error) {
	updates := map[string]interface{}{}
	if upd.Name != nil {
		updates["name"] = *upd.Name
	}
	if upd.Description != nil {
		updates["description"] = *upd.Description
	}
	if len(updates) == 0 {
		return r.GetByID(ctx, id)
	}

	result := r.db.WithContext(ctx).Model(&model.Playlist{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *PlaylistRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Playlist{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddVideo 单条条件更新，视频已在列表中时不影响任何行
func (r *PlaylistRepository) AddVideo(ctx context.Context, id, videoID int64) (bool, error) {
	result := r.db.WithContext(ctx).Exec(
		"UPDATE playlists SET videos = array_append(videos, ?), updated_at = ? WHERE id = ? AND NOT (? = ANY(videos))",
		videoID, time.Now(), id, videoID,
	)
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// RemoveVideo 单条条件更新，视频不在列表中时不影响任何行
func (r *PlaylistRepository) RemoveVideo(ctx context.Context, id, videoID int64) (bool, error) {
	result := r.db.WithContext(ctx).Exec(
		"UPDATE playlists SET videos = array_remove(videos, ?), updated_at = ? WHERE id = ? AND ? = ANY(videos)",
		videoID, time.Now(), id, videoID,
	)
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}
