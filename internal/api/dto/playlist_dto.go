package dto

import (
	"time"

	"tourtube/internal/pagination"
)

// PlaylistCreateRequest 创建播放列表
type PlaylistCreateRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}

// PlaylistUpdateRequest 更新播放列表，至少修改一个字段
type PlaylistUpdateRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// PlaylistInfo 播放列表；Videos 仅在详情接口中填充
type PlaylistInfo struct {
	ID          int64       `json:"_id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Owner       int64       `json:"owner"`
	VideoIDs    []int64     `json:"videoIds"`
	TotalVideos int         `json:"totalVideos"`
	Videos      []VideoInfo `json:"videos,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// PlaylistListData 播放列表分页
type PlaylistListData struct {
	pagination.Meta
	Playlists      []PlaylistInfo `json:"playlists"`
	TotalPlaylists int64          `json:"totalPlaylists"`
}
