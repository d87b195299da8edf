package dto

import (
	"time"

	"tourtube/internal/pagination"
)

// VideoListQuery 视频列表查询参数
type VideoListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1"`
	Query    string `form:"query" binding:"omitempty,max=200"`
	SortBy   string `form:"sortBy" binding:"omitempty,oneof=createdAt views duration title"`
	SortType string `form:"sortType" binding:"omitempty,oneof=asc desc"`
	UserID   *int64 `form:"userId" binding:"omitempty,min=1"`
}

// VideoPublishRequest 视频发布请求（multipart/form-data，videoFile/thumbnail 为文件字段）
type VideoPublishRequest struct {
	Title       string `form:"title" binding:"required,min=1,max=200"`
	Description string `form:"description" binding:"required,max=5000"`
}

// VideoUpdateRequest 视频更新请求，thumbnail 为可选文件字段
type VideoUpdateRequest struct {
	Title       *string `form:"title" binding:"omitempty,min=1,max=200"`
	Description *string `form:"description" binding:"omitempty,max=5000"`
}

// VideoInfo 视频详情
type VideoInfo struct {
	ID            int64        `json:"_id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	VideoFile     string       `json:"videoFile"`
	Thumbnail     string       `json:"thumbnail"`
	Duration      float64      `json:"duration"`
	Views         int64        `json:"views"`
	IsPublished   bool         `json:"isPublished"`
	Owner         OwnerSnippet `json:"owner"`
	LikesCount    int64        `json:"likesCount"`
	CommentsCount int64        `json:"commentsCount"`
	IsLiked       bool         `json:"isLiked"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// VideoListData 视频列表响应数据，带 query 时附带频道搜索结果
type VideoListData struct {
	pagination.Meta
	Videos      []VideoInfo      `json:"videos"`
	TotalVideos int64            `json:"totalVideos"`
	Channels    []ChannelSnippet `json:"channels,omitempty"`
}

// PublishStatusData 切换发布状态后的结果
type PublishStatusData struct {
	ID          int64 `json:"_id"`
	IsPublished bool  `json:"isPublished"`
}
