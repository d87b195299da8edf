package model

import "time"

// VideoView 播放去重标记，同一 (视频, 观众) 在窗口期内只有一条有效记录
type VideoView struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	VideoID   int64     `gorm:"not null;uniqueIndex:uq_video_views_viewer,priority:1;comment:视频ID" json:"video"`
	ViewerKey string    `gorm:"size:128;not null;uniqueIndex:uq_video_views_viewer,priority:2;comment:观众标识(用户ID或IP)" json:"viewer"`
	ViewedAt  time.Time `gorm:"not null;index:idx_video_views_viewed_at;comment:最近一次计数时间" json:"viewedAt"`
}

func (VideoView) TableName() string {
	return "video_views"
}
