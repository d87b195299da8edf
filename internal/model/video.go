package model

import "time"

// Video 视频模型
type Video struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;comment:视频标识" json:"id"`
	OwnerID     int64     `gorm:"not null;index:idx_videos_owner_id;comment:视频作者ID" json:"owner"`
	Title       string    `gorm:"size:200;not null;index:idx_videos_title;comment:视频标题" json:"title"`
	Description string    `gorm:"type:text;comment:视频描述" json:"description"`
	VideoFile   string    `gorm:"size:500;not null;comment:视频文件地址" json:"videoFile"`
	Thumbnail   string    `gorm:"size:500;not null;comment:封面地址" json:"thumbnail"`
	Duration    float64   `gorm:"not null;default:0;comment:视频时长（秒）" json:"duration"`
	Views       int64     `gorm:"not null;default:0;comment:去重后的播放量" json:"views"`
	IsPublished bool      `gorm:"not null;default:true;index:idx_videos_published;comment:是否发布" json:"isPublished"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_videos_created_at;comment:创建时间" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updatedAt"`

	// 关联关系
	Owner User `gorm:"foreignKey:OwnerID" json:"-"`
}

func (Video) TableName() string {
	return "videos"
}

func (v *Video) GetOwnerID() int64 { return v.OwnerID }
