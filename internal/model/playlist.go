package model

import (
	"time"

	"github.com/lib/pq"
)

// Playlist 播放列表模型，Videos 保持插入顺序且不重复
type Playlist struct {
	ID          int64         `gorm:"primaryKey;autoIncrement;comment:播放列表ID" json:"id"`
	Name        string        `gorm:"size:200;not null;comment:名称" json:"name"`
	Description string        `gorm:"type:text;comment:描述" json:"description"`
	OwnerID     int64         `gorm:"not null;index:idx_playlists_owner_id;comment:创建者ID" json:"owner"`
	Videos      pq.Int64Array `gorm:"type:bigint[];not null;default:'{}';comment:视频ID列表" json:"videos"`
	CreatedAt   time.Time     `gorm:"autoCreateTime;comment:创建时间" json:"createdAt"`
	UpdatedAt   time.Time     `gorm:"autoUpdateTime;comment:更新时间" json:"updatedAt"`
}

func (Playlist) TableName() string {
	return "playlists"
}

func (p *Playlist) GetOwnerID() int64 { return p.OwnerID }
