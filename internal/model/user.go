package model

import (
	"time"

	"github.com/lib/pq"
)

// User 用户模型
type User struct {
	ID           int64         `gorm:"primaryKey;autoIncrement;comment:用户标识" json:"id"`
	Username     string        `gorm:"size:64;not null;uniqueIndex:uq_users_username;comment:用户名(小写)" json:"username"`
	Email        string        `gorm:"size:255;not null;uniqueIndex:uq_users_email;comment:邮箱(小写)" json:"email"`
	FullName     string        `gorm:"size:255;not null;index:idx_users_full_name;comment:昵称" json:"fullName"`
	Avatar       string        `gorm:"size:500;not null;comment:头像地址" json:"avatar"`
	CoverImage   string        `gorm:"size:500;comment:主页封面地址" json:"coverImage"`
	Password     string        `gorm:"size:255;not null;comment:密码哈希" json:"-"`
	RefreshToken string        `gorm:"size:1024;comment:当前有效的 refresh token" json:"-"`
	WatchHistory pq.Int64Array `gorm:"type:bigint[];not null;default:'{}';comment:观看历史(视频ID集合)" json:"-"`
	CreatedAt    time.Time     `gorm:"autoCreateTime;comment:创建时间" json:"createdAt"`
	UpdatedAt    time.Time     `gorm:"autoUpdateTime;comment:更新时间" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
