package model

import "time"

// Tweet 动态模型
type Tweet struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:动态ID" json:"id"`
	Content   string    `gorm:"size:280;not null;comment:动态内容" json:"content"`
	OwnerID   int64     `gorm:"not null;index:idx_tweets_owner_created,priority:1;comment:发布者ID" json:"owner"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_tweets_owner_created,priority:2;index:idx_tweets_created_at;comment:发布时间" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updatedAt"`

	Owner User `gorm:"foreignKey:OwnerID" json:"-"`
}

func (Tweet) TableName() string {
	return "tweets"
}

func (t *Tweet) GetOwnerID() int64 { return t.OwnerID }
