package model

import "time"

// Subscription 订阅关系模型
type Subscription struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;comment:订阅关系ID" json:"id"`
	SubscriberID int64     `gorm:"not null;uniqueIndex:uq_subscriptions_pair,priority:1;comment:订阅者ID" json:"subscriber"`
	ChannelID    int64     `gorm:"not null;uniqueIndex:uq_subscriptions_pair,priority:2;index:idx_subscriptions_channel_id;comment:被订阅频道ID" json:"channel"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index:idx_subscriptions_created_at;comment:订阅时间" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updatedAt"`

	Subscriber User `gorm:"foreignKey:SubscriberID" json:"-"`
	Channel    User `gorm:"foreignKey:ChannelID" json:"-"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
