package dto

import "time"

// UpdateAccountRequest 更新账户信息
type UpdateAccountRequest struct {
	FullName string `json:"fullName" binding:"required,min=1,max=255"`
	Email    string `json:"email" binding:"required,email,max=255"`
}

// UserInfo 当前用户信息（不含密码和 refresh token）
type UserInfo struct {
	ID         int64     `json:"_id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// OwnerSnippet 列表中嵌套的所有者信息，email 只对本人可见
type OwnerSnippet struct {
	ID       int64  `json:"_id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
	Email    string `json:"email,omitempty"`
}

// ChannelProfile 频道主页
type ChannelProfile struct {
	ID                        int64  `json:"_id"`
	Username                  string `json:"username"`
	FullName                  string `json:"fullName"`
	Avatar                    string `json:"avatar"`
	CoverImage                string `json:"coverImage"`
	Email                     string `json:"email,omitempty"`
	SubscribersCount          int64  `json:"subscribersCount"`
	ChannelsSubscribedToCount int64  `json:"channelsSubscribedToCount"`
	IsSubscribed              bool   `json:"isSubscribed"`
}

// ChannelSnippet 频道搜索结果、订阅列表中的频道
type ChannelSnippet struct {
	ID               int64  `json:"_id"`
	Username         string `json:"username"`
	FullName         string `json:"fullName"`
	Avatar           string `json:"avatar"`
	SubscribersCount int64  `json:"subscribersCount"`
	IsSubscribed     bool   `json:"isSubscribed"`
}
