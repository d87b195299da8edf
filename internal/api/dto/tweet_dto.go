package dto

import (
	"time"

	"tourtube/internal/pagination"
)

// TweetRequest 发布/修改动态
type TweetRequest struct {
	Content string `json:"content" binding:"required,min=1,max=280"`
}

// TweetInfo 动态详情
type TweetInfo struct {
	ID         int64        `json:"_id"`
	Content    string       `json:"content"`
	Owner      OwnerSnippet `json:"owner"`
	LikesCount int64        `json:"likesCount"`
	IsLiked    bool         `json:"isLiked"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// TweetListData 动态列表
type TweetListData struct {
	pagination.Meta
	Tweets      []TweetInfo `json:"tweets"`
	TotalTweets int64       `json:"totalTweets"`
}
