package dto

import (
	"time"

	"tourtube/internal/pagination"
)

// CommentRequest 发表/修改评论
type CommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=2000"`
}

// CommentInfo 评论详情
type CommentInfo struct {
	ID         int64        `json:"_id"`
	Content    string       `json:"content"`
	Video      int64        `json:"video"`
	Owner      OwnerSnippet `json:"owner"`
	LikesCount int64        `json:"likesCount"`
	IsLiked    bool         `json:"isLiked"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// CommentListData 评论列表
type CommentListData struct {
	pagination.Meta
	Comments      []CommentInfo `json:"comments"`
	TotalComments int64         `json:"totalComments"`
}
