package model

import (
	"fmt"
	"time"
)

// LikeKind 点赞目标类型
type LikeKind string

const (
	LikeVideo   LikeKind = "video"
	LikeComment LikeKind = "comment"
	LikeTweet   LikeKind = "tweet"
)

// Column 返回该类型在 likes 表中对应的外键列
func (k LikeKind) Column() string {
	switch k {
	case LikeVideo:
		return "video_id"
	case LikeComment:
		return "comment_id"
	case LikeTweet:
		return "tweet_id"
	}
	panic(fmt.Sprintf("unknown like kind %q", string(k)))
}

// LikeTarget 点赞目标
type LikeTarget struct {
	Kind LikeKind
	ID   int64
}

// Like 点赞模型，VideoID/CommentID/TweetID 有且只有一个非空
// (liked_by, 目标) 的唯一性由部分唯一索引保证，见 database.Migrate
type Like struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:点赞记录ID" json:"id"`
	VideoID   *int64    `gorm:"index:idx_likes_video_id;comment:被点赞视频ID" json:"video,omitempty"`
	CommentID *int64    `gorm:"index:idx_likes_comment_id;comment:被点赞评论ID" json:"comment,omitempty"`
	TweetID   *int64    `gorm:"index:idx_likes_tweet_id;comment:被点赞动态ID" json:"tweet,omitempty"`
	LikedBy   int64     `gorm:"not null;index:idx_likes_liked_by;comment:点赞用户ID" json:"likedBy"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_likes_created_at;comment:点赞时间" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updatedAt"`
}

func (Like) TableName() string {
	return "likes"
}

// NewLike 根据目标构造点赞记录
func NewLike(target LikeTarget, likedBy int64) *Like {
	id := target.ID
	l := &Like{LikedBy: likedBy}
	switch target.Kind {
	case LikeVideo:
		l.VideoID = &id
	case LikeComment:
		l.CommentID = &id
	case LikeTweet:
		l.TweetID = &id
	}
	return l
}

// Target 返回点赞记录指向的目标
func (l *Like) Target() LikeTarget {
	switch {
	case l.VideoID != nil:
		return LikeTarget{Kind: LikeVideo, ID: *l.VideoID}
	case l.CommentID != nil:
		return LikeTarget{Kind: LikeComment, ID: *l.CommentID}
	case l.TweetID != nil:
		return LikeTarget{Kind: LikeTweet, ID: *l.TweetID}
	}
	return LikeTarget{}
}
