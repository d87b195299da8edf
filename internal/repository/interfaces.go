package repository

import (
	"context"
	"time"

	"tourtube/internal/model"
	"tourtube/internal/pagination"
)

// UserUpdate 用户可更新字段，nil 表示不修改
type UserUpdate struct {
	FullName   *string
	Email      *string
	Avatar     *string
	CoverImage *string
	Password   *string
}

// VideoUpdate 视频可更新字段，nil 表示不修改
type VideoUpdate struct {
	Title       *string
	Description *string
	Thumbnail   *string
}

// PlaylistUpdate 播放列表可更新字段
type PlaylistUpdate struct {
	Name        *string
	Description *string
}

// 视频列表支持的排序字段
const (
	SortByCreatedAt = "createdAt"
	SortByViews     = "views"
	SortByDuration  = "duration"
	SortByTitle     = "title"
)

// VideoQuery 视频列表查询条件
type VideoQuery struct {
	// Search 标题子串匹配（不区分大小写）
	Search        string
	OwnerID       *int64
	PublishedOnly bool
	SortBy        string
	SortDesc      bool
	Page          pagination.Params
}

// ChannelStats 频道统计
type ChannelStats struct {
	TotalVideos int64
	TotalViews  int64
	TotalLikes  int64
}

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByIDs(ctx context.Context, ids []int64) ([]model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error)
	Update(ctx context.Context, id int64, upd UserUpdate) (*model.User, error)
	SetRefreshToken(ctx context.Context, id int64, token string) error
	Search(ctx context.Context, query string, limit int) ([]model.User, error)
	AddToWatchHistory(ctx context.Context, userID, videoID int64) error
}

type VideoStore interface {
	Create(ctx context.Context, video *model.Video) error
	GetByID(ctx context.Context, id int64) (*model.Video, error)
	GetByIDs(ctx context.Context, ids []int64) ([]model.Video, error)
	List(ctx context.Context, q VideoQuery) ([]model.Video, int64, error)
	Update(ctx context.Context, id int64, upd VideoUpdate) (*model.Video, error)
	TogglePublished(ctx context.Context, id int64) (*model.Video, error)
	// DeleteCascade 删除视频及其评论、评论点赞、视频点赞、播放记录，并从播放列表和观看历史中移除
	DeleteCascade(ctx context.Context, id int64) error
	ChannelStats(ctx context.Context, ownerID int64) (ChannelStats, error)
}

type CommentStore interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id int64) (*model.Comment, error)
	UpdateContent(ctx context.Context, id int64, content string) (*model.Comment, error)
	DeleteCascade(ctx context.Context, id int64) error
	ListByVideo(ctx context.Context, videoID int64, p pagination.Params) ([]model.Comment, int64, error)
	CountByVideos(ctx context.Context, videoIDs []int64) (map[int64]int64, error)
}

type TweetStore interface {
	Create(ctx context.Context, tweet *model.Tweet) error
	GetByID(ctx context.Context, id int64) (*model.Tweet, error)
	UpdateContent(ctx context.Context, id int64, content string) (*model.Tweet, error)
	DeleteCascade(ctx context.Context, id int64) error
	// List ownerID 为 nil 时返回全部动态
	List(ctx context.Context, ownerID *int64, p pagination.Params) ([]model.Tweet, int64, error)
}

type LikeStore interface {
	// Toggle 已点赞则取消，否则点赞；返回切换后的状态
	Toggle(ctx context.Context, target model.LikeTarget, likerID int64) (bool, error)
	Count(ctx context.Context, target model.LikeTarget) (int64, error)
	CountByTargets(ctx context.Context, kind model.LikeKind, ids []int64) (map[int64]int64, error)
	LikedBy(ctx context.Context, kind model.LikeKind, ids []int64, likerID int64) (map[int64]bool, error)
	ListLikedVideoIDs(ctx context.Context, likerID int64, p pagination.Params) ([]int64, int64, error)
}

type PlaylistStore interface {
	Create(ctx context.Context, playlist *model.Playlist) error
	GetByID(ctx context.Context, id int64) (*model.Playlist, error)
	ListByOwner(ctx context.Context, ownerID int64, p pagination.Params) ([]model.Playlist, int64, error)
	Update(ctx context.Context, id int64, upd PlaylistUpdate) (*model.Playlist, error)
	Delete(ctx context.Context, id int64) error
	// AddVideo 已存在时不修改，返回是否新增
	AddVideo(ctx context.Context, id, videoID int64) (bool, error)
	// RemoveVideo 不存在时不修改，返回是否移除
	RemoveVideo(ctx context.Context, id, videoID int64) (bool, error)
}

type SubscriptionStore interface {
	// Toggle 已订阅则取消，否则订阅；返回切换后的状态
	Toggle(ctx context.Context, subscriberID, channelID int64) (bool, error)
	IsSubscribed(ctx context.Context, subscriberID, channelID int64) (bool, error)
	CountSubscribers(ctx context.Context, channelID int64) (int64, error)
	CountSubscribedTo(ctx context.Context, subscriberID int64) (int64, error)
	CountSubscribersByChannels(ctx context.Context, channelIDs []int64) (map[int64]int64, error)
	SubscribedChannels(ctx context.Context, subscriberID int64, channelIDs []int64) (map[int64]bool, error)
	// ListSubscribers 返回的记录预加载 Subscriber
	ListSubscribers(ctx context.Context, channelID int64, p pagination.Params) ([]model.Subscription, int64, error)
	// ListChannels 返回的记录预加载 Channel
	ListChannels(ctx context.Context, subscriberID int64, p pagination.Params) ([]model.Subscription, int64, error)
}

type ViewStore interface {
	// Record 在 (videoID, viewerKey) 没有窗口期内记录时写入标记并给视频播放量 +1，返回是否计数
	Record(ctx context.Context, videoID int64, viewerKey string, now time.Time, window time.Duration) (bool, error)
	PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// Store 聚合全部仓储
type Store struct {
	Users         UserStore
	Videos        VideoStore
	Comments      CommentStore
	Tweets        TweetStore
	Likes         LikeStore
	Playlists     PlaylistStore
	Subscriptions SubscriptionStore
	Views         ViewStore
}
