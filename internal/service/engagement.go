package service

import (
	"context"

	"tourtube/internal/api/dto"
	"tourtube/internal/model"
	"tourtube/internal/repository"
)

// Engagement 读取时聚合点赞数、评论数、订阅数以及针对当前观众的 isLiked / isSubscribed
// 每种计数对整页只发一条分组查询
type Engagement struct {
	likes    repository.LikeStore
	comments repository.CommentStore
	subs     repository.SubscriptionStore
}

func NewEngagement(store *repository.Store) *Engagement {
	return &Engagement{likes: store.Likes, comments: store.Comments, subs: store.Subscriptions}
}

// ownerSnippet email 只对本人返回
func ownerSnippet(u *model.User, viewerID *int64) dto.OwnerSnippet {
	s := dto.OwnerSnippet{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Avatar:   u.Avatar,
	}
	if viewerID != nil && *viewerID == u.ID {
		s.Email = u.Email
	}
	return s
}

func toUserInfo(u *model.User) dto.UserInfo {
	return dto.UserInfo{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     u.Avatar,
		CoverImage: u.CoverImage,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// likeStats 批量查询点赞数以及观众是否点赞，匿名观众不发第二条查询
func (e *Engagement) likeStats(ctx context.Context, kind model.LikeKind, ids []int64, viewerID *int64) (map[int64]int64, map[int64]bool, error) {
	counts, err := e.likes.CountByTargets(ctx, kind, ids)
	if err != nil {
		return nil, nil, err
	}
	liked := map[int64]bool{}
	if viewerID != nil && len(ids) > 0 {
		liked, err = e.likes.LikedBy(ctx, kind, ids, *viewerID)
		if err != nil {
			return nil, nil, err
		}
	}
	return counts, liked, nil
}

// Videos 视频需要预加载 Owner
func (e *Engagement) Videos(ctx context.Context, videos []model.Video, viewerID *int64) ([]dto.VideoInfo, error) {
	items := make([]dto.VideoInfo, 0, len(videos))
	if len(videos) == 0 {
		return items, nil
	}

	ids := make([]int64, len(videos))
	for i := range videos {
		ids[i] = videos[i].ID
	}

	likeCounts, liked, err := e.likeStats(ctx, model.LikeVideo, ids, viewerID)
	if err != nil {
		return nil, err
	}
	commentCounts, err := e.comments.CountByVideos(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range videos {
		v := &videos[i]
		items = append(items, dto.VideoInfo{
			ID:            v.ID,
			Title:         v.Title,
			Description:   v.Description,
			VideoFile:     v.VideoFile,
			Thumbnail:     v.Thumbnail,
			Duration:      v.Duration,
			Views:         v.Views,
			IsPublished:   v.IsPublished,
			Owner:         ownerSnippet(&v.Owner, viewerID),
			LikesCount:    likeCounts[v.ID],
			CommentsCount: commentCounts[v.ID],
			IsLiked:       liked[v.ID],
			CreatedAt:     v.CreatedAt,
			UpdatedAt:     v.UpdatedAt,
		})
	}
	return items, nil
}

// Video 单个视频的聚合
func (e *Engagement) Video(ctx context.Context, video *model.Video, viewerID *int64) (*dto.VideoInfo, error) {
	items, err := e.Videos(ctx, []model.Video{*video}, viewerID)
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (e *Engagement) Comments(ctx context.Context, comments []model.Comment, viewerID *int64) ([]dto.CommentInfo, error) {
	items := make([]dto.CommentInfo, 0, len(comments))
	if len(comments) == 0 {
		return items, nil
	}

	ids := make([]int64, len(comments))
	for i := range comments {
		ids[i] = comments[i].ID
	}
	counts, liked, err := e.likeStats(ctx, model.LikeComment, ids, viewerID)
	if err != nil {
		return nil, err
	}

	for i := range comments {
		c := &comments[i]
		items = append(items, dto.CommentInfo{
			ID:         c.ID,
			Content:    c.Content,
			Video:      c.VideoID,
			Owner:      ownerSnippet(&c.Owner, viewerID),
			LikesCount: counts[c.ID],
			IsLiked:    liked[c.ID],
			CreatedAt:  c.CreatedAt,
			UpdatedAt:  c.UpdatedAt,
		})
	}
	return items, nil
}

func (e *Engagement) Tweets(ctx context.Context, tweets []model.Tweet, viewerID *int64) ([]dto.TweetInfo, error) {
	items := make([]dto.TweetInfo, 0, len(tweets))
	if len(tweets) == 0 {
		return items, nil
	}

	ids := make([]int64, len(tweets))
	for i := range tweets {
		ids[i] = tweets[i].ID
	}
	counts, liked, err := e.likeStats(ctx, model.LikeTweet, ids, viewerID)
	if err != nil {
		return nil, err
	}

	for i := range tweets {
		t := &tweets[i]
		items = append(items, dto.TweetInfo{
			ID:         t.ID,
			Content:    t.Content,
			Owner:      ownerSnippet(&t.Owner, viewerID),
			LikesCount: counts[t.ID],
			IsLiked:    liked[t.ID],
			CreatedAt:  t.CreatedAt,
			UpdatedAt:  t.UpdatedAt,
		})
	}
	return items, nil
}

// Channels 频道订阅数与观众是否已订阅
func (e *Engagement) Channels(ctx context.Context, users []model.User, viewerID *int64) ([]dto.ChannelSnippet, error) {
	items := make([]dto.ChannelSnippet, 0, len(users))
	if len(users) == 0 {
		return items, nil
	}

	ids := make([]int64, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	counts, err := e.subs.CountSubscribersByChannels(ctx, ids)
	if err != nil {
		return nil, err
	}
	subscribed := map[int64]bool{}
	if viewerID != nil {
		subscribed, err = e.subs.SubscribedChannels(ctx, *viewerID, ids)
		if err != nil {
			return nil, err
		}
	}

	for i := range users {
		u := &users[i]
		items = append(items, dto.ChannelSnippet{
			ID:               u.ID,
			Username:         u.Username,
			FullName:         u.FullName,
			Avatar:           u.Avatar,
			SubscribersCount: counts[u.ID],
			IsSubscribed:     subscribed[u.ID],
		})
	}
	return items, nil
}

// visibleTo 未发布的视频只对作者可见
func visibleTo(v *model.Video, viewerID *int64) bool {
	return v.IsPublished || (viewerID != nil && *viewerID == v.OwnerID)
}

// orderVideos 按 ids 的顺序排列，过滤掉不存在或对观众不可见的视频
func orderVideos(ids []int64, videos []model.Video, viewerID *int64) []model.Video {
	byID := make(map[int64]*model.Video, len(videos))
	for i := range videos {
		byID[videos[i].ID] = &videos[i]
	}
	ordered := make([]model.Video, 0, len(ids))
	for _, id := range ids {
		if v, ok := byID[id]; ok && visibleTo(v, viewerID) {
			ordered = append(ordered, *v)
		}
	}
	return ordered
}
