package service

import (
	"context"
	"strings"

	"tourtube/internal/api/dto"
	"tourtube/internal/model"
	"tourtube/internal/pagination"
	"tourtube/internal/repository"
)

type CommentService struct {
	comments   repository.CommentStore
	videos     repository.VideoStore
	engagement *Engagement
}

func NewCommentService(store *repository.Store, engagement *Engagement) *CommentService {
	return &CommentService{comments: store.Comments, videos: store.Videos, engagement: engagement}
}

// ListByVideo 视频评论列表，按创建时间倒序
func (s *CommentService) ListByVideo(ctx context.Context, videoID int64, p pagination.Params, viewerID *int64) (*dto.CommentListData, error) {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, notFoundAs(err, ErrVideoNotFound)
	}
	if !visibleTo(video, viewerID) {
		return nil, ErrVideoNotFound
	}

	comments, total, err := s.comments.ListByVideo(ctx, videoID, p)
	if err != nil {
		return nil, err
	}
	items, err := s.engagement.Comments(ctx, comments, viewerID)
	if err != nil {
		return nil, err
	}

	return &dto.CommentListData{
		Meta:          p.Meta(total),
		Comments:      items,
		TotalComments: total,
	}, nil
}

// Create 发表评论
func (s *CommentService) Create(ctx context.Context, videoID, userID int64, content string) (*dto.CommentInfo, error) {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, notFoundAs(err, ErrVideoNotFound)
	}
	if !visibleTo(video, &userID) {
		return nil, ErrVideoNotFound
	}

	comment := &model.Comment{
		Content: strings.TrimSpace(content),
		VideoID: videoID,
		OwnerID: userID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	items, err := s.engagement.Comments(ctx, []model.Comment{*comment}, &userID)
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// Update 修改评论内容（仅作者）
func (s *CommentService) Update(ctx context.Context, commentID, userID int64, content string) (*dto.CommentInfo, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err := authorize(comment, err, userID, ErrCommentNotFound, ErrCommentForbidden); err != nil {
		return nil, err
	}

	updated, err := s.comments.UpdateContent(ctx, commentID, strings.TrimSpace(content))
	if err != nil {
		return nil, notFoundAs(err, ErrCommentNotFound)
	}

	items, err := s.engagement.Comments(ctx, []model.Comment{*updated}, &userID)
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// Delete 删除评论及其点赞（仅作者）
func (s *CommentService) Delete(ctx context.Context, commentID, userID int64) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err := authorize(comment, err, userID, ErrCommentNotFound, ErrCommentForbidden); err != nil {
		return err
	}
	return notFoundAs(s.comments.DeleteCascade(ctx, commentID), ErrCommentNotFound)
}
