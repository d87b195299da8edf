package service

import (
	"context"
	"strings"
	"time"

	"tourtube/internal/api/dto"
	infraKafka "tourtube/internal/infra/kafka"
	"tourtube/internal/model"
	"tourtube/internal/pagination"
	"tourtube/internal/repository"
	"tourtube/pkg/logger"

	"go.uber.org/zap"
)

type VideoService struct {
	videos     repository.VideoStore
	users      *UserService
	engagement *Engagement
	views      *ViewRecorder
	media      mediaHelper
	events     EventPublisher
	prober     DurationProber
	searcher   VideoSearcher
}

// NewVideoService searcher 为 nil 时搜索直接走数据库
func NewVideoService(
	store *repository.Store,
	users *UserService,
	engagement *Engagement,
	views *ViewRecorder,
	media MediaStore,
	events EventPublisher,
	prober DurationProber,
	searcher VideoSearcher,
) *VideoService {
	return &VideoService{
		videos:     store.Videos,
		users:      users,
		engagement: engagement,
		views:      views,
		media:      mediaHelper{store: media, events: events},
		events:     events,
		prober:     prober,
		searcher:   searcher,
	}
}

// List 视频列表：只返回已发布视频，userId 为观众本人时包含其未发布视频；带 query 时附带频道搜索
func (s *VideoService) List(ctx context.Context, req *dto.VideoListQuery, viewerID *int64) (*dto.VideoListData, error) {
	q := repository.VideoQuery{
		Search:        strings.TrimSpace(req.Query),
		OwnerID:       req.UserID,
		PublishedOnly: req.UserID == nil || viewerID == nil || *req.UserID != *viewerID,
		SortBy:        req.SortBy,
		SortDesc:      req.SortType != "asc",
		Page:          pagination.New(req.Page, req.Limit),
	}
	if q.SortBy == "" {
		q.SortBy = repository.SortByCreatedAt
	}

	videos, total, err := s.query(ctx, q)
	if err != nil {
		return nil, err
	}
	items, err := s.engagement.Videos(ctx, videos, viewerID)
	if err != nil {
		return nil, err
	}

	data := &dto.VideoListData{
		Meta:        q.Page.Meta(total),
		Videos:      items,
		TotalVideos: total,
	}
	if q.Search != "" {
		if data.Channels, err = s.users.SearchChannels(ctx, q.Search, viewerID); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// query 有搜索词且启用了搜索引擎时优先查索引，失败则降级到数据库
func (s *VideoService) query(ctx context.Context, q repository.VideoQuery) ([]model.Video, int64, error) {
	if q.Search != "" && s.searcher != nil {
		videos, total, err := s.searchIndex(ctx, q)
		if err == nil {
			return videos, total, nil
		}
		logger.FromContext(ctx).Warn("Search index query failed, fallback to DB", zap.Error(err))
	}
	return s.videos.List(ctx, q)
}

func (s *VideoService) searchIndex(ctx context.Context, q repository.VideoQuery) ([]model.Video, int64, error) {
	ids, total, err := s.searcher.SearchVideos(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	videos, err := s.videos.GetByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	return orderVideos(ids, videos, ownerFilter(q)), total, nil
}

// ownerFilter 索引结果按可见性过滤时使用的观众身份
func ownerFilter(q repository.VideoQuery) *int64 {
	if q.PublishedOnly {
		return nil
	}
	return q.OwnerID
}

// Publish 上传视频和封面并创建记录，写库失败时删除已上传的文件
func (s *VideoService) Publish(ctx context.Context, ownerID int64, req *dto.VideoPublishRequest, videoFile, thumbnail *FileUpload) (*dto.VideoInfo, error) {
	if videoFile == nil {
		return nil, ErrVideoFileRequired
	}
	if thumbnail == nil {
		return nil, ErrThumbnailRequired
	}

	duration := s.probe(ctx, videoFile)

	videoURL, err := s.media.upload(ctx, folderVideos, videoFile)
	if err != nil {
		return nil, err
	}
	thumbnailURL, err := s.media.upload(ctx, folderThumbnails, thumbnail)
	if err != nil {
		s.media.discard(ctx, videoURL)
		return nil, err
	}

	video := &model.Video{
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		VideoFile:   videoURL,
		Thumbnail:   thumbnailURL,
		Duration:    duration,
		IsPublished: true,
	}
	if err := s.videos.Create(ctx, video); err != nil {
		s.media.discard(ctx, videoURL, thumbnailURL)
		return nil, err
	}

	created, err := s.videos.GetByID(ctx, video.ID)
	if err != nil {
		return nil, notFoundAs(err, ErrVideoNotFound)
	}
	s.publish(ctx, infraKafka.VideoPublished, created)

	logger.FromContext(ctx).Info("Video published",
		zap.Int64("video_id", created.ID),
		zap.Int64("owner_id", ownerID),
		zap.Float64("duration", duration),
	)
	return s.engagement.Video(ctx, created, &ownerID)
}

// probe 读取时长失败只记录告警，时长记为 0
func (s *VideoService) probe(ctx context.Context, f *FileUpload) float64 {
	if s.prober == nil {
		return 0
	}
	r, err := f.Open()
	if err != nil {
		logger.FromContext(ctx).Warn("Open upload for probe failed", zap.Error(err))
		return 0
	}
	defer r.Close()

	duration, err := s.prober.Duration(ctx, r)
	if err != nil {
		logger.FromContext(ctx).Warn("Probe video failed", zap.String("file", f.Filename), zap.Error(err))
		return 0
	}
	return duration
}

// Get 获取视频详情并记录一次播放；未发布的视频对非作者不可见
func (s *VideoService) Get(ctx context.Context, videoID int64, viewerID *int64, remoteAddr string) (*dto.VideoInfo, error) {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, notFoundAs(err, ErrVideoNotFound)
	}
	if !visibleTo(video, viewerID) {
		return nil, ErrVideoNotFound
	}

	counted, err := s.views.Record(ctx, videoID, viewerID, remoteAddr)
	if err != nil {
		return nil, err
	}
	if counted {
		if video, err = s.videos.GetByID(ctx, videoID); err != nil {
			return nil, notFoundAs(err, ErrVideoNotFound)
		}
		s.publish(ctx, infraKafka.VideoViewed, video)
	}

	return s.engagement.Video(ctx, video, viewerID)
}

// Update 修改标题、描述或封面（仅作者），替换封面后删除旧封面
func (s *VideoService) Update(ctx context.Context, videoID, actorID int64, req *dto.VideoUpdateRequest, thumbnail *FileUpload) (*dto.VideoInfo, error) {
	video, err := s.videos.GetByID(ctx, videoID)
	if err := authorize(video, err, actorID, ErrVideoNotFound, ErrVideoForbidden); err != nil {
		return nil, err
	}

	upd := repository.VideoUpdate{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		upd.Title = &title
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		upd.Description = &description
	}
	if upd.Title == nil && upd.Description == nil && thumbnail == nil {
		return nil, ErrNoFieldsToUpdate
	}

	var newThumbnail string
	if thumbnail != nil {
		if newThumbnail, err = s.media.upload(ctx, folderThumbnails, thumbnail); err != nil {
			return nil, err
		}
		upd.Thumbnail = &newThumbnail
	}

	updated, err := s.videos.Update(ctx, videoID, upd)
	if err != nil {
		s.media.discard(ctx, newThumbnail)
		return nil, notFoundAs(err, ErrVideoNotFound)
	}
	if newThumbnail != "" {
		s.media.remove(ctx, "replaced thumbnail", video.Thumbnail)
	}

	s.publish(ctx, infraKafka.VideoUpdated, updated)
	return s.engagement.Video(ctx, updated, &actorID)
}

// Delete 在一个事务中级联删除视频，提交后删除远程媒体
func (s *VideoService) Delete(ctx context.Context, videoID, actorID int64) error {
	video, err := s.videos.GetByID(ctx, videoID)
	if err := authorize(video, err, actorID, ErrVideoNotFound, ErrVideoForbidden); err != nil {
		return err
	}

	if err := s.videos.DeleteCascade(ctx, videoID); err != nil {
		return notFoundAs(err, ErrVideoNotFound)
	}

	s.media.remove(ctx, "video deleted", video.VideoFile, video.Thumbnail)
	s.publish(ctx, infraKafka.VideoDeleted, video)

	logger.FromContext(ctx).Info("Video deleted", zap.Int64("video_id", videoID), zap.Int64("owner_id", actorID))
	return nil
}

// TogglePublish 切换发布状态（仅作者）
func (s *VideoService) TogglePublish(ctx context.Context, videoID, actorID int64) (*dto.PublishStatusData, error) {
	video, err := s.videos.GetByID(ctx, videoID)
	if err := authorize(video, err, actorID, ErrVideoNotFound, ErrVideoForbidden); err != nil {
		return nil, err
	}

	updated, err := s.videos.TogglePublished(ctx, videoID)
	if err != nil {
		return nil, notFoundAs(err, ErrVideoNotFound)
	}
	s.publish(ctx, infraKafka.VideoUpdated, updated)

	return &dto.PublishStatusData{ID: updated.ID, IsPublished: updated.IsPublished}, nil
}

// publish 事件投递失败不影响请求结果
func (s *VideoService) publish(ctx context.Context, eventType string, v *model.Video) {
	event := &infraKafka.VideoEvent{
		Type:        eventType,
		VideoID:     v.ID,
		OwnerID:     v.OwnerID,
		Title:       v.Title,
		Description: v.Description,
		Duration:    v.Duration,
		Views:       v.Views,
		IsPublished: v.IsPublished,
		CreatedAt:   v.CreatedAt,
		OccurredAt:  time.Now(),
	}
	if err := s.events.PublishVideoEvent(ctx, event); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish video event",
			zap.String("type", eventType),
			zap.Int64("video_id", v.ID),
			zap.Error(err),
		)
	}
}
