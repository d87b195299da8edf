// Package worker 后台任务：同步搜索索引、重试远程媒体删除
package worker

import (
	"context"

	infraES "tourtube/internal/infra/elasticsearch"
	infraKafka "tourtube/internal/infra/kafka"
	"tourtube/internal/model"
	"tourtube/internal/pagination"
	"tourtube/internal/repository"
	"tourtube/pkg/logger"

	"go.uber.org/zap"
)

// VideoIndexer 搜索索引的写入
type VideoIndexer interface {
	Upsert(ctx context.Context, doc *infraES.VideoDoc) error
	Delete(ctx context.Context, videoID int64) error
	BulkUpsert(ctx context.Context, videos []model.Video) (success, failed int, err error)
}

// IndexSyncer 按视频事件更新搜索索引
type IndexSyncer struct {
	index VideoIndexer
}

func NewIndexSyncer(index VideoIndexer) *IndexSyncer {
	return &IndexSyncer{index: index}
}

// Handle 删除事件移除文档，其余事件整体覆盖文档
func (s *IndexSyncer) Handle(ctx context.Context, e *infraKafka.VideoEvent) error {
	if e.VideoID <= 0 {
		logger.Warn("Skipping video event without id", zap.String("type", e.Type))
		return nil
	}

	if e.Type == infraKafka.VideoDeleted {
		return s.index.Delete(ctx, e.VideoID)
	}

	return s.index.Upsert(ctx, &infraES.VideoDoc{
		ID:          e.VideoID,
		OwnerID:     e.OwnerID,
		Title:       e.Title,
		Description: e.Description,
		Duration:    e.Duration,
		Views:       e.Views,
		IsPublished: e.IsPublished,
		CreatedAt:   e.CreatedAt,
	})
}

// Reindex 从数据库分批全量重建索引
func (s *IndexSyncer) Reindex(ctx context.Context, videos repository.VideoStore, batchSize int) (int, error) {
	total := 0
	for page := 1; ; page++ {
		p := pagination.New(page, batchSize)
		batch, count, err := videos.List(ctx, repository.VideoQuery{
			SortBy: repository.SortByCreatedAt,
			Page:   p,
		})
		if err != nil {
			return total, err
		}
		if len(batch) == 0 {
			return total, nil
		}

		success, failed, err := s.index.BulkUpsert(ctx, batch)
		if err != nil {
			return total, err
		}
		total += success
		logger.Info("Reindexed batch",
			zap.Int("page", page),
			zap.Int("success", success),
			zap.Int("failed", failed),
			zap.Int64("total_videos", count),
		)

		if int64(p.Offset()+len(batch)) >= count {
			return total, nil
		}
	}
}
