package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"tourtube/internal/config"
	"tourtube/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// 配置中的 topic 键
const (
	TopicVideoEvents  = "video_events"
	TopicMediaCleanup = "media_cleanup"
)

// 视频事件类型
const (
	VideoPublished = "video.published"
	VideoUpdated   = "video.updated"
	VideoDeleted   = "video.deleted"
	VideoViewed    = "video.viewed"
)

// VideoEvent 视频领域事件，携带搜索索引需要的字段
type VideoEvent struct {
	Type        string    `json:"type"`
	VideoID     int64     `json:"video_id"`
	OwnerID     int64     `json:"owner_id"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Duration    float64   `json:"duration,omitempty"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// MediaCleanupTask 同步删除失败的远程媒体，由 worker 重试
type MediaCleanupTask struct {
	URLs    []string `json:"urls"`
	Attempt int      `json:"attempt"`
	Reason  string   `json:"reason,omitempty"`
}

// Producer Kafka 生产者
type Producer struct {
	writer      *kafka.Writer
	videoTopic  string
	deleteTopic string
}

// NewProducer 初始化 Kafka 生产者，topic 由消息指定
func NewProducer(cfg *config.KafkaConfig) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	logger.Info("Kafka producer initialized",
		zap.Strings("brokers", cfg.Brokers),
	)

	return &Producer{
		writer:      writer,
		videoTopic:  cfg.Topic(TopicVideoEvents),
		deleteTopic: cfg.Topic(TopicMediaCleanup),
	}
}

// PublishVideoEvent 同一视频的事件使用相同 key，保证分区内有序
func (p *Producer) PublishVideoEvent(ctx context.Context, event *VideoEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	return p.send(ctx, p.videoTopic, "video-"+strconv.FormatInt(event.VideoID, 10), event)
}

// EnqueueMediaCleanup 投递媒体清理任务
func (p *Producer) EnqueueMediaCleanup(ctx context.Context, task *MediaCleanupTask) error {
	return p.send(ctx, p.deleteTopic, "", task)
}

func (p *Producer) send(ctx context.Context, topic, key string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal kafka message: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Value: payload,
	}
	if key != "" {
		msg.Key = []byte(key)
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to send kafka message to %s: %w", topic, err)
	}
	return nil
}

// Close 关闭生产者
func (p *Producer) Close() error {
	logger.Info("Kafka producer closed")
	return p.writer.Close()
}
