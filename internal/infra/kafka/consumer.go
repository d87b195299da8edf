package kafka

import (
	"context"
	"encoding/json"
	"time"

	"tourtube/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Handler 处理一条解码后的消息
type Handler[T any] func(ctx context.Context, msg *T) error

// Consume 启动消费者（阻塞，需在 goroutine 中运行），ctx 取消后停止
// 解码失败的消息记录日志后跳过，处理失败只记录日志，重试由处理函数自行投递
func Consume[T any](ctx context.Context, brokers []string, topic, groupID string, handler Handler[T]) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		StartOffset:    kafka.FirstOffset,
	})

	defer func() {
		if err := reader.Close(); err != nil {
			logger.Error("Failed to close kafka consumer", zap.Error(err))
		}
		logger.Info("Kafka consumer stopped", zap.String("topic", topic))
	}()

	logger.Info("Kafka consumer started",
		zap.String("topic", topic),
		zap.String("group", groupID),
	)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("Failed to read kafka message", zap.String("topic", topic), zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		var payload T
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			logger.Error("Failed to unmarshal kafka message",
				zap.String("topic", topic),
				zap.Error(err),
				zap.ByteString("value", msg.Value),
			)
			continue
		}

		if err := handler(ctx, &payload); err != nil {
			logger.Error("Failed to handle kafka message",
				zap.String("topic", topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}
