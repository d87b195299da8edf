package repository

import (
	"context"
	"database/sql"
	"time"

	"tourtube/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// txRunner 在可串行化事务中执行 fn，遇到序列化冲突或死锁时按退避重试
type txRunner struct {
	db          *gorm.DB
	maxAttempts int
}

func (t txRunner) run(ctx context.Context, fn func(tx *gorm.DB) error) error {
	attempts := t.maxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = t.db.WithContext(ctx).Transaction(fn, &sql.TxOptions{Isolation: sql.LevelSerializable})
		if err == nil || !isRetryable(err) {
			return err
		}

		logger.Debug("Retrying serializable transaction", zap.Int("attempt", attempt), zap.Error(err))

		backoff := time.Duration(attempt*attempt) * 10 * time.Millisecond
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return err
}
