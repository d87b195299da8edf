package database

import (
	"context"
	"fmt"
	"time"

	"tourtube/internal/config"
	"tourtube/internal/model"
	"tourtube/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// likeIndexes 每种点赞目标一个部分唯一索引，保证同一用户对同一目标最多一条点赞
var likeIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_likes_video ON likes (liked_by, video_id) WHERE video_id IS NOT NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_likes_comment ON likes (liked_by, comment_id) WHERE comment_id IS NOT NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_likes_tweet ON likes (liked_by, tweet_id) WHERE tweet_id IS NOT NULL`,
}

// Open 按配置打开连接并配置连接池
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	return OpenDSN(cfg.DSN(), cfg)
}

// OpenDSN 使用指定 DSN 打开连接（集成测试传入临时库的地址）
func OpenDSN(dsn string, cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		// 关联只用于 Preload，不在库里建外键，级联删除由仓储层完成
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Init 初始化PostgreSQL数据库连接
func Init(cfg *config.DatabaseConfig) error {
	db, err := Open(cfg)
	if err != nil {
		return err
	}
	DB = db

	logger.Info("Database connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("dbname", cfg.DBName),
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
	)

	return nil
}

// Migrate 迁移全部表结构并创建点赞部分唯一索引
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	for _, stmt := range likeIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create like index: %w", err)
		}
	}
	logger.Info("Database auto migration completed")
	return nil
}

// Close 关闭数据库连接
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	logger.Info("Database connection closed")
	return sqlDB.Close()
}

// Get 获取数据库实例
func Get() *gorm.DB {
	return DB
}
