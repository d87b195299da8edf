package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tourtube/internal/api/handler"
	"tourtube/internal/api/middleware"
	"tourtube/internal/api/router"
	"tourtube/internal/config"
	"tourtube/internal/infra/database"
	infraES "tourtube/internal/infra/elasticsearch"
	infraKafka "tourtube/internal/infra/kafka"
	infraRedis "tourtube/internal/infra/redis"
	"tourtube/internal/infra/storage"
	"tourtube/internal/media"
	"tourtube/internal/repository"
	"tourtube/internal/repository/memory"
	"tourtube/internal/service"
	"tourtube/pkg/logger"

	_ "tourtube/api/openapi"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title TourTube API
// @version 1.0
// @description 视频分享平台 API 服务：视频、评论、点赞、播放列表、订阅与动态
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@tourtube.dev

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host 127.0.0.1:8000
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description 输入格式: Bearer {token}

const shutdownTimeout = 10 * time.Second

func main() {
	// 加载配置文件
	cfg, err := config.Load(configPath())
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 初始化日志系统
	if err := logger.Init(
		cfg.Log.Level,
		cfg.Log.Format,
		cfg.Log.Output,
		cfg.Log.FilePath,
	); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := openStore(cfg)
	defer database.Close()

	// token 黑名单
	var revoker service.TokenRevoker
	if cfg.Redis.Enabled {
		if err := infraRedis.Init(&cfg.Redis); err != nil {
			logger.Fatal("Failed to init redis", zap.Error(err))
		}
		defer infraRedis.Close()
		revoker = infraRedis.NewRevocationStore(infraRedis.Get(), cfg.JWT.RevocationMaxTTL())
	} else {
		logger.Warn("Redis disabled, token revocation is kept in process memory")
		revoker = infraRedis.NewLocalRevocationStore(cfg.JWT.RevocationMaxTTL())
	}

	// 媒体存储
	mediaStore, err := storage.New(ctx, &cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to init media storage", zap.String("provider", cfg.Storage.Provider), zap.Error(err))
	}
	if closer, ok := mediaStore.(io.Closer); ok {
		defer closer.Close()
	}

	// 领域事件（可选）
	var events service.EventPublisher = service.NopPublisher{}
	if cfg.Kafka.Enabled {
		producer := infraKafka.NewProducer(&cfg.Kafka)
		defer producer.Close()
		events = producer
	}

	// Elasticsearch（可选，失败则搜索降级到 DB）
	var searcher service.VideoSearcher
	if cfg.Elasticsearch.Enabled {
		if err := infraES.Init(&cfg.Elasticsearch); err != nil {
			logger.Warn("Elasticsearch init failed, search will fallback to DB", zap.Error(err))
		} else {
			defer infraES.Close()
			index := infraES.NewVideoIndex(infraES.Get(), cfg.Elasticsearch.VideosIndex())
			if err := index.EnsureIndex(ctx); err != nil {
				logger.Warn("Elasticsearch index init failed", zap.Error(err))
			}
			searcher = index
		}
	}

	// 初始化依赖（Repository -> Service -> Handler）
	engagement := service.NewEngagement(store)
	views := service.NewViewRecorder(store.Views, store.Users, cfg.Views.DedupWindow(), cfg.Views.PurgeInterval())

	authService := service.NewAuthService(store.Users, mediaStore, events, revoker)
	userService := service.NewUserService(store, engagement, mediaStore, events)
	videoService := service.NewVideoService(store, userService, engagement, views, mediaStore, events, media.FFProbe{}, searcher)

	handlers := &router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		User:         handler.NewUserHandler(userService),
		Video:        handler.NewVideoHandler(videoService),
		Comment:      handler.NewCommentHandler(service.NewCommentService(store, engagement)),
		Like:         handler.NewLikeHandler(service.NewLikeService(store, engagement)),
		Playlist:     handler.NewPlaylistHandler(service.NewPlaylistService(store, engagement)),
		Subscription: handler.NewSubscriptionHandler(service.NewSubscriptionService(store, engagement)),
		Tweet:        handler.NewTweetHandler(service.NewTweetService(store, engagement)),
		Dashboard:    handler.NewDashboardHandler(service.NewDashboardService(store, engagement)),
	}

	// 过期播放记录清理
	go views.Run(ctx)

	// 设置Gin模式
	gin.SetMode(cfg.App.Mode)
	handler.MaxUploadBytes = cfg.Storage.MaxUploadBytes()

	opts := router.Options{
		AuthLimiter: middleware.NewIPRateLimiter(
			cfg.RateLimit.Requests,
			cfg.RateLimit.Window(),
			cfg.RateLimit.Burst,
			10*time.Minute,
		),
		AllowOrigins: cfg.CORS.AllowOrigins,
	}
	if local, ok := mediaStore.(*storage.LocalStorage); ok {
		opts.MediaDir = local.Dir()
	}
	r := router.New(handlers, authService, opts)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("Starting application",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("mode", cfg.App.Mode),
		zap.String("addr", addr),
		zap.String("database", cfg.Database.Driver),
		zap.String("storage", cfg.Storage.Provider),
		zap.Bool("kafka", cfg.Kafka.Enabled),
		zap.Bool("elasticsearch", searcher != nil),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited")
}

// openStore 按 database.driver 选择 Postgres 或内存仓储
func openStore(cfg *config.Config) *repository.Store {
	if cfg.Database.Driver == "memory" {
		logger.Warn("Using in-memory repositories, data is lost on restart")
		return memory.NewStore()
	}

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	if err := database.Migrate(database.Get()); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	return repository.NewStore(database.Get(), cfg.Database.TxMaxAttempts)
}

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "configs/config.yaml"
}
