package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"tourtube/internal/config"
	"tourtube/internal/infra/database"
	infraES "tourtube/internal/infra/elasticsearch"
	infraKafka "tourtube/internal/infra/kafka"
	"tourtube/internal/infra/storage"
	"tourtube/internal/repository"
	"tourtube/internal/worker"
	"tourtube/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "config file path")
	reindex := flag.Bool("reindex", false, "rebuild the video search index from the database and exit")
	batchSize := flag.Int("batch", 100, "reindex batch size")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	// 监听系统信号，优雅退出
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *reindex {
		if err := runReindex(ctx, cfg, *batchSize); err != nil {
			logger.Error("Reindex failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	if !cfg.Kafka.Enabled {
		logger.Fatal("Kafka is disabled, nothing to consume")
	}

	producer := infraKafka.NewProducer(&cfg.Kafka)
	defer producer.Close()

	var wg sync.WaitGroup

	// 搜索索引同步
	if cfg.Elasticsearch.Enabled {
		index, err := openIndex(ctx, cfg)
		if err != nil {
			logger.Fatal("Failed to init elasticsearch", zap.Error(err))
		}
		defer infraES.Close()

		syncer := worker.NewIndexSyncer(index)
		wg.Add(1)
		go func() {
			defer wg.Done()
			infraKafka.Consume(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic(infraKafka.TopicVideoEvents),
				cfg.Kafka.GroupID+"-index", syncer.Handle)
		}()
	} else {
		logger.Warn("Elasticsearch disabled, video events are not indexed")
	}

	// 远程媒体删除重试
	mediaStore, err := storage.New(ctx, &cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to init media storage", zap.Error(err))
	}
	if closer, ok := mediaStore.(io.Closer); ok {
		defer closer.Close()
	}

	janitor := worker.NewMediaJanitor(mediaStore, producer, cfg.Kafka.CleanupMaxAttempts)
	wg.Add(1)
	go func() {
		defer wg.Done()
		infraKafka.Consume(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic(infraKafka.TopicMediaCleanup),
			cfg.Kafka.GroupID+"-media", janitor.Handle)
	}()

	logger.Info("Worker started",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("group", cfg.Kafka.GroupID),
	)

	wg.Wait()
	logger.Info("Worker stopped")
}

func openIndex(ctx context.Context, cfg *config.Config) (*infraES.VideoIndex, error) {
	if err := infraES.Init(&cfg.Elasticsearch); err != nil {
		return nil, err
	}
	index := infraES.NewVideoIndex(infraES.Get(), cfg.Elasticsearch.VideosIndex())
	if err := index.EnsureIndex(ctx); err != nil {
		return nil, err
	}
	return index, nil
}

func runReindex(ctx context.Context, cfg *config.Config, batchSize int) error {
	if cfg.Database.Driver != "postgres" {
		return fmt.Errorf("reindex needs the postgres driver, got %q", cfg.Database.Driver)
	}
	if err := database.Init(&cfg.Database); err != nil {
		return err
	}
	defer database.Close()

	index, err := openIndex(ctx, cfg)
	if err != nil {
		return err
	}
	defer infraES.Close()

	store := repository.NewStore(database.Get(), cfg.Database.TxMaxAttempts)
	total, err := worker.NewIndexSyncer(index).Reindex(ctx, store.Videos, batchSize)
	if err != nil {
		return err
	}
	logger.Info("Reindex completed", zap.Int("indexed", total))
	return nil
}
