// Package main runs the background job worker (commit confirmations, periodic exports).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/communitree/backend/config"
	"github.com/communitree/backend/internal/communities"
	"github.com/communitree/backend/internal/exports"
	"github.com/communitree/backend/internal/listings"
	"github.com/communitree/backend/internal/notifications"
	"github.com/communitree/backend/internal/worker"
	"github.com/communitree/backend/pkg/docstore"
	"github.com/communitree/backend/pkg/queue"
	"github.com/communitree/backend/pkg/redis"
	"github.com/communitree/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	backend, closeBackend, err := newBackend(ctx, cfg, rdb, logger)
	if err != nil {
		logger.Fatal("document store", zap.Error(err))
	}
	defer closeBackend()
	store := docstore.New(backend, logger)

	notificationRepo := notifications.NewRepository(store)
	jobQueue := queue.NewQueue(rdb.Client, logger)
	processor := worker.NewNotificationProcessor(notificationRepo, jobQueue, logger)

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go processor.Run(workerCtx)
	logger.Info("worker started")

	// Periodic board snapshots require S3; skip silently when not configured.
	if cfg.AWS.ExportsBucket != "" && cfg.Export.IntervalMinutes > 0 {
		s3Client, err := storage.NewS3(ctx, storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			ExportsBucket:        cfg.AWS.ExportsBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}, logger)
		if err != nil {
			logger.Fatal("s3", zap.Error(err))
		}
		exporter := exports.NewExporter(listings.NewRepository(store), communities.NewRepository(store), s3Client, logger)
		go exporter.RunPeriodic(workerCtx, time.Duration(cfg.Export.IntervalMinutes)*time.Minute)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	time.Sleep(2 * time.Second)
	logger.Info("worker stopped")
}

// newBackend builds the configured document store backend. The returned
// close func is a no-op for backends without their own connection.
func newBackend(ctx context.Context, cfg *config.Config, rdb *redis.Client, logger *zap.Logger) (docstore.Backend, func(), error) {
	switch cfg.Store.Backend {
	case "memory":
		return docstore.NewMemory(), func() {}, nil
	case "redis":
		return docstore.NewRedis(rdb.Client), func() {}, nil
	case "postgres":
		pg, err := docstore.NewPostgres(ctx, cfg.Store.PostgresURL, logger)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	default:
		f, err := docstore.NewFile(cfg.Store.FileDir)
		if err != nil {
			return nil, nil, err
		}
		return f, func() {}, nil
	}
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
