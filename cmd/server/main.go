// Package main runs the CommuniTree board HTTP server with WebSocket and graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/communitree/backend/config"
	"github.com/communitree/backend/internal/auth"
	"github.com/communitree/backend/internal/communities"
	"github.com/communitree/backend/internal/exports"
	"github.com/communitree/backend/internal/listings"
	"github.com/communitree/backend/internal/middleware"
	"github.com/communitree/backend/internal/models"
	"github.com/communitree/backend/internal/notifications"
	"github.com/communitree/backend/internal/participations"
	"github.com/communitree/backend/internal/realtime"
	"github.com/communitree/backend/pkg/docstore"
	"github.com/communitree/backend/pkg/queue"
	"github.com/communitree/backend/pkg/redis"
	"github.com/communitree/backend/pkg/response"
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

	var s3Client *storage.S3
	if cfg.AWS.ExportsBucket != "" {
		s3Client, err = storage.NewS3(ctx, storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			ExportsBucket:        cfg.AWS.ExportsBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}, logger)
		if err != nil {
			logger.Warn("s3 exports disabled", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	redisPubSub := realtime.NewRedisPubSub(rdb.Client, logger)
	hub := realtime.NewHub(logger, redisPubSub, redisPubSub)

	// Accounts and auth
	authRepo := auth.NewRepository(store, cfg.Compat.ResolveLastAccount)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Listings
	listingRepo := listings.NewRepository(store)
	listingHandler := listings.NewHandler(listingRepo, authRepo, hub, logger)

	// Participations
	jobQueue := queue.NewQueue(rdb.Client, logger)
	participationRepo := participations.NewRepository(store, listingRepo)
	participationHandler := participations.NewHandler(participationRepo, jobQueue, hub, logger)

	// Communities
	communityRepo := communities.NewRepository(store)
	communityHandler := communities.NewHandler(communityRepo, authRepo, hub, logger)

	// Notification log
	notificationRepo := notifications.NewRepository(store)
	notificationHandler := notifications.NewHandler(notificationRepo, logger)

	// Exports (S3 snapshots)
	var exporter *exports.Exporter
	if s3Client != nil {
		exporter = exports.NewExporter(listingRepo, communityRepo, s3Client, logger)
	}
	exportHandler := exports.NewHandler(exporter, logger)

	jwtValidate := func(token string) (email, role string, err error) {
		claims, err := jwtService.Validate(token)
		if err != nil {
			return "", "", err
		}
		return claims.Email, string(claims.Role), nil
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/signup/ngo", authHandler.SignupNGO)
		authGroup.POST("/signup/volunteer", authHandler.SignupVolunteer)
		authGroup.POST("/login/:role", authHandler.Login)
	}

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		api.POST("/auth/logout", authHandler.Logout)
		api.GET("/auth/me", authHandler.Me)

		// Listings
		api.GET("/listings", middleware.RequireRole(models.RoleVolunteer), listingHandler.Browse)
		api.GET("/listings/mine", middleware.RequireRole(models.RoleNGO), listingHandler.Mine)
		api.POST("/listings", middleware.RequireRole(models.RoleNGO), listingHandler.Create)
		api.DELETE("/listings/:id", middleware.RequireRole(models.RoleNGO), listingHandler.Delete)
		api.POST("/listings/:id/volunteer", middleware.RequireRole(models.RoleVolunteer), participationHandler.Commit)

		// Participations
		api.GET("/participations", middleware.RequireRole(models.RoleVolunteer), participationHandler.Mine)

		// Communities (both roles)
		api.GET("/communities", communityHandler.List)
		api.POST("/communities", communityHandler.Create)

		// Notification log
		api.GET("/notifications", middleware.RequireRole(models.RoleVolunteer), notificationHandler.Mine)

		// Board snapshot export
		api.POST("/export", middleware.RequireRole(models.RoleNGO), exportHandler.Export)
	}

	// WebSocket (token in query; no Authorization header required)
	router.GET("/ws", realtime.ServeWs(hub, logger, jwtValidate))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
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
