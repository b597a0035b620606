package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/BerylCAtieno/summary-request-api/internal/builder"
	"github.com/BerylCAtieno/summary-request-api/internal/config"
	"github.com/BerylCAtieno/summary-request-api/internal/db"
	"github.com/BerylCAtieno/summary-request-api/internal/repository"
	"github.com/BerylCAtieno/summary-request-api/internal/router"
	"github.com/BerylCAtieno/summary-request-api/internal/services"
	"github.com/BerylCAtieno/summary-request-api/internal/session"
	"github.com/BerylCAtieno/summary-request-api/internal/storage"
	"github.com/BerylCAtieno/summary-request-api/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := utils.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	database, err := db.NewSQLiteDB(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close()

	// Run migrations
	if err := db.RunMigrations(database); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	// Queue store
	var queue repository.QueueStore
	switch cfg.QueueBackend {
	case config.QueueBackendRedis:
		redisQueue, err := repository.NewRedisQueue(repository.RedisQueueConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			Stream:   cfg.RedisStream,
		})
		if err != nil {
			logger.Fatal("Failed to configure Redis queue", "error", err)
		}
		if err := redisQueue.Ping(ctx); err != nil {
			logger.Fatal("Failed to reach Redis", "error", err, "addr", cfg.RedisAddr)
		}
		defer redisQueue.Close()
		queue = redisQueue
	default:
		queue = repository.NewSQLQueue(database)
	}

	// Optional archive of confirmed uploads
	var archive storage.Storage
	if cfg.S3Enabled {
		archive, err = storage.NewS3Storage(ctx, cfg)
		if err != nil {
			logger.Fatal("Failed to initialize S3 storage", "error", err)
		}
	}

	sessions := session.NewManager(cfg.SessionTTL, logger)
	go sessions.Run(ctx, cfg.SweepEvery)

	requestBuilder := builder.New(builder.Instructions{
		Context:  cfg.SummaryContext,
		Required: cfg.SummaryRequired,
	})

	authService := services.NewAuthService(repository.NewUserRepository(database), sessions, logger)
	submissionService := services.NewSubmissionService(queue, requestBuilder, archive, cfg.RecentLimit, logger)

	// Setup HTTP router
	handler := router.NewRouter(authService, submissionService, cfg.MaxFileSize, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "queue_backend", cfg.QueueBackend, "s3_archive", cfg.S3Enabled)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	<-ctx.Done()

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
