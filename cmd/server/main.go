package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus-market/config"
	"campus-market/internal/api"
	"campus-market/internal/broker"
	"campus-market/internal/redisclient"
	"campus-market/internal/service"
	"campus-market/internal/session"
	"campus-market/internal/store"
	"campus-market/internal/util"
	"campus-market/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env, cfg.Server.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting campus market", zap.String("env", cfg.Server.Env))

	tp, err := util.InitTracer(cfg.Observ.ServiceName, cfg.Observ.JaegerEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("Error shutting down tracer", zap.Error(err))
		}
	}()

	db, err := store.NewStore(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Database connected")

	if cfg.Database.AutoMigrate {
		migrateCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err := db.Migrate(migrateCtx, "up")
		cancel()
		if err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		logger.Info("Migrations applied")
	}

	redisClient, err := redisclient.NewClient(cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("Redis connected")

	sessions, err := session.NewManager(redisClient, cfg.Session.TTL)
	if err != nil {
		logger.Fatal("Failed to initialize sessions", zap.Error(err))
	}

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrderEvents)
	defer producer.Close()
	logger.Info("Kafka producer initialized", zap.String("topic", cfg.Kafka.TopicOrderEvents))

	eventPublisher := broker.NewEventPublisher(producer)

	services := api.Services{
		Users:         service.NewUserService(db, cfg.Business),
		Catalog:       service.NewCatalogService(db),
		Cart:          service.NewCartService(db),
		Orders:        service.NewOrderService(db, redisClient, redisClient, eventPublisher, cfg.Business),
		Notifications: service.NewNotificationService(db),
		Stats:         service.NewStatsService(db),
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	statsConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrderEvents, cfg.Kafka.StatsGroup)
	statsWorker := worker.NewSellerStatsWorker(statsConsumer, services.Stats)
	go func() {
		if err := statsWorker.Start(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Seller stats worker error", zap.Error(err))
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(services, sessions, cfg.Session, map[string]api.Pinger{
		"postgres": db,
		"redis":    redisClient,
	})
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	if err := statsWorker.Stop(); err != nil {
		logger.Warn("Error stopping seller stats worker", zap.Error(err))
	}

	logger.Info("Server exited")
}
