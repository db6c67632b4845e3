package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/route-gateway/internal/config"
	"github.com/route-gateway/internal/domain"
	"github.com/route-gateway/internal/infrastructure"
	"github.com/route-gateway/internal/pkg/logger"
	redisRepo "github.com/route-gateway/internal/repository/redis"
	"github.com/route-gateway/internal/usecase"
	"github.com/route-gateway/internal/worker"
	"github.com/route-gateway/internal/worker/route"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "route-gateway-worker")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Route Forecast Worker")
	log.Info("Configuration loaded",
		zap.String("provider", cfg.Provider.Name),
		zap.String("redis_addr", cfg.GetRedisAddr()),
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("batch_size", cfg.Worker.BatchSize))

	// 3. Departure schedule
	loc, err := cfg.Location()
	if err != nil {
		log.Fatal("Invalid ROUTES_TIMEZONE", zap.Error(err))
	}
	schedule, err := domain.NewDepartureSchedule(cfg.Routes.DepartureTimes, loc)
	if err != nil {
		log.Fatal("Invalid ROUTES_DEPARTURE_TIMES", zap.Error(err))
	}

	// 4. Connect to Redis
	redisClient, err := redisRepo.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Provider client and repositories
	initCtx, initCancel := context.WithTimeout(context.Background(), 10*time.Second)
	locationRepo, err := infrastructure.NewLocationRepository(initCtx, cfg, log)
	initCancel()
	if err != nil {
		log.Fatal("Failed to initialize location provider", zap.Error(err))
	}
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)

	// 6. Use case and worker
	routeUC := usecase.NewRouteUseCase(locationRepo, schedule, cfg.Routes.Concurrent, log)
	forecastWorker := route.NewForecastWorker(
		streamRepo,
		routeUC,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.BatchSize,
		log,
	)

	workerManager := worker.NewWorkerManager(log, worker.DefaultShutdownTimeout)
	workerManager.Register(forecastWorker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// 7. Wait for interrupt signal or worker failure
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info("Received shutdown signal")
	case err := <-workerManager.Errors():
		log.Error("Worker exited", zap.Error(err))
	}

	cancel()

	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
