package main

// @title Route Gateway API
// @version 1.0.0
// @description HTTP шлюз к облачному провайдеру геолокации (Amazon Location Service или Mapbox).
// @description
// @description Основные возможности:
// @description - Поиск мест по тексту (автодополнение)
// @description - Маршрут между двумя точками на заданное время отправления
// @description - Маршруты на фиксированные времена отправления завтрашнего дня

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8000
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/route-gateway/docs"
	"github.com/route-gateway/internal/config"
	httpDelivery "github.com/route-gateway/internal/delivery/http"
	"github.com/route-gateway/internal/delivery/http/handler"
	"github.com/route-gateway/internal/domain"
	"github.com/route-gateway/internal/infrastructure"
	"github.com/route-gateway/internal/pkg/logger"
	"github.com/route-gateway/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "route-gateway-api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Route Gateway")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("provider", cfg.Provider.Name),
	)

	docs.SwaggerInfo.Host = cfg.GetServerAddr()

	// 3. Departure schedule for /api/getRoutes
	loc, err := cfg.Location()
	if err != nil {
		log.Fatal("Invalid ROUTES_TIMEZONE", zap.Error(err))
	}
	schedule, err := domain.NewDepartureSchedule(cfg.Routes.DepartureTimes, loc)
	if err != nil {
		log.Fatal("Invalid ROUTES_DEPARTURE_TIMES", zap.Error(err))
	}
	log.Info("Departure schedule loaded",
		zap.Strings("departure_times", cfg.Routes.DepartureTimes),
		zap.String("timezone", loc.String()),
		zap.Bool("concurrent", cfg.Routes.Concurrent))

	// 4. Provider client
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	locationRepo, err := infrastructure.NewLocationRepository(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Fatal("Failed to initialize location provider", zap.Error(err))
	}

	// 5. Use cases
	searchUC := usecase.NewSearchUseCase(locationRepo, log)
	routeUC := usecase.NewRouteUseCase(locationRepo, schedule, cfg.Routes.Concurrent, log)

	// 6. HTTP handlers
	searchHandler := handler.NewSearchHandler(searchUC, log)
	routeHandler := handler.NewRouteHandler(routeUC, log)

	// 7. HTTP server
	server := httpDelivery.NewServer(cfg, log, locationRepo.Name(), searchHandler, routeHandler)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 8. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
