package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/route-gateway/internal/config"
	"github.com/route-gateway/internal/delivery/http/handler"
	"github.com/route-gateway/internal/delivery/http/middleware"
	"github.com/route-gateway/internal/pkg/errors"
	"github.com/route-gateway/internal/pkg/utils"
	"github.com/route-gateway/internal/usecase/dto"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app      *fiber.App
	config   *config.Config
	logger   *zap.Logger
	provider string

	// Handlers
	searchHandler *handler.SearchHandler
	routeHandler  *handler.RouteHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	provider string,
	searchHandler *handler.SearchHandler,
	routeHandler *handler.RouteHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Route Gateway",
		ReadTimeout:  10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:           app,
		config:        cfg,
		logger:        logger,
		provider:      provider,
		searchHandler: searchHandler,
		routeHandler:  routeHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.CORS(s.config.CORS.AllowOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api")

	api.Get("/search/", s.searchHandler.Search)
	api.Post("/getRoute/", s.routeHandler.GetRoute)
	api.Post("/getRoutes", s.routeHandler.GetRoutes)

	// Health check
	api.Get("/v1/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{
			Status:   "healthy",
			Provider: s.provider,
			Time:     time.Now().Format(time.RFC3339),
		})
	})
}

// App - доступ к fiber.App для тестов
func (s *Server) App() *fiber.App {
	return s.app
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - ошибки fiber (404, 405, panic) в общем формате ErrorResponse
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		appErr := errors.ErrInternalServer

		if e, ok := err.(*fiber.Error); ok {
			appErr = errors.New(utils.ErrorCodeFromStatus(e.Code), e.Message, e.Code)
		}

		if appErr.StatusCode >= fiber.StatusInternalServerError {
			logger.Error("HTTP Error",
				zap.String("path", c.Path()),
				zap.Int("status", appErr.StatusCode),
				zap.Error(err),
			)
		}

		return utils.SendError(c, appErr)
	}
}
