package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	authMiddleware "github.com/lingualeap/backend/libs/auth/middleware"
	authService "github.com/lingualeap/backend/libs/auth/service"
	"github.com/lingualeap/backend/libs/config"
	"github.com/lingualeap/backend/libs/logger"
	loggerMiddleware "github.com/lingualeap/backend/libs/logger/middleware"
	sharedMiddleware "github.com/lingualeap/backend/libs/middlewares"
	_ "github.com/lingualeap/backend/services/media-service/docs"
	"github.com/lingualeap/backend/services/media-service/internal/handlers"
	"github.com/lingualeap/backend/services/media-service/internal/services"
	"github.com/lingualeap/backend/services/media-service/internal/storage"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// maxRequestSize caps request bodies, the service has no upload path
const maxRequestSize = 64 * 1024

// shutdownGrace is how long running streams may continue after a shutdown signal
const shutdownGrace = 10 * time.Second

const (
	// apiRequestsPerMinute limits non-streaming routes per client IP
	apiRequestsPerMinute = 100
	// streamRequestsPerMinute limits video requests per client IP, players send one range request per seek and buffer refill
	streamRequestsPerMinute = 1200
)

// newRouter builds the HTTP router with the middleware stack and per-group rate limits
func newRouter(mediaHandler *handlers.MediaHandler, allowedOrigins []string, port int) http.Handler {
	r := chi.NewRouter()

	r.Use(sharedMiddleware.RequestIDMiddleware)
	r.Use(loggerMiddleware.LoggerMiddleware(logger.Logger))
	r.Use(sharedMiddleware.RecoveryMiddleware(logger.Logger))
	r.Use(sharedMiddleware.CORSMiddleware(allowedOrigins))
	r.Use(sharedMiddleware.RequestSizeLimitMiddleware(maxRequestSize))

	// Swagger documentation
	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(apiRequestsPerMinute, time.Minute))
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", port)),
		))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(streamRequestsPerMinute, time.Minute))
		mediaHandler.RegisterRoutes(r)
	})

	return r
}

// @title LinguaLeap Media API
// @version 1.0
// @description Streams lesson videos with byte-range support

// @host localhost:8082
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Access token as "Bearer <token>"
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Validate media base path is set
	if cfg.MediaBasePath == "" {
		log.Fatalf("MEDIA_BASE_PATH is required")
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting LinguaLeap Media Service", zap.String("media_base_path", cfg.MediaBasePath))

	// Initialize JWT token validation
	tokenGenerator := authService.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize storage and services
	fileStorage := storage.NewLocalStorage(cfg.MediaBasePath)
	mediaService := services.NewMediaService(fileStorage)

	// Initialize handlers
	mediaHandler := handlers.NewMediaHandler(mediaService, logger.Logger, authMiddleware.IsAuthenticated(tokenGenerator))

	r := newRouter(mediaHandler, cfg.CORS.AllowedOrigins, cfg.Server.Port)

	// Request contexts derive from streamCtx, cancelling it stops every copy loop
	streamCtx, cancelStreams := context.WithCancel(context.Background())
	defer cancelStreams()

	// No WriteTimeout: a long video stream must not be cut off mid-body
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return streamCtx },
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown, streams still running after the grace period are cancelled
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Warn("Streams still open after grace period, cancelling", zap.Error(err))
		cancelStreams()
		if err := srv.Close(); err != nil {
			logger.Logger.Error("Server forced to shutdown", zap.Error(err))
		}
	}

	logger.Logger.Info("Server exited")
}
