package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/course-exam-service/internal/admin"
	"github.com/SAP-F-2025/course-exam-service/internal/auth"
	"github.com/SAP-F-2025/course-exam-service/internal/cache"
	"github.com/SAP-F-2025/course-exam-service/internal/config"
	"github.com/SAP-F-2025/course-exam-service/internal/handlers"
	"github.com/SAP-F-2025/course-exam-service/internal/observability"
	"github.com/SAP-F-2025/course-exam-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/course-exam-service/internal/services"
	"github.com/SAP-F-2025/course-exam-service/internal/utils"
	"github.com/SAP-F-2025/course-exam-service/internal/validator"
	"github.com/SAP-F-2025/course-exam-service/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.NewLogger(false).Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.IsProduction())
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("Service stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger utils.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return err
	}
	if err := pkg.Migrate(db); err != nil {
		return err
	}
	repo := postgres.NewRepository(db)
	defer repo.Close()

	cacheService := cache.NewNoopCache()
	redisClient, err := pkg.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Warn("Redis unavailable, exam cache disabled", "error", err)
	} else {
		defer redisClient.Close()
		cacheService = cache.NewRedisCache(redisClient, logger.Slog(), "course-exam:")
	}

	publisher, err := cfg.Events.CreateEventPublisher(logger.Slog())
	if err != nil {
		return err
	}
	defer publisher.Close()

	verifier, err := auth.NewVerifier(cfg)
	if err != nil {
		return err
	}

	observability.RegisterMetrics()

	serviceManager := services.NewServiceManager(services.ManagerConfig{
		Repo:      repo,
		Cache:     cacheService,
		Publisher: publisher,
		Logger:    logger.Slog(),
		Validator: validator.New(),
		ExamTTL:   cfg.ExamCacheTTL,
	})

	router := gin.New()
	router.Use(gin.Recovery())
	health := func(c *gin.Context) error { return repo.Ping(c.Request.Context()) }
	handlers.NewHandlerManager(serviceManager, admin.Default(), verifier, health, logger).SetupRoutes(router)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", server.Addr, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
		return err
	}

	logger.Info("Server stopped")
	return nil
}
