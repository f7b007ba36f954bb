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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/noah-isme/project-portal-api/api/swagger"
	"github.com/noah-isme/project-portal-api/internal/handler"
	"github.com/noah-isme/project-portal-api/internal/repository"
	"github.com/noah-isme/project-portal-api/internal/service"
	"github.com/noah-isme/project-portal-api/migrations"
	"github.com/noah-isme/project-portal-api/pkg/cache"
	"github.com/noah-isme/project-portal-api/pkg/config"
	"github.com/noah-isme/project-portal-api/pkg/database"
	"github.com/noah-isme/project-portal-api/pkg/export"
	"github.com/noah-isme/project-portal-api/pkg/logger"
	"github.com/noah-isme/project-portal-api/pkg/storage"
)

// @title Project Portal API
// @version 1.0.0
// @description Student project submission, review and reporting
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := migrations.Migrate(ctx, db.DB); err != nil {
			return err
		}
		logr.Info("database migrations applied")
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, continuing without cache and rate limiting", zap.Error(err))
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	store, err := storage.NewLocalStorage(cfg.Uploads.Dir)
	if err != nil {
		return fmt.Errorf("prepare upload directory: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	metrics := service.NewMetricsService()
	validate := service.NewValidator()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Analytics.CacheTTL, logr, cfg.Analytics.CacheEnabled && redisClient != nil)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
		BcryptCost: cfg.JWT.BcryptCost,
	})
	documentSvc := service.NewDocumentService(projectRepo, store, metrics, logr, service.DocumentConfig{
		MaxFileSize:       cfg.Uploads.MaxFileSizeBytes,
		MaxFiles:          cfg.Uploads.MaxFiles,
		AllowedExtensions: cfg.Uploads.AllowedExtensions,
	})
	projectSvc := service.NewProjectService(projectRepo, documentSvc, cacheSvc, metrics, validate, logr, cfg.Projects.AllowedDomains)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, cacheSvc, metrics, logr, cfg.Analytics.CacheTTL)
	exportSvc := service.NewExportService(analyticsRepo, logr, export.NewCSVExporter(), export.NewPDFExporter(), export.NewXLSXExporter("Projects"))

	if cfg.Seed.Enabled {
		created, err := authSvc.EnsureFacultyAccount(ctx, service.SeedAccount{
			Name:     cfg.Seed.Name,
			Email:    cfg.Seed.Email,
			Password: cfg.Seed.Password,
		})
		if err != nil {
			logr.Warn("faculty seed failed", zap.Error(err))
		} else if created {
			logr.Info("default faculty account created", zap.String("email", cfg.Seed.Email))
		}
	}

	router := handler.NewRouter(handler.RouterConfig{
		APIPrefix:       cfg.APIPrefix,
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
		EnableDocs:      cfg.Env != config.EnvProduction,
		MultipartMemory: cfg.Uploads.MaxFileSizeBytes,
		RateLimiter:     cacheRepo,
		AuthRateLimit:   cfg.RateLimit.AuthRequests,
		RateLimitWindow: cfg.RateLimit.Window,
		Tokens:          authSvc,
		Auth:            handler.NewAuthHandler(authSvc),
		Projects:        handler.NewProjectHandler(projectSvc, documentSvc),
		Analytics:       handler.NewAnalyticsHandler(analyticsSvc, exportSvc),
		Ops:             handler.NewMetricsHandler(metrics, db),
		Metrics:         metrics,
		Logger:          logr,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
