package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/project-portal-api/internal/middleware"
	"github.com/noah-isme/project-portal-api/internal/service"
	appErrors "github.com/noah-isme/project-portal-api/pkg/errors"
	"github.com/noah-isme/project-portal-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/project-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/project-portal-api/pkg/middleware/requestid"
	"github.com/noah-isme/project-portal-api/pkg/response"
)

// RouterConfig carries everything the HTTP surface needs.
type RouterConfig struct {
	APIPrefix       string
	AllowedOrigins  []string
	EnableDocs      bool
	MultipartMemory int64

	RateLimiter     middleware.WindowCounter
	AuthRateLimit   int
	RateLimitWindow time.Duration

	Tokens    middleware.TokenValidator
	Auth      *AuthHandler
	Projects  *ProjectHandler
	Analytics *AnalyticsHandler
	Ops       *MetricsHandler
	Metrics   *service.MetricsService
	Logger    *zap.Logger
}

// NewRouter assembles the gin engine with middleware and all routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	prefix := cfg.APIPrefix
	if prefix == "" {
		prefix = "/api"
	}

	r := gin.New()
	if cfg.MultipartMemory > 0 {
		r.MaxMultipartMemory = cfg.MultipartMemory
	}
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.Recovery(log))
	r.Use(logger.GinMiddleware(log))
	r.Use(corsmiddleware.New(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(cfg.Metrics, "/health", "/ready", "/metrics"))

	r.GET("/health", cfg.Ops.Health)
	r.GET("/ready", cfg.Ops.Ready)
	r.GET("/metrics", cfg.Ops.Prometheus)
	if cfg.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(prefix)
	api.GET("/health", cfg.Ops.Health)

	authLimit := middleware.RateLimit(cfg.RateLimiter, "auth", cfg.AuthRateLimit, cfg.RateLimitWindow, log)
	auth := api.Group("/auth")
	auth.POST("/register", authLimit, cfg.Auth.Register)
	auth.POST("/login", authLimit, cfg.Auth.Login)
	auth.GET("/verify", middleware.JWT(cfg.Tokens), cfg.Auth.Verify)

	projects := api.Group("/projects", middleware.JWT(cfg.Tokens))
	projects.GET("", cfg.Projects.List)
	projects.GET("/meta/filters", cfg.Projects.FilterOptions)
	projects.POST("", middleware.RequireFourthYear(), cfg.Projects.Create)
	projects.GET("/:id", cfg.Projects.Get)
	projects.PUT("/:id/status", middleware.RequireFaculty(), cfg.Projects.UpdateStatus)
	projects.DELETE("/:id", cfg.Projects.Delete)
	projects.GET("/:id/documents/:documentId", cfg.Projects.Download)

	analytics := api.Group("/analytics", middleware.JWT(cfg.Tokens), middleware.RequireFaculty())
	analytics.GET("", cfg.Analytics.Report)
	analytics.GET("/domain/:domain", cfg.Analytics.Domain)
	analytics.GET("/export", cfg.Analytics.Export)

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "Route not found"))
	})

	return r
}
