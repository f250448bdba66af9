package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sra-panel-api/api/swagger"
	"github.com/noah-isme/sra-panel-api/internal/generator"
	"github.com/noah-isme/sra-panel-api/internal/handler"
	"github.com/noah-isme/sra-panel-api/internal/middleware"
	"github.com/noah-isme/sra-panel-api/internal/repository"
	"github.com/noah-isme/sra-panel-api/internal/service"
	"github.com/noah-isme/sra-panel-api/pkg/cache"
	"github.com/noah-isme/sra-panel-api/pkg/config"
	"github.com/noah-isme/sra-panel-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sra-panel-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sra-panel-api/pkg/middleware/requestid"
)

// @title SRA Panel API
// @version 0.1.0
// @description Statistical aggregation service for student academic result sheets
// @BasePath /api/v1
// @schemes http

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metricsSvc := service.NewMetricsService()

	// Redis keeps sessions across restarts; without it the service still
	// runs on the in-memory store with caching disabled.
	var (
		sessionStore repository.SessionStore
		cacheSvc     *service.CacheService
	)
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, using in-memory session store", zap.Error(err))
		sessionStore = repository.NewMemorySessionStore(cfg.Sessions.TTL)
	} else {
		defer redisClient.Close() //nolint:errcheck
		sessionStore = repository.NewRedisSessionStore(redisClient, cfg.Sessions.TTL)
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Stats.CacheTTL, logr, cfg.Stats.CacheEnabled)
	}

	datasetSvc := service.NewDatasetService(sessionStore, cacheSvc, logr)
	statsSvc := service.NewStatsService(sessionStore, cacheSvc, metricsSvc, logr)

	generatorClient := generator.NewClient(cfg.Insights, logr)
	insightSvc := service.NewInsightService(service.InsightServiceParams{
		Store:          sessionStore,
		Client:         generatorClient,
		Metrics:        metricsSvc,
		Logger:         logr,
		Enabled:        cfg.Insights.Enabled,
		Workers:        cfg.Insights.Workers,
		RequestTimeout: cfg.Insights.RequestTimeout,
	})
	insightSvc.Start(ctx)
	defer insightSvc.Stop()

	exportSvc := service.NewExportService(service.ExportServiceParams{
		Stats:     statsSvc,
		Validator: validator.New(),
		MaxRows:   cfg.Exports.MaxRows,
		PDFTitle:  cfg.Exports.PDFTitle,
		Enabled:   cfg.Exports.Enabled,
		Logger:    logr,
	})

	uploadHandler := handler.NewUploadHandler(datasetSvc, cfg.Uploads.MaxFileSizeBytes)
	statsHandler := handler.NewStatsHandler(statsSvc)
	insightHandler := handler.NewInsightHandler(insightSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/uploads", uploadHandler.Upload)

		session := api.Group("", middleware.RequireSession())
		{
			session.GET("/session", uploadHandler.Session)
			session.DELETE("/session", uploadHandler.Clear)
			session.GET("/statistics", statsHandler.Overview)
			session.GET("/records", statsHandler.Records)
			session.GET("/courses", statsHandler.Courses)
			session.GET("/insights", insightHandler.Status)
			session.GET("/insights/derived", statsHandler.Derived)
			session.POST("/insights/generate", insightHandler.Generate)
			session.GET("/exports/records", exportHandler.Records)
			session.GET("/exports/statistics", exportHandler.Statistics)
		}

		api.GET("/system/metrics", metricsHandler.Snapshot)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown failed", "error", err)
	}
}
