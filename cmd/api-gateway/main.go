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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/sma-timetable-editor/api/swagger"
	"github.com/noah-isme/sma-timetable-editor/internal/handler"
	internalmiddleware "github.com/noah-isme/sma-timetable-editor/internal/middleware"
	"github.com/noah-isme/sma-timetable-editor/internal/repository"
	"github.com/noah-isme/sma-timetable-editor/internal/service"
	"github.com/noah-isme/sma-timetable-editor/internal/solver"
	"github.com/noah-isme/sma-timetable-editor/pkg/cache"
	"github.com/noah-isme/sma-timetable-editor/pkg/config"
	"github.com/noah-isme/sma-timetable-editor/pkg/database"
	"github.com/noah-isme/sma-timetable-editor/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-timetable-editor/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-timetable-editor/pkg/middleware/requestid"
)

// @title SMA Timetable Editor API
// @version 0.1.0
// @description Interactive weekly timetable editing service
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The editor degrades gracefully without Redis; stats are simply
		// recomputed on every request.
		logr.Sugar().Warnw("redis unavailable, stats caching disabled", "error", err)
		redisClient = nil
	}

	rosterRepo := repository.NewRosterRepository(db)
	variantRepo := repository.NewVariantRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	solverClient := solver.NewClient(cfg.Solver.BaseURL, cfg.Solver.Timeout, logr)
	metricsSvc := service.NewMetricsService()
	editorSvc := service.NewEditorService(cfg.Editor, rosterRepo, variantRepo, solverClient, cacheRepo, metricsSvc, logr)
	exportSvc := service.NewExportService(editorSvc, nil, nil, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	editorSvc.Start(ctx)
	defer editorSvc.Stop()

	editorHandler := handler.NewEditorHandler(editorSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/editor/sessions", editorHandler.OpenSession)
		api.DELETE("/editor/sessions/:level", editorHandler.CloseSession)
		api.GET("/editor/:level/grid", editorHandler.Grid)
		api.PUT("/editor/:level/cells", editorHandler.PlaceCourse)
		api.POST("/editor/:level/swap", editorHandler.Swap)
		api.POST("/editor/:level/undo", editorHandler.Undo)
		api.POST("/editor/:level/redo", editorHandler.Redo)
		api.POST("/editor/:level/generate", editorHandler.Generate)
		api.GET("/editor/:level/variants", editorHandler.Variants)
		api.PUT("/editor/:level/variants/:index", editorHandler.SelectVariant)
		api.GET("/editor/:level/stats", editorHandler.Stats)
		api.GET("/editor/:level/advice", editorHandler.Advice)
		if cfg.Export.Enabled {
			api.GET("/editor/:level/export", exportHandler.Download)
		}
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
