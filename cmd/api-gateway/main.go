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

	_ "github.com/noah-isme/sma-tutoring-api/api/swagger"
	"github.com/noah-isme/sma-tutoring-api/internal/booking"
	"github.com/noah-isme/sma-tutoring-api/internal/handler"
	"github.com/noah-isme/sma-tutoring-api/internal/middleware"
	"github.com/noah-isme/sma-tutoring-api/internal/models"
	"github.com/noah-isme/sma-tutoring-api/internal/repository"
	"github.com/noah-isme/sma-tutoring-api/internal/service"
	"github.com/noah-isme/sma-tutoring-api/pkg/cache"
	"github.com/noah-isme/sma-tutoring-api/pkg/config"
	"github.com/noah-isme/sma-tutoring-api/pkg/database"
	"github.com/noah-isme/sma-tutoring-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-tutoring-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-tutoring-api/pkg/middleware/requestid"
)

// @title Tutoring Sessions API
// @version 1.0.0
// @description Booking, availability and session reports for the tutoring programme
// @BasePath /api/v1
// @schemes http https
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := service.NewMetricsService()
	probes := map[string]handler.ReadinessProbe{}

	var (
		store service.SessionRepository
		dir   booking.Directory
	)
	switch cfg.Backend.Driver {
	case config.BackendPostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer db.Close()
		store = repository.NewSessionRepository(db)
		dir = repository.NewDirectoryRepository(db)
		probes["postgres"] = db.PingContext
	default:
		remote := repository.NewRemoteRepository(cfg.Backend.BaseURL, cfg.Backend.Timeout, logr)
		store = remote
		dir = remote
	}

	var cacheSvc *service.CacheService
	if cfg.Directory.CacheEnabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, counselor directory will not be cached", zap.Error(err))
		} else {
			cacheRepo := repository.NewCacheRepository(client, logr)
			defer cacheRepo.Close()
			probes["redis"] = cacheRepo.Ping
			cacheSvc = service.NewCacheService(cacheRepo, metrics, service.CacheConfig{
				Enabled:    true,
				DefaultTTL: cfg.Directory.CacheTTL,
				Prefix:     "tutoring:",
			}, logr)
		}
	}

	validate := validator.New()
	slots := booking.NewSlotValidator(booking.SlotPolicy{
		HorizonDays: cfg.Booking.HorizonDays,
		OpenHour:    cfg.Booking.OpenHour,
		CloseHour:   cfg.Booking.CloseHour,
		LenientEnd:  cfg.Booking.LenientEnd,
	}, cfg.Booking.Location(), nil)
	resolver := booking.NewRoleResolver(dir)

	authSvc := service.NewAuthService(service.AuthConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer}, logr)
	bookingSvc := service.NewBookingService(store, slots, resolver, validate, metrics, logr)
	availabilitySvc := service.NewAvailabilityService(store, metrics, logr)
	directorySvc := service.NewDirectoryService(dir, cacheSvc, cfg.Directory.CacheTTL, metrics, logr)
	reportSvc := service.NewReportService(store, service.ReportServiceConfig{ExportEnabled: cfg.Reports.ExportEnabled}, validate, metrics, logr, nil, nil)

	sessionHandler := handler.NewSessionHandler(bookingSvc)
	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	directoryHandler := handler.NewDirectoryHandler(directorySvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	metricsHandler := handler.NewMetricsHandler(metrics, probes)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	staff := []models.Role{models.RoleTutor, models.RoleCounselor, models.RoleAdmin}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(authSvc), middleware.WithResponseMeta())
	{
		api.GET("/sessions", sessionHandler.List)
		api.POST("/sessions", sessionHandler.Book)
		api.POST("/sessions/validate", sessionHandler.Validate)
		api.DELETE("/sessions/:id", sessionHandler.Delete)

		api.GET("/students/:id/availability", middleware.RequireRoles(append(staff, middleware.RoleSelf)...), availabilityHandler.Get)
		api.GET("/counselors", directoryHandler.Counselors)

		reports := api.Group("/groups/:id/reports", middleware.RequireRoles(staff...))
		reports.GET("/sessions", reportHandler.Sessions)
		reports.GET("/sessions/export", reportHandler.Export)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("backend", cfg.Backend.Driver),
			zap.Bool("directory_cache", cacheSvc.Enabled()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
