package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/config"
	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/inspect/entity"
	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/inspect/handler"
	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/inspect/repository"
	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/inspect/service"
	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/middleware"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting gsdp-inspect service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// The remote database is optional: when it cannot be reached the
	// service still starts and every write lands on the local store.
	var repo *repository.InspectionRepository
	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Warn("Database unreachable, running in local-only mode", zap.Error(err))
	} else {
		if err := db.AutoMigrate(&entity.Inspection{}); err != nil {
			zapLogger.Warn("AutoMigrate inspections warning", zap.Error(err))
		}
		repo = repository.NewInspectionRepository(db)
	}

	local, err := repository.OpenLocalStore(cfg.Local.Path)
	if err != nil {
		zapLogger.Fatal("Failed to open local store", zap.Error(err))
	}
	defer local.Close()

	rdb := initRedis(cfg.Redis)

	services := service.NewServices(repo, local, rdb, cfg, zapLogger)
	handlers := handler.NewHandlers(services.Auth, services.Inspection, services.Report, services.Dashboard, services.Export, cfg)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/guest", h.Auth.GuestLogin)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		authed := v1.Group("", middleware.JWTAuth(cfg.JWT.Secret))
		{
			inspections := authed.Group("/inspections")
			{
				inspections.POST("", h.Inspection.Submit)
				inspections.GET("", h.Inspection.List)
				inspections.GET("/export", h.Dashboard.ExportHistory)
				inspections.GET("/:id", h.Inspection.Get)
				inspections.PUT("/:id", h.Inspection.Update)
				inspections.DELETE("/:id", h.Inspection.Delete)
				inspections.GET("/:id/reports", h.Report.List)
				inspections.GET("/:id/reports/:name", h.Report.Download)
			}

			authed.GET("/dashboard/stats", h.Dashboard.Stats)
		}
	}
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	if cfg.Host == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}
