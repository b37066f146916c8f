package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Swarnab2026/colour-shop/internal/blob"
	"github.com/Swarnab2026/colour-shop/internal/handler"
	mid "github.com/Swarnab2026/colour-shop/internal/middleware"
	"github.com/Swarnab2026/colour-shop/internal/service"
	"github.com/Swarnab2026/colour-shop/internal/store"
	"github.com/Swarnab2026/colour-shop/pkg/config"
	"github.com/Swarnab2026/colour-shop/pkg/database"
	"github.com/Swarnab2026/colour-shop/pkg/logger"
	"github.com/Swarnab2026/colour-shop/prometheus"
)

func main() {
	// Load configuration (.env handled inside Load)
	cfg, err := config.Load()
	if err != nil {
		// Can't use the structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting colour-shop",
		zap.String("environment", cfg.Server.Env),
		zap.String("port", cfg.Server.Port))

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", cfg.Metrics.Prefix))

	// Connect the database and run migrations
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Blob storage for product images
	assets, err := blob.NewMinioStorage(&cfg.Blob)
	if err != nil {
		log.Fatal("Failed to initialize blob storage", zap.Error(err))
	}
	bucketCtx, cancelBucket := context.WithTimeout(context.Background(), 10*time.Second)
	if err := assets.EnsureBucket(bucketCtx); err != nil {
		cancelBucket()
		log.Fatal("Failed to prepare blob bucket", zap.Error(err))
	}
	cancelBucket()
	log.Info("Blob storage ready", zap.String("bucket", cfg.Blob.Bucket))

	// Stores, services, handlers
	productStore := store.NewProductStore(db)
	adminStore := store.NewAdminStore(db)

	productService := service.NewProductService(productStore, assets, log)
	adminService := service.NewAdminService(adminStore, cfg.Admin.BootstrapPassword, log)

	productHandler := handler.NewProductHandler(productService)
	adminHandler := handler.NewAdminHandler(adminService)
	healthHandler := handler.NewHealthHandler(db)

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)
	e.Use(logger.Middleware())

	// Metrics and health endpoints
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", healthHandler.Check)

	// Public catalog routes
	products := e.Group("/products")
	products.GET("", productHandler.List)
	products.GET("/:id", productHandler.Get)
	products.GET("/search/:q", productHandler.Search)

	// Admin routes
	admin := e.Group("/admin")
	admin.POST("/login", adminHandler.Login)
	admin.POST("/init", adminHandler.Bootstrap)
	admin.POST("/products", productHandler.Create)
	admin.PUT("/products/:id", productHandler.Update)
	admin.DELETE("/products/:id", productHandler.Delete)
	admin.POST("/products/:id/image", productHandler.ReplaceImage)

	// Start server
	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error", zap.Error(err))
		}
	}()
	log.Info("Server started", zap.String("port", cfg.Server.Port))

	// Wait for a shutdown signal, then drain in-flight requests
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("Forced server shutdown", zap.Error(err))
	}

	if err := database.Close(db); err != nil {
		log.Error("Failed to close database", zap.Error(err))
	}
	log.Info("Server stopped")
}
