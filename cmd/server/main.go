package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"farm-analytics/internal/config"
	"farm-analytics/internal/controller"
	"farm-analytics/internal/model"
	"farm-analytics/internal/repository"
	"farm-analytics/internal/router"
	"farm-analytics/internal/service"
	"farm-analytics/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)
	gin.SetMode(cfg.Server.GinMode)

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		baseLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Queries borrow pooled connections for their duration; the pool
	// owns acquisition and release.
	sqlDB, err := db.DB()
	if err != nil {
		baseLogger.Fatal("failed to access connection pool", zap.Error(err))
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxOpenConns / 2)
	sqlDB.SetConnMaxLifetime(time.Hour)
	defer func() { _ = sqlDB.Close() }()

	if err := model.AutoMigrate(db); err != nil {
		baseLogger.Fatal("failed to migrate schema", zap.Error(err))
	}

	if cfg.Database.SeedOnStart {
		if err := repository.NewSeedRepository(db).SeedDatabase(); err != nil {
			baseLogger.Error("failed to seed database", zap.Error(err))
		}
	}

	measurementRepo := repository.NewMeasurementRepository(db)
	priceRepo := repository.NewPriceRepository(db)

	reportSvc := service.NewReportService(measurementRepo, logger.Named(baseLogger, "svc.report"))
	priceSvc := service.NewPriceService(priceRepo, logger.Named(baseLogger, "svc.price"))

	reportCtrl := controller.NewReportController(reportSvc, logger.Named(baseLogger, "ctrl.report"))
	priceCtrl := controller.NewPriceController(priceSvc, logger.Named(baseLogger, "ctrl.price"))

	engine := router.New(reportCtrl, priceCtrl, logger.Named(baseLogger, "router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
