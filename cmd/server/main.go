package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/inventaire/internal/config"
	"github.com/mamadbah2/inventaire/internal/repository/mongodb"
	"github.com/mamadbah2/inventaire/internal/repository/sheets"
	"github.com/mamadbah2/inventaire/internal/scheduler"
	"github.com/mamadbah2/inventaire/internal/server/handlers"
	"github.com/mamadbah2/inventaire/internal/server/router"
	inventorysvc "github.com/mamadbah2/inventaire/internal/service/inventory"
	statssvc "github.com/mamadbah2/inventaire/internal/service/stats"
	"github.com/mamadbah2/inventaire/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	if err := mongoRepo.EnsureIndexes(context.Background()); err != nil {
		baseLogger.Fatal("failed to create indexes", zap.Error(err))
	}

	inventorySvc := inventorysvc.NewService(mongoRepo, baseLogger.Named("svc.inventory"))
	statsSvc := statssvc.NewService(mongoRepo, baseLogger.Named("svc.stats"))

	itemHandler := handlers.NewItemHandler(inventorySvc, baseLogger.Named("handlers.items"))
	statsHandler := handlers.NewStatsHandler(statsSvc, baseLogger.Named("handlers.stats"))
	engine := router.New(itemHandler, statsHandler, cfg.Auth.JWTSecret, baseLogger.Named("router"))

	// Snapshot export runs only when a target spreadsheet is configured.
	if cfg.SnapshotExportEnabled() {
		exporter, err := sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}

		sched := scheduler.NewScheduler(*cfg, mongoRepo, statsSvc, exporter, baseLogger.Named("scheduler"))
		sched.Start()
		defer sched.Stop()
	} else {
		baseLogger.Info("snapshot export disabled, no spreadsheet configured")
	}

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
