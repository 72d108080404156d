package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/ovinet/internal/config"
	"github.com/mamadbah2/ovinet/internal/repository"
	"github.com/mamadbah2/ovinet/internal/repository/localstore"
	"github.com/mamadbah2/ovinet/internal/repository/mongodb"
	"github.com/mamadbah2/ovinet/internal/repository/sheets"
	"github.com/mamadbah2/ovinet/internal/scheduler"
	"github.com/mamadbah2/ovinet/internal/server/handlers"
	"github.com/mamadbah2/ovinet/internal/server/router"
	breedingsvc "github.com/mamadbah2/ovinet/internal/service/breeding"
	insightsvc "github.com/mamadbah2/ovinet/internal/service/insight"
	manejosvc "github.com/mamadbah2/ovinet/internal/service/manejo"
	reportingsvc "github.com/mamadbah2/ovinet/internal/service/reporting"
	"github.com/mamadbah2/ovinet/pkg/clients/anthropic"
	"github.com/mamadbah2/ovinet/pkg/clients/notify"
	"github.com/mamadbah2/ovinet/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	// Storage: MongoDB when a URI is configured, JSON files otherwise.
	var (
		sheepStore  repository.SheepStore
		planStore   repository.PlanStore
		manejoStore repository.ManejoStore
		reportStore repository.ReportStore
	)
	if cfg.MongoDB.URI != "" {
		mongoRepo, err := mongodb.New(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		sheepStore, planStore, manejoStore, reportStore = mongoRepo.Sheep(), mongoRepo.Plans(), mongoRepo.Manejos(), mongoRepo.Reports()
		baseLogger.Info("storage backend: mongodb", zap.String("database", cfg.MongoDB.DBName))
	} else {
		local, err := localstore.New(cfg.Storage.DataDir)
		if err != nil {
			baseLogger.Fatal("failed to init local store", zap.Error(err))
		}
		sheepStore, planStore, manejoStore, reportStore = local.Sheep(), local.Plans(), local.Manejos(), local.Reports()
		baseLogger.Info("storage backend: local json files", zap.String("dir", cfg.Storage.DataDir))
	}

	var exporter reportingsvc.Exporter
	if cfg.SheetsEnabled() {
		sheetExporter, err := sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		exporter = sheetExporter
	} else {
		baseLogger.Warn("sheets credentials missing, report export disabled")
	}

	breedingSvc := breedingsvc.NewService(planStore, sheepStore, baseLogger.Named("svc.breeding"))
	manejoSvc := manejosvc.NewService(manejoStore, baseLogger.Named("svc.manejo"))
	reportingSvc := reportingsvc.NewService(sheepStore, planStore, manejoStore, reportStore, exporter, baseLogger.Named("svc.reporting"))

	var insightHandler *handlers.InsightHandler
	if cfg.AIEnabled() {
		aiClient := anthropic.NewClient(cfg.AI.AnthropicKey)
		insightSvc := insightsvc.NewService(sheepStore, planStore, aiClient, baseLogger.Named("svc.insight"))
		insightHandler = handlers.NewInsightHandler(insightSvc, baseLogger.Named("handlers.insight"))
		baseLogger.Info("anthropic ai client enabled")
	} else {
		baseLogger.Warn("anthropic api key missing, insight endpoints disabled")
	}

	var notifier notify.Client
	var notifyHandler *handlers.NotifyHandler
	if cfg.NotifyEnabled() {
		notifier = notify.NewClient(cfg.Notify)
		notifyHandler = handlers.NewNotifyHandler(notifier, baseLogger.Named("handlers.notify"))
		baseLogger.Info("whatsapp notifier enabled")
	} else {
		baseLogger.Warn("whatsapp credentials missing, scheduled digests log only")
	}

	breedingHandler := handlers.NewBreedingHandler(breedingSvc, baseLogger.Named("handlers.breeding"))
	manejoHandler := handlers.NewManejoHandler(manejoSvc, baseLogger.Named("handlers.manejo"))
	engine := router.New(breedingHandler, manejoHandler, insightHandler, notifyHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(*cfg, reportingSvc, manejoSvc, notifier, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

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
