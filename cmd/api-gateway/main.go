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
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/rajbhasha-api/api/swagger"
	"github.com/noah-isme/rajbhasha-api/internal/handler"
	"github.com/noah-isme/rajbhasha-api/internal/repository"
	"github.com/noah-isme/rajbhasha-api/internal/service"
	"github.com/noah-isme/rajbhasha-api/migrations"
	"github.com/noah-isme/rajbhasha-api/pkg/cache"
	"github.com/noah-isme/rajbhasha-api/pkg/config"
	"github.com/noah-isme/rajbhasha-api/pkg/database"
	"github.com/noah-isme/rajbhasha-api/pkg/export"
	"github.com/noah-isme/rajbhasha-api/pkg/jobs"
	"github.com/noah-isme/rajbhasha-api/pkg/logger"
	"github.com/noah-isme/rajbhasha-api/pkg/storage"
)

// @title Rajbhasha Register API
// @version 1.0.0
// @description Inward/outward correspondence register and the monthly Rajbhasha compliance report.
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	if cfg.Migrations.AutoApply {
		if err := applyMigrations(cfg.Database); err != nil {
			logr.Fatal("failed to apply migrations", zap.Error(err))
		}
		logr.Info("migrations applied")
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, render cache disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	app, err := buildApp(cfg, db, redisClient, logr)
	if err != nil {
		logr.Fatal("failed to build application", zap.Error(err))
	}

	if app.queue != nil {
		app.queue.Start(ctx)
		defer app.queue.Stop()
		app.jobs.RecoverPendingJobs(ctx)
		app.jobs.StartCleanup(ctx)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           app.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("pdf_engine", app.pdfEngine))
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

type app struct {
	router    *gin.Engine
	queue     *jobs.Queue
	jobs      *service.ReportJobService
	pdfEngine string
}

func buildApp(cfg *config.Config, db *sqlx.DB, redisClient *redis.Client, logr *zap.Logger) (*app, error) {
	validate := validator.New()
	metrics := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	statsRepo := repository.NewReportStatsRepository(db)
	counterRepo := repository.NewCounterRepository(db)
	recordRepo := repository.NewRecordRepository(db)
	jobRepo := repository.NewReportJobRepository(db)

	var cacheRepo service.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Report.RenderCacheTTL, logr, cfg.Report.RenderCacheEnabled)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	reportSvc := service.NewReportDataService(statsRepo, metrics, logr)
	counterSvc := service.NewCounterService(counterRepo, validate, logr)
	recordSvc := service.NewRecordService(recordRepo, validate, logr)

	htmlRenderer := export.NewHTMLRenderer()
	renderer := service.NewReportRenderer(htmlRenderer)
	pdfSvc := service.NewPDFExportService(newPDFEngine(cfg.PDF, htmlRenderer), metrics, logr)
	renderCache := service.NewRenderCache(cacheSvc, cfg.Report.RenderCacheTTL)

	a := &app{pdfEngine: pdfSvc.Engine()}

	var jobHandler *handler.ReportJobHandler
	if cfg.Reports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			return nil, fmt.Errorf("init report storage: %w", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		exporter := service.NewExportService(reportSvc, renderer, pdfSvc, store, signer, metrics, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Reports.SignedURLTTL,
		}, logr)

		worker := service.NewReportWorker(jobRepo, exporter, logr)
		a.queue = jobs.NewQueue("reports", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Reports.WorkerConcurrency,
			MaxRetries: cfg.Reports.WorkerRetries,
			RetryDelay: 5 * time.Second,
			OnGiveUp:   worker.GiveUp,
			Logger:     logr,
		})
		a.jobs = service.NewReportJobService(jobRepo, a.queue, exporter, logr, service.ReportJobConfig{
			ResultTTL:       cfg.Reports.SignedURLTTL,
			CleanupInterval: cfg.Reports.CleanupInterval,
		})
		jobHandler = handler.NewReportJobHandler(a.jobs)
	}

	checks := map[string]handler.Pinger{"postgres": db}
	if redisClient != nil {
		checks["redis"] = handler.PingerFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	a.router = newRouter(cfg, logr, metrics, authSvc, handlers{
		auth:    handler.NewAuthHandler(authSvc),
		users:   handler.NewUserHandler(userSvc),
		report:  handler.NewReportHandler(reportSvc, renderer, pdfSvc, renderCache, userRepo, logr),
		jobs:    jobHandler,
		counter: handler.NewCounterHandler(counterSvc),
		record:  handler.NewRecordHandler(recordSvc),
		metrics: handler.NewMetricsHandler(metrics, checks),
	})
	return a, nil
}

func newPDFEngine(cfg config.PDFConfig, html *export.HTMLRenderer) export.PDFEngine {
	if cfg.Engine == config.PDFEngineNative {
		return export.NewNativeEngine()
	}
	return export.NewBrowserEngine(html, cfg.ChromePath, cfg.Timeout)
}

func applyMigrations(cfg config.DatabaseConfig) error {
	migrator, err := database.NewMigrator(database.DSN(cfg), migrations.FS, migrations.Dir)
	if err != nil {
		return err
	}
	defer migrator.Close() //nolint:errcheck
	return migrator.Up()
}
