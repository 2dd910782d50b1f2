package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/rajbhasha-api/internal/handler"
	"github.com/noah-isme/rajbhasha-api/internal/middleware"
	"github.com/noah-isme/rajbhasha-api/internal/models"
	"github.com/noah-isme/rajbhasha-api/internal/service"
	"github.com/noah-isme/rajbhasha-api/pkg/config"
	"github.com/noah-isme/rajbhasha-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/rajbhasha-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/rajbhasha-api/pkg/middleware/requestid"
)

type handlers struct {
	auth    *handler.AuthHandler
	users   *handler.UserHandler
	report  *handler.ReportHandler
	jobs    *handler.ReportJobHandler
	counter *handler.CounterHandler
	record  *handler.RecordHandler
	metrics *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, metrics *service.MetricsService, authSvc *service.AuthService, h handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	r.GET("/metrics", h.metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", h.auth.Login)
	if h.jobs != nil {
		api.GET("/export/:token", h.jobs.DownloadReport)
	}

	secured := api.Group("")
	secured.Use(middleware.JWT(authSvc))
	secured.GET("/auth/me", h.auth.Me)

	secured.GET("/notings", h.counter.Notings)
	secured.POST("/notings/save", h.counter.SaveNotings)
	secured.GET("/emails", h.counter.Emails)
	secured.POST("/emails/save", h.counter.SaveEmails)

	secured.POST("/inward", h.record.CreateInward)
	secured.POST("/outward", h.record.CreateOutward)
	secured.GET("/inward/search", h.record.SearchInward)
	secured.GET("/inward/recent", h.record.RecentInward)
	secured.GET("/outward/recent", h.record.RecentOutward)
	secured.GET("/regions/states", h.record.States)

	admin := secured.Group("/admin")
	admin.Use(middleware.RequireRoles(models.RoleAdmin))
	admin.GET("/users", h.users.List)
	admin.POST("/users", h.users.Create)
	admin.GET("/users/:id", h.users.Get)
	admin.PATCH("/users/:id", h.users.Update)
	admin.DELETE("/users/:id", h.users.Delete)

	report := admin.Group("/report")
	report.POST("/data", h.report.ReportData)
	report.POST("/view", h.report.ReportView)
	report.POST("/pdf", h.report.ReportPDF)
	report.DELETE("/cache", h.report.InvalidateCache)
	report.GET("/groups", h.report.Groups)

	if h.jobs != nil {
		admin.POST("/reports/generate", h.jobs.GenerateReport)
		admin.GET("/reports/status/:id", h.jobs.ReportStatus)
	}

	return r
}
