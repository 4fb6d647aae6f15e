package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/fasttrackbd/courier/internal/analytics"
	"github.com/fasttrackbd/courier/internal/auth"
	"github.com/fasttrackbd/courier/internal/bulk"
	"github.com/fasttrackbd/courier/internal/config"
	"github.com/fasttrackbd/courier/internal/http/handlers"
	"github.com/fasttrackbd/courier/internal/http/middlewares"
	"github.com/fasttrackbd/courier/internal/observability"
	repo "github.com/fasttrackbd/courier/internal/repo/jsonfile"
	"github.com/fasttrackbd/courier/internal/webhooks"
)

type Deps struct {
	Log      *slog.Logger
	Cfg      config.Config
	Prom     *observability.Prom
	Registry *prometheus.Registry

	Parcels  *repo.ParcelsRepo
	Users    *repo.UsersRepo
	Keys     *repo.APIKeysRepo
	Webhooks *repo.WebhooksRepo

	Dispatcher *webhooks.Dispatcher
	JWT        *auth.Manager

	Ready func() error
}

func NewRouter(d Deps) *gin.Engine {
	if d.Cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(d.Log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(d.Cfg.CORSOrigins))
	r.Use(otelgin.Middleware("courier-api"))
	r.Use(d.Prom.GinHandleMiddleware())
	// bulk uploads are capped separately at 5MB; leave headroom for multipart framing
	r.Use(middlewares.MaxBodyBytes(8 << 20))

	rl := middlewares.NewRateLimiter(d.Cfg.RateLimit, d.Cfg.RateWindow)

	// handlers

	healthHandler := handlers.NewHealthHandler(d.Ready)
	authMw := middlewares.NewAuthMiddleware(d.JWT)
	keyMw := middlewares.NewAPIKeyMiddleware(d.Keys)

	parcelsHandler := handlers.NewParcelsHandler(d.Parcels, d.Dispatcher)
	bulkHandler := handlers.NewBulkHandler(bulk.NewImporter(d.Parcels))
	authHandler := handlers.NewAuthHandler(d.Users, d.JWT, d.Cfg)
	analyticsHandler := handlers.NewAnalyticsHandler(analytics.NewAggregator(d.Parcels))
	keysHandler := handlers.NewAPIKeysHandler(d.Keys)
	webhooksHandler := handlers.NewWebhooksHandler(d.Webhooks)
	publicHandler := handlers.NewPublicAPIHandler(d.Parcels)

	// ops

	r.GET("/healthz", healthHandler.Healthz)
	r.GET("/readyz", healthHandler.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))

	// first-party app routes

	api := r.Group("/api")
	api.Use(rl.RateLimiterMiddleware(middlewares.KeyByUserOrIP))

	api.GET("/parcels", parcelsHandler.ListParcels)
	api.POST("/parcels", middlewares.RequireJSON(), parcelsHandler.CreateParcel)
	api.POST("/track", middlewares.RequireJSON(), parcelsHandler.TrackParcel)

	api.POST("/register", middlewares.RequireJSON(), authHandler.Register)
	api.POST("/login", middlewares.RequireJSON(), authHandler.Login)
	api.GET("/me", authMw.RequireAuth(), authHandler.Me)

	// admin-only parcel mutations

	adminParcels := api.Group("")
	adminParcels.Use(authMw.RequireAuth(), authMw.RequireRole("admin"))

	adminParcels.PUT("/parcels/:id", middlewares.RequireJSON(), parcelsHandler.UpdateStatus)
	adminParcels.DELETE("/parcels/:id", parcelsHandler.DeleteParcel)
	adminParcels.POST("/parcels/bulk", bulkHandler.Upload)

	// analytics dashboard

	stats := api.Group("/analytics")
	stats.Use(authMw.RequireAuth(), authMw.RequireRole("admin"))

	stats.GET("/overview", analyticsHandler.Overview)
	stats.GET("/orders-by-status", analyticsHandler.OrdersByStatus)
	stats.GET("/orders-by-type", analyticsHandler.OrdersByType)
	stats.GET("/daily-trend", analyticsHandler.DailyTrend)
	stats.GET("/revenue", analyticsHandler.RevenueByRange)
	stats.GET("/recent", analyticsHandler.RecentActivity)
	stats.GET("/export", analyticsHandler.ExportCSV)

	// API key + webhook administration

	admin := api.Group("/admin")
	admin.Use(authMw.RequireAuth(), authMw.RequireRole("admin"))

	admin.GET("/api-keys", keysHandler.ListKeys)
	admin.POST("/api-keys", middlewares.RequireJSON(), keysHandler.CreateKey)
	admin.POST("/api-keys/:id/revoke", keysHandler.RevokeKey)
	admin.DELETE("/api-keys/:id", keysHandler.DeleteKey)

	admin.GET("/webhooks", webhooksHandler.ListWebhooks)
	admin.POST("/webhooks", middlewares.RequireJSON(), webhooksHandler.RegisterWebhook)
	admin.DELETE("/webhooks/:id", webhooksHandler.DeleteWebhook)

	// versioned third-party API, gated by X-API-Key

	v1 := r.Group("/v1")
	v1.Use(rl.RateLimiterMiddleware(middlewares.KeyByIP), keyMw.Require())

	v1.GET("/parcels", publicHandler.ListParcels)
	v1.GET("/parcels/:id", publicHandler.GetParcel)
	v1.POST("/parcels", middlewares.RequireJSON(), publicHandler.CreateParcel)
	v1.GET("/track/:id", publicHandler.TrackParcel)

	return r
}
