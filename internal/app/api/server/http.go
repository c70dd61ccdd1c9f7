package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fatflowers/storetis/docs"
	"github.com/fatflowers/storetis/internal/app/api/handlers"
	mw "github.com/fatflowers/storetis/internal/app/api/middleware"
	"github.com/fatflowers/storetis/internal/app/service/account"
	"github.com/fatflowers/storetis/internal/app/service/blog"
	"github.com/fatflowers/storetis/internal/app/service/cart"
	"github.com/fatflowers/storetis/internal/app/service/catalog"
	"github.com/fatflowers/storetis/internal/app/service/checkout"
	"github.com/fatflowers/storetis/internal/app/service/consultation"
	"github.com/fatflowers/storetis/internal/app/service/order"
	"github.com/fatflowers/storetis/internal/app/service/search"
	"github.com/fatflowers/storetis/internal/app/service/statistics"
	"github.com/fatflowers/storetis/internal/app/service/subscription"
	"github.com/fatflowers/storetis/internal/platform/storage"
	cfgpkg "github.com/fatflowers/storetis/pkg/config"
	"github.com/fatflowers/storetis/pkg/metrics"
)

const metricsPath = "/metrics"

func newEngine(m *metrics.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(mw.TraceMiddleware(), m.Middleware(metricsPath))
	return r
}

type routeDeps struct {
	fx.In

	Log           *zap.SugaredLogger
	Cfg           *cfgpkg.Config
	Accounts      *account.Service
	Catalog       *catalog.Service
	Cart          *cart.Service
	Checkout      *checkout.Service
	Orders        *order.Service
	Subscriptions *subscription.Service
	Consultations *consultation.Service
	Statistics    *statistics.Service
	Blog          *blog.Service
	Search        *search.Service
	Images        *storage.Images
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(d.Log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if d.Cfg.Storage.Driver == cfgpkg.StorageDriverLocal && strings.HasPrefix(d.Cfg.Storage.BaseURL, "/") {
		pub.Static(d.Cfg.Storage.BaseURL, d.Cfg.Storage.LocalDir)
	}

	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(d.Log), mw.Authenticate(d.Accounts, d.Log), mw.AccessLogMiddleware())

	handlers.RegisterAuthRoutes(apiV1.Group("/auth"), d.Accounts)
	handlers.RegisterCatalogRoutes(apiV1, d.Catalog)
	handlers.RegisterBlogRoutes(apiV1.Group("/posts"), d.Blog)
	handlers.RegisterSearchRoutes(apiV1, d.Search)

	// Signed-in customers
	user := apiV1.Group("")
	user.Use(mw.RequireAuth())
	handlers.RegisterAccountRoutes(user.Group("/me"), d.Accounts, d.Subscriptions, d.Images)
	handlers.RegisterCartRoutes(user.Group("/cart"), d.Cart)
	handlers.RegisterCheckoutRoutes(user.Group("/checkout"), d.Checkout)
	handlers.RegisterOrderRoutes(user.Group("/orders"), d.Orders)
	user.POST("/services/:id/purchase", handlers.ApiPurchase(d.Subscriptions))
	user.POST("/services/:id/assign", handlers.ApiAssignToChild(d.Subscriptions))
	user.POST("/services/:id/consultation", handlers.ApiRequestConsultation(d.Consultations))

	registerAdminRoutes(apiV1.Group("/admin"), d)
}

// registerAdminRoutes mounts the back office. Every route, staff management
// included, is open to staff; superuser-only data is filtered by the services.
func registerAdminRoutes(admin *gin.RouterGroup, d routeDeps) {
	admin.Use(mw.RequireStaff())
	handlers.RegisterAdminCatalogRoutes(admin, d.Catalog, d.Images)
	handlers.RegisterAdminOrderRoutes(admin.Group("/orders"), d.Orders)
	handlers.RegisterAdminSubscriptionRoutes(admin.Group("/subscriptions"), d.Subscriptions)
	handlers.RegisterAdminConsultationRoutes(admin.Group("/consultations"), d.Consultations)
	handlers.RegisterAdminBlogRoutes(admin.Group("/posts"), d.Blog, d.Images)
	handlers.RegisterAdminUserRoutes(admin.Group("/users"), d.Accounts)
	handlers.RegisterStaffRoutes(admin.Group("/staff"), d.Accounts)
	handlers.RegisterStatisticsRoutes(admin, d.Statistics)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

// runMetricsServer exposes Prometheus metrics on their own listener so they
// stay off the public port.
func runMetricsServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, m *metrics.Registry) {
	if cfg.MetricsAddr == "" {
		return
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET(metricsPath, m.Handler())
	srv := &http.Server{Addr: cfg.MetricsAddr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Errorw("metrics server error", "err", err)
				}
			}()
			log.Infow("metrics started", "addr", cfg.MetricsAddr)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
	fx.Invoke(runMetricsServer),
)
