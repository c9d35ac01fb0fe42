package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/platipay/server/cmd/server/docs" // swagger docs
	"github.com/platipay/server/internal/module/order"
	"github.com/platipay/server/internal/module/payment"
	"github.com/platipay/server/internal/module/settings"
	"github.com/platipay/server/internal/shared/config"
	"github.com/platipay/server/internal/shared/database"
	"github.com/platipay/server/internal/shared/events"
	"github.com/platipay/server/internal/utils/metrics"
	"github.com/platipay/server/internal/utils/middleware"
)

// Dependencies holds all injected dependencies.
type Dependencies struct {
	Config       *config.Config
	DB           *gorm.DB
	Redis        goredis.UniversalClient
	Logger       *zap.Logger
	Metrics      *metrics.Metrics
	RateLimiter  middleware.RateLimiter
	JWTValidator middleware.JWTValidator
	Publisher    events.Publisher

	OrderService    *order.Service
	OrderHandler    *order.Handler
	SettingsService *settings.Service
	SettingsHandler *settings.Handler
	PaymentService  *payment.Service
	PaymentHandler  *payment.Handler
}

// App represents the application.
type App struct {
	deps    *Dependencies
	cleanup func()
	router  *gin.Engine
	server  *http.Server
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	deps, cleanup, err := InitializeDependencies(cfg)
	if err != nil {
		return nil, fmt.Errorf("init dependencies: %w", err)
	}

	a := &App{deps: deps, cleanup: cleanup}
	a.router = a.setupRouter()
	a.server = &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      a.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return a, nil
}

// setupRouter creates and configures the Gin router.
func (a *App) setupRouter() *gin.Engine {
	cfg := a.deps.Config
	log := a.deps.Logger

	if cfg.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID(log))
	r.Use(middleware.Logging(log))
	r.Use(middleware.Metrics(a.deps.Metrics))

	r.GET("/health", a.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	registerDocs(r)

	// Processor and browser facing routes. The processor authenticates with
	// the encrypted payload, so no auth middleware here.
	a.deps.PaymentHandler.RegisterRoutes(r,
		middleware.RateLimitByIP(a.deps.RateLimiter, cfg.Server.PayRateLimit, cfg.Server.PayRateWindow, log))

	admin := r.Group("/admin")
	admin.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	admin.Use(middleware.RequireAuth(a.deps.JWTValidator))
	a.deps.OrderHandler.RegisterProtectedRoutes(admin)
	a.deps.SettingsHandler.RegisterProtectedRoutes(admin)

	return r
}

// registerDocs serves the swagger UI and spec under /swagger.
func registerDocs(r gin.IRouter) {
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}

func (a *App) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := database.Ping(ctx, a.deps.DB); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Logger returns the application logger.
func (a *App) Logger() *zap.Logger {
	return a.deps.Logger
}

// PaymentService returns the reconciliation service.
func (a *App) PaymentService() *payment.Service {
	return a.deps.PaymentService
}

// SettingsService returns the merchant settings service.
func (a *App) SettingsService() *settings.Service {
	return a.deps.SettingsService
}

// Run serves HTTP until ctx is cancelled, then shuts the server down.
func (a *App) Run(ctx context.Context) error {
	log := a.deps.Logger
	errCh := make(chan error, 1)

	go func() {
		log.Info("Starting server", zap.String("address", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http: %w", err)
	}
	return nil
}

// Stop stops the application and releases resources.
func (a *App) Stop() {
	if a.cleanup != nil {
		a.cleanup()
	}
	if a.deps.Logger != nil {
		_ = a.deps.Logger.Sync()
	}
}
