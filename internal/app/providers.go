package app

import (
	"context"
	"net/http"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/platipay/server/internal/module/order"
	"github.com/platipay/server/internal/module/payment"
	"github.com/platipay/server/internal/module/payment/provider"
	"github.com/platipay/server/internal/module/settings"
	"github.com/platipay/server/internal/shared/cache"
	"github.com/platipay/server/internal/shared/config"
	"github.com/platipay/server/internal/shared/database"
	"github.com/platipay/server/internal/shared/events"
	"github.com/platipay/server/internal/shared/logger"
	"github.com/platipay/server/internal/utils/metrics"
	"github.com/platipay/server/internal/utils/middleware"
)

// ===== Infrastructure Providers =====

// InfraSet provides infrastructure dependencies.
var InfraSet = wire.NewSet(
	ProvideZapLogger,
	ProvideMetrics,
	ProvideDatabase,
	ProvideRedisClient,
	ProvideRateLimiter,
	ProvideJWTValidator,
	ProvideEventPublisher,
)

// ProvideZapLogger creates the process logger.
func ProvideZapLogger(cfg *config.Config) *zap.Logger {
	return logger.NewZapLogger(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
}

// ProvideMetrics creates a metrics instance on the default registry.
func ProvideMetrics() *metrics.Metrics {
	return metrics.New("platipay", prometheus.DefaultRegisterer)
}

// ProvideDatabase opens the database and migrates the schema when enabled.
func ProvideDatabase(cfg *config.Config, zapLog *zap.Logger) (*gorm.DB, func(), error) {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := database.Close(db); err != nil {
			zapLog.Warn("close database", zap.Error(err))
		}
	}

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, &order.Order{}, &order.OrderNote{}, &settings.Setting{}); err != nil {
			cleanup()
			return nil, nil, err
		}
	}
	return db, cleanup, nil
}

// ProvideRedisClient creates a Redis client. Redis is optional: nil is returned
// when no address is configured or the server cannot be reached.
func ProvideRedisClient(cfg *config.Config, zapLog *zap.Logger) (goredis.UniversalClient, func()) {
	if cfg.Redis.Address == "" {
		return nil, func() {}
	}
	client, err := cache.NewRedisClient(context.Background(), &cfg.Redis)
	if err != nil {
		zapLog.Warn("Redis connection failed, continuing without cache", zap.Error(err))
		return nil, func() {}
	}
	return client, func() { _ = cache.Close(client) }
}

// ProvideRateLimiter creates the Pay route limiter, or nil without Redis.
func ProvideRateLimiter(client goredis.UniversalClient) middleware.RateLimiter {
	if client == nil {
		return nil
	}
	return cache.NewRateLimiter(client)
}

// ProvideJWTValidator creates the admin token validator.
func ProvideJWTValidator(cfg *config.Config) middleware.JWTValidator {
	return middleware.NewHMACValidator(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
}

// ProvideEventPublisher publishes to Kafka when brokers are configured and to
// the log otherwise.
func ProvideEventPublisher(cfg *config.Config, zapLog *zap.Logger) (events.Publisher, func()) {
	var pub events.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		pub = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, zapLog)
	} else {
		pub = events.NewLogPublisher(zapLog)
	}
	return pub, func() {
		if err := pub.Close(); err != nil {
			zapLog.Warn("close event publisher", zap.Error(err))
		}
	}
}

// ===== Order Providers =====

// OrderSet provides order dependencies.
var OrderSet = wire.NewSet(
	order.NewRepository,
	order.NewService,
	order.NewHandler,
)

// ===== Settings Providers =====

// SettingsSet provides settings dependencies.
var SettingsSet = wire.NewSet(
	settings.NewRepository,
	ProvideSettingsCache,
	ProvideSettingsService,
	settings.NewHandler,
)

// ProvideSettingsCache caches settings in Redis when available.
func ProvideSettingsCache(cfg *config.Config, client goredis.UniversalClient, m *metrics.Metrics, zapLog *zap.Logger) settings.Cache {
	if client == nil {
		return settings.NewNoopCache()
	}
	c, err := settings.NewRedisCache(client, cfg.Redis.SettingsTTL, cfg.Redis.SettingsKey, m)
	if err != nil {
		zapLog.Warn("settings cache disabled", zap.Error(err))
		return settings.NewNoopCache()
	}
	return c
}

// ProvideSettingsService creates the settings service seeded with config defaults.
func ProvideSettingsService(cfg *config.Config, repo settings.Repository, c settings.Cache, zapLog *zap.Logger) *settings.Service {
	return settings.NewService(repo, c, settings.DefaultsFromConfig(cfg.PlatiOnline), zapLog)
}

// ===== Payment Providers =====

// PaymentSet provides payment dependencies.
var PaymentSet = wire.NewSet(
	ProvideExchangeLogs,
	ProvideGateway,
	ProvideCurrencyConverter,
	ProvidePaymentService,
	ProvidePaymentHandler,
)

// ProvideExchangeLogs opens the processor exchange log files on demand.
func ProvideExchangeLogs(cfg *config.Config, zapLog *zap.Logger) (*logger.FileLoggers, func()) {
	logs := logger.NewFileLoggers(cfg.Log.Level, zapLog)
	return logs, func() { _ = logs.Close() }
}

// ProvideGateway creates the PlatiOnline gateway.
func ProvideGateway(cfg *config.Config, logs *logger.FileLoggers, m *metrics.Metrics, zapLog *zap.Logger) provider.Gateway {
	gw := cfg.Gateway
	return provider.NewPlatiOnline(provider.Config{
		AuthorizationURL: gw.AuthorizationURL,
		QueryURL:         gw.QueryURL,
		Timeout:          gw.Timeout,
		FailureThreshold: gw.FailureThreshold,
		BreakerTimeout:   gw.BreakerTimeout,
	}, &http.Client{Timeout: gw.Timeout}, logs, m, zapLog)
}

// ProvideCurrencyConverter creates the configured rate table.
func ProvideCurrencyConverter(cfg *config.Config) payment.CurrencyConverter {
	return payment.NewRateTable(cfg.PlatiOnline.ExchangeRates)
}

// ProvidePaymentService creates the reconciliation service.
func ProvidePaymentService(
	gateway provider.Gateway,
	orders *order.Service,
	publisher events.Publisher,
	converter payment.CurrencyConverter,
	m *metrics.Metrics,
	zapLog *zap.Logger,
) *payment.Service {
	return payment.NewService(gateway, orders, publisher, converter, m, zapLog)
}

// ProvidePaymentHandler creates the PlatiOnline routes handler for the configured store.
func ProvidePaymentHandler(cfg *config.Config, service *payment.Service, loader *settings.Service, zapLog *zap.Logger) *payment.Handler {
	return payment.NewHandler(service, loader, cfg.Server.StoreID, zapLog)
}

// ===== Master Set =====

// AppSet is the master provider set that includes all dependencies.
var AppSet = wire.NewSet(
	InfraSet,
	OrderSet,
	SettingsSet,
	PaymentSet,
)
