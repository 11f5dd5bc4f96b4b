package main

import (
	"context"

	"github.com/Kha-Noob/liteflow-sub002/internal/api"
	v1 "github.com/Kha-Noob/liteflow-sub002/internal/api/v1"
	"github.com/Kha-Noob/liteflow-sub002/internal/api/v1/middleware"
	"github.com/Kha-Noob/liteflow-sub002/internal/api/validator"
	"github.com/Kha-Noob/liteflow-sub002/internal/config"
	apperrors "github.com/Kha-Noob/liteflow-sub002/internal/errors"
	"github.com/Kha-Noob/liteflow-sub002/internal/metrics"
	"github.com/Kha-Noob/liteflow-sub002/internal/repository"
	"github.com/Kha-Noob/liteflow-sub002/internal/service"
	"github.com/Kha-Noob/liteflow-sub002/pkg/mysql"
	"github.com/Kha-Noob/liteflow-sub002/pkg/paymentgateway"
	playground "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	serviceName = "liteflow-payment"
	version     = "1.0.0"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,

			NewConnectionDB,
			NewMetrics,
			NewPaymentGateway,
			NewXValidator,
			NewFiberApp,

			metrics.NewSystemCollector,
			metrics.NewDatabaseMetricsCollector,

			repository.NewTransactionManager,
			repository.NewTransactionRepository,
			repository.NewSessionRepository,
			repository.NewOrderRepository,
			repository.NewTableRepository,
			repository.NewSettlementEventRepository,

			service.NewSystemClock,
			service.NewPaymentRequestService,
			service.NewCallbackValidator,
			service.NewReconcileService,

			v1.NewHandler,
		),
		fx.Invoke(migrate, startServer),
	).Run()
}

func startServer(app *fiber.App, handler *v1.Handler, cfg *config.Config, logger *zap.Logger,
	systemCollector *metrics.SystemCollector, dbCollector *metrics.DatabaseMetricsCollector,
	m *metrics.Metrics, db *gorm.DB, lc fx.Lifecycle) error {
	if err := dbCollector.Instrument(db); err != nil {
		return err
	}

	app.Use(middleware.HealthCheckMiddleware(serviceName, dbCollector.HealthCheck))
	app.Use(middleware.HTTPMetricsMiddleware(m, logger))
	api.SetupRoutes(app, handler)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			systemCollector.Start(cfg.Metrics.CollectInterval, version)
			dbCollector.Start(cfg.Metrics.CollectInterval)

			go func() {
				if err := app.Listen(cfg.API.Port); err != nil {
					logger.Error("http server stopped", zap.Error(err))
				}
			}()

			logger.Info("payment api started", zap.String("port", cfg.API.Port))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			systemCollector.Stop()
			dbCollector.Stop()
			return app.ShutdownWithContext(ctx)
		},
	})

	return nil
}

func migrate(db *gorm.DB, logger *zap.Logger) error {
	if err := repository.Migrate(db); err != nil {
		logger.Error("migration failed", zap.Error(err))
		return err
	}
	return nil
}

func NewConnectionDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	ctx := context.Background()
	return mysql.NewConnection(ctx, cfg.Database, logger)
}

func NewMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.DefaultRegisterer)
}

func NewPaymentGateway(cfg *config.Config) (paymentgateway.Gateway, error) {
	return paymentgateway.NewPaymentGateway(cfg.Gateway)
}

func NewXValidator(m *metrics.Metrics) (validator.IXValidator, error) {
	return validator.NewXValidator(playground.New(), m)
}

// NewFiberApp trusts the proxy header only for requests from the configured proxies, so
// c.IP() is the payer's address behind a load balancer and the peer address otherwise.
func NewFiberApp(cfg *config.Config, logger *zap.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:                 serviceName,
		ErrorHandler:            apperrors.ErrorHandler(logger),
		ProxyHeader:             cfg.API.ProxyHeader,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          cfg.API.TrustedProxies,
		EnableIPValidation:      true,
	})
}
