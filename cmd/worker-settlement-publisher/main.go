package main

import (
	"context"
	"time"

	"github.com/Kha-Noob/liteflow-sub002/internal/config"
	"github.com/Kha-Noob/liteflow-sub002/internal/metrics"
	"github.com/Kha-Noob/liteflow-sub002/internal/publishers"
	"github.com/Kha-Noob/liteflow-sub002/internal/repository"
	"github.com/Kha-Noob/liteflow-sub002/internal/service"
	"github.com/Kha-Noob/liteflow-sub002/pkg/mq"
	"github.com/Kha-Noob/liteflow-sub002/pkg/mysql"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,

			NewConnectionDB,
			NewMQConnection,
			NewMQPublisher,
			NewMetrics,

			repository.NewSettlementEventRepository,

			service.NewSystemClock,
			service.NewSettlementQueueService,

			publishers.NewSettlementPublisher,
		),
		fx.Invoke(runSettlementPublisher),
	).Run()
}

func runSettlementPublisher(cfg *config.Config, publisher publishers.SettlementPublisher, logger *zap.Logger,
	rabbit *mq.RabbitMQ, lc fx.Lifecycle) {
	appCtx, cancel := context.WithCancel(context.Background())
	queue := cfg.Publisher.Queue

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology([]string{queue}); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}

			logger.Info("queue declared", zap.String("queue", queue))

			go func() {
				ticker := time.NewTicker(cfg.Publisher.Interval)
				defer ticker.Stop()

				for {
					select {
					case <-ticker.C:
						if err := publisher.Publish(appCtx); err != nil {
							logger.Error("failed to publish settlements", zap.Error(err))
						}
					case <-appCtx.Done():
						logger.Info("publisher context cancelled")
						return
					}
				}
			}()

			logger.Info("settlement publisher started", zap.Duration("interval", cfg.Publisher.Interval))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping settlement publisher")
			cancel()
			return rabbit.Close()
		},
	})
}

func NewConnectionDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	ctx := context.Background()
	return mysql.NewConnection(ctx, cfg.Database, logger)
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.RabbitMQ, logger)
}

func NewMQPublisher(rabbitMQ *mq.RabbitMQ) (mq.Publisher, error) {
	return rabbitMQ.CreatePublisher()
}

func NewMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.DefaultRegisterer)
}
