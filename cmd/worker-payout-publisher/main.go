package main

import (
	"context"
	"time"

	"github.com/Behyna/cinefund/internal/config"
	"github.com/Behyna/cinefund/internal/constants"
	"github.com/Behyna/cinefund/internal/database"
	"github.com/Behyna/cinefund/internal/metrics"
	"github.com/Behyna/cinefund/internal/publishers"
	"github.com/Behyna/cinefund/internal/repository"
	"github.com/Behyna/cinefund/internal/service"
	"github.com/Behyna/cinefund/pkg/mq"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const serviceName = "funding-worker-payout-publisher"

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			NewMetrics,

			database.NewConnection,
			NewMQConnection,
			NewMQPublisher,

			repository.NewTransactionRepository,
			service.NewPayoutQueueService,

			metrics.NewSystemCollector,
			NewDatabaseCollector,
			publishers.NewPayoutPublisher,
		),
		fx.Invoke(runPayoutPublisher),
	).Run()
}

func runPayoutPublisher(cfg *config.Config, publisher publishers.PayoutPublisher, logger *zap.Logger,
	rabbit *mq.RabbitMQ, system *metrics.SystemCollector, dbCollector *metrics.DatabaseMetricsCollector,
	lc fx.Lifecycle) {
	appCtx, cancel := context.WithCancel(context.Background())
	metricsServer := metrics.NewServer(prometheus.DefaultGatherer)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology(constants.QueuePayout); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}

			system.Start(serviceName, cfg.Metrics.SystemInterval)
			dbCollector.Start(cfg.Metrics.DatabaseInterval)
			go func() {
				if err := metricsServer.Listen(cfg.Metrics.Port); err != nil {
					logger.Error("metrics server exited", zap.Error(err))
				}
			}()

			go func() {
				ticker := time.NewTicker(cfg.Worker.PublishInterval)
				defer ticker.Stop()

				for {
					select {
					case <-ticker.C:
						if err := publisher.Publish(appCtx); err != nil {
							logger.Error("failed to publish payouts", zap.Error(err))
						}
					case <-appCtx.Done():
						logger.Info("publisher context cancelled")
						return
					}
				}
			}()

			logger.Info("payout publisher started", zap.Duration("interval", cfg.Worker.PublishInterval))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping payout publisher")
			cancel()
			system.Stop()
			dbCollector.Stop()
			_ = metricsServer.ShutdownWithContext(ctx)
			return rabbit.Close()
		},
	})
}

func NewMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.DefaultRegisterer)
}

func NewDatabaseCollector(m *metrics.Metrics, logger *zap.Logger, db *gorm.DB,
	transactions repository.TransactionRepository) (*metrics.DatabaseMetricsCollector, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	return metrics.NewDatabaseMetricsCollector(m, logger, sqlDB, transactions), nil
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.RabbitMQ, logger)
}

func NewMQPublisher(rabbitMQ *mq.RabbitMQ) (mq.Publisher, error) {
	return rabbitMQ.CreatePublisher()
}
