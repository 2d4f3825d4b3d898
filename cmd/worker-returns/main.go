package main

import (
	"context"

	"github.com/Behyna/cinefund/internal/config"
	"github.com/Behyna/cinefund/internal/constants"
	"github.com/Behyna/cinefund/internal/consumers"
	"github.com/Behyna/cinefund/internal/database"
	"github.com/Behyna/cinefund/internal/metrics"
	"github.com/Behyna/cinefund/internal/repository"
	"github.com/Behyna/cinefund/internal/service"
	"github.com/Behyna/cinefund/pkg/mq"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const serviceName = "funding-worker-returns"

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			NewMetrics,

			database.NewConnection,
			NewMQConnection,
			NewMQConsumer,

			repository.NewInvestmentRepository,
			repository.NewTransactionRepository,
			repository.NewTransactionManager,
			service.NewReturnsService,

			metrics.NewSystemCollector,
			consumers.NewReturnsConsumer,
		),
		fx.Invoke(runReturnsConsumer),
	).Run()
}

func runReturnsConsumer(cfg *config.Config, returnsConsumer consumers.ReturnsConsumer, logger *zap.Logger,
	rabbit *mq.RabbitMQ, system *metrics.SystemCollector, lc fx.Lifecycle) {
	appCtx, cancel := context.WithCancel(context.Background())
	metricsServer := metrics.NewServer(prometheus.DefaultGatherer)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology(constants.QueueReturns); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}

			system.Start(serviceName, cfg.Metrics.SystemInterval)
			go func() {
				if err := metricsServer.Listen(cfg.Metrics.Port); err != nil {
					logger.Error("metrics server exited", zap.Error(err))
				}
			}()

			go func() {
				if err := returnsConsumer.Consume(appCtx); err != nil {
					logger.Error("consumer exited", zap.Error(err))
				}
			}()

			logger.Info("returns consumer started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping returns consumer")
			cancel()
			system.Stop()
			_ = metricsServer.ShutdownWithContext(ctx)
			return rabbit.Close()
		},
	})
}

func NewMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.DefaultRegisterer)
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.RabbitMQ, logger)
}

func NewMQConsumer(rabbitMQ *mq.RabbitMQ) (mq.Consumer, error) {
	return rabbitMQ.CreateConsumer()
}
