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
	"github.com/Behyna/cinefund/pkg/httpclient"
	"github.com/Behyna/cinefund/pkg/mq"
	"github.com/Behyna/cinefund/pkg/walletgateway"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const serviceName = "funding-worker-payout"

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			NewMetrics,

			database.NewConnection,
			NewMQConnection,
			NewMQConsumer,

			repository.NewTransactionRepository,
			NewWalletGateway,
			service.NewWalletService,
			service.NewPayoutService,

			metrics.NewSystemCollector,
			consumers.NewPayoutConsumer,
		),
		fx.Invoke(runPayoutConsumer),
	).Run()
}

func runPayoutConsumer(cfg *config.Config, payoutConsumer consumers.PayoutConsumer, logger *zap.Logger,
	rabbit *mq.RabbitMQ, system *metrics.SystemCollector, lc fx.Lifecycle) {
	appCtx, cancel := context.WithCancel(context.Background())
	metricsServer := metrics.NewServer(prometheus.DefaultGatherer)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology(constants.QueuePayout); err != nil {
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
				if err := payoutConsumer.Consume(appCtx); err != nil {
					logger.Error("consumer exited", zap.Error(err))
				}
			}()

			logger.Info("payout consumer started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping payout consumer")
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

func NewWalletGateway(cfg *config.Config) walletgateway.WalletGateway {
	client := httpclient.NewHTTPClient(cfg.Wallet.Timeout)
	return walletgateway.NewWalletGateway(cfg.Wallet, client)
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.RabbitMQ, logger)
}

func NewMQConsumer(rabbitMQ *mq.RabbitMQ) (mq.Consumer, error) {
	return rabbitMQ.CreateConsumer()
}
