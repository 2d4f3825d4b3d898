package main

import (
	"context"

	"github.com/Behyna/cinefund/internal/api"
	v1 "github.com/Behyna/cinefund/internal/api/v1"
	"github.com/Behyna/cinefund/internal/api/validator"
	"github.com/Behyna/cinefund/internal/config"
	"github.com/Behyna/cinefund/internal/constants"
	"github.com/Behyna/cinefund/internal/database"
	middleware "github.com/Behyna/cinefund/internal/error"
	"github.com/Behyna/cinefund/internal/metrics"
	"github.com/Behyna/cinefund/internal/repository"
	"github.com/Behyna/cinefund/internal/service"
	"github.com/Behyna/cinefund/pkg/httpclient"
	"github.com/Behyna/cinefund/pkg/movieclient"
	"github.com/Behyna/cinefund/pkg/mq"
	playground "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const serviceName = "funding-api"

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			NewMetrics,

			database.NewConnection,
			NewMQConnection,
			NewMQPublisher,

			repository.NewInvestmentRepository,
			repository.NewTransactionRepository,
			repository.NewTransactionManager,

			NewMovieClient,
			service.NewInvestmentService,
			service.NewReturnsService,

			metrics.NewSystemCollector,
			NewDatabaseCollector,

			NewValidator,
			NewRootHandler,
			v1.NewHandler,
			NewFiberApp,
		),
		fx.Invoke(startServer),
	).Run()
}

func startServer(app *fiber.App, root *api.Handler, handler *v1.Handler, cfg *config.Config, db *gorm.DB,
	rabbit *mq.RabbitMQ, m *metrics.Metrics, system *metrics.SystemCollector,
	dbCollector *metrics.DatabaseMetricsCollector, logger *zap.Logger, lc fx.Lifecycle) {
	app.Use(metrics.HTTPMetricsMiddleware(m, logger))
	api.SetupRoutes(app, root, handler, prometheus.DefaultGatherer)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if cfg.API.AutoMigrate {
				if err := database.Migrate(db, logger); err != nil {
					return err
				}
			}

			if err := rabbit.DeclareTopology(constants.QueueReturns); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}

			system.Start(serviceName, cfg.Metrics.SystemInterval)
			dbCollector.Start(cfg.Metrics.DatabaseInterval)

			go func() {
				if err := app.Listen(cfg.API.Port); err != nil {
					logger.Error("http server exited", zap.Error(err))
				}
			}()

			logger.Info("funding api started", zap.String("port", cfg.API.Port), zap.String("version", metrics.Version))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping funding api")
			system.Stop()
			dbCollector.Stop()
			if err := app.ShutdownWithContext(ctx); err != nil {
				return err
			}
			return rabbit.Close()
		},
	})
}

func NewMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.DefaultRegisterer)
}

func NewFiberApp(logger *zap.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      serviceName,
		ErrorHandler: middleware.ErrorHandler(logger),
	})
}

func NewValidator(m *metrics.Metrics) (validator.IXValidator, error) {
	return validator.NewXValidator(playground.New(), m)
}

func NewRootHandler(logger *zap.Logger, dbCollector *metrics.DatabaseMetricsCollector) *api.Handler {
	return api.NewHandler(logger, dbCollector)
}

func NewDatabaseCollector(m *metrics.Metrics, logger *zap.Logger, db *gorm.DB,
	transactions repository.TransactionRepository) (*metrics.DatabaseMetricsCollector, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	return metrics.NewDatabaseMetricsCollector(m, logger, sqlDB, transactions), nil
}

func NewMovieClient(cfg *config.Config) movieclient.MovieClient {
	client := httpclient.NewHTTPClient(cfg.Movie.Timeout)
	return movieclient.NewMovieClient(cfg.Movie, client)
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.RabbitMQ, logger)
}

func NewMQPublisher(rabbitMQ *mq.RabbitMQ) (mq.Publisher, error) {
	return rabbitMQ.CreatePublisher()
}
