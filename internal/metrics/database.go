package metrics

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const slowQueryThreshold = 100 * time.Millisecond

type Pool interface {
	Stats() sql.DBStats
	PingContext(ctx context.Context) error
}

// OutboxCounter reports how many payouts still wait to be published.
type OutboxCounter interface {
	CountUnpublishedPayouts(ctx context.Context) (int64, error)
}

// DatabaseMetricsCollector samples the connection pool and the payout outbox
// backlog, and times the queries it runs itself.
type DatabaseMetricsCollector struct {
	metrics *Metrics
	logger  *zap.Logger
	pool    Pool
	outbox  OutboxCounter
	loop    *loop
}

func NewDatabaseMetricsCollector(metrics *Metrics, logger *zap.Logger, pool Pool,
	outbox OutboxCounter) *DatabaseMetricsCollector {
	return &DatabaseMetricsCollector{metrics: metrics, logger: logger, pool: pool, outbox: outbox}
}

func (dmc *DatabaseMetricsCollector) Start(interval time.Duration) {
	dmc.loop = startLoop(interval, dmc.collect)
	dmc.logger.Info("Database metrics collector started", zap.Duration("interval", interval))
}

func (dmc *DatabaseMetricsCollector) Stop() {
	dmc.loop.stop()
}

func (dmc *DatabaseMetricsCollector) collect(ctx context.Context) {
	stats := dmc.pool.Stats()
	dmc.metrics.DBConnectionsInUse.Set(float64(stats.InUse))
	dmc.metrics.DBConnectionsIdle.Set(float64(stats.Idle))
	dmc.metrics.DBConnectionWaits.Set(float64(stats.WaitCount))

	if dmc.outbox == nil {
		return
	}

	var backlog int64
	err := dmc.WithMetrics("count", "transactions", func() error {
		var err error
		backlog, err = dmc.outbox.CountUnpublishedPayouts(ctx)
		return err
	})
	if err != nil {
		dmc.logger.Warn("Failed to count payout outbox backlog", zap.Error(err))
		return
	}

	dmc.metrics.PayoutOutboxBacklog.Set(float64(backlog))
}

// WithMetrics times fn and records it under operation and table.
func (dmc *DatabaseMetricsCollector) WithMetrics(operation, table string, fn func() error) error {
	start := time.Now()
	err := fn()
	duration := time.Since(start)

	status := "success"
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		status = "not_found"
	case err != nil:
		status = "error"
	}

	dmc.metrics.RecordDBQuery(operation, table, status, duration)

	if duration > slowQueryThreshold {
		dmc.logger.Warn("Slow database query",
			zap.String("operation", operation),
			zap.String("table", table),
			zap.Duration("duration", duration),
			zap.Error(err))
	}

	return err
}

// PingContext checks database reachability and records it as a query.
func (dmc *DatabaseMetricsCollector) PingContext(ctx context.Context) error {
	err := dmc.WithMetrics("ping", "health_check", func() error {
		return dmc.pool.PingContext(ctx)
	})
	if err != nil {
		dmc.metrics.RecordDBConnectionError()
	}

	return err
}
