package publishers

import (
	"context"
	"encoding/json"

	"github.com/Behyna/cinefund/internal/config"
	"github.com/Behyna/cinefund/internal/constants"
	"github.com/Behyna/cinefund/internal/metrics"
	"github.com/Behyna/cinefund/internal/service"
	"github.com/Behyna/cinefund/pkg/mq"
	"go.uber.org/zap"
)

type PayoutPublisher interface {
	Publish(ctx context.Context) error
}

type payoutPublisher struct {
	service   service.PayoutQueueService
	publisher mq.Publisher
	batchSize int
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewPayoutPublisher(service service.PayoutQueueService, publisher mq.Publisher, cfg *config.Config,
	metrics *metrics.Metrics, logger *zap.Logger) PayoutPublisher {
	return &payoutPublisher{service: service, publisher: publisher, batchSize: cfg.Worker.BatchSize,
		metrics: metrics, logger: logger}
}

// Publish sends one batch of unpublished payouts to funding.payout. A payout
// is marked published only after the broker accepted it, so a failed publish
// is retried on the next tick.
func (p *payoutPublisher) Publish(ctx context.Context) error {
	payouts, err := p.service.FindPayoutsToQueue(ctx, p.batchSize)
	if err != nil {
		return err
	}

	if len(payouts) == 0 {
		return nil
	}

	p.logger.Info("Publishing payouts", zap.Int("count", len(payouts)))

	successCount := 0
	for _, payout := range payouts {
		body, err := json.Marshal(payout)
		if err != nil {
			p.logger.Error("Failed to encode payout",
				zap.Error(err),
				zap.String("transactionID", payout.TransactionID))
			p.metrics.RecordOutboxPublish(constants.QueuePayout, "encode_error")
			continue
		}

		if err := p.publisher.Publish(ctx, "", constants.QueuePayout, body); err != nil {
			p.logger.Error("Failed to publish payout",
				zap.Error(err),
				zap.String("transactionID", payout.TransactionID))
			p.metrics.RecordOutboxPublish(constants.QueuePayout, "publish_error")
			continue
		}

		if err := p.service.MarkPayoutAsQueued(ctx, payout.TransactionID); err != nil {
			p.metrics.RecordOutboxPublish(constants.QueuePayout, "mark_error")
			continue
		}

		p.metrics.RecordOutboxPublish(constants.QueuePayout, "success")
		successCount++
	}

	if successCount > 0 {
		p.logger.Info("Successfully published payouts",
			zap.Int("published", successCount),
			zap.Int("total", len(payouts)))
	}

	return nil
}
