package consumers

import (
	"context"
	"encoding/json"

	"github.com/Behyna/cinefund/internal/config"
	"github.com/Behyna/cinefund/internal/constants"
	"github.com/Behyna/cinefund/internal/service"
	"github.com/Behyna/cinefund/pkg/mq"
	"go.uber.org/zap"
)

type PayoutConsumer interface {
	Consume(ctx context.Context) error
}

type payoutConsumer struct {
	service  service.PayoutService
	consumer mq.Consumer
	prefetch int
	logger   *zap.Logger
}

func NewPayoutConsumer(service service.PayoutService, consumer mq.Consumer, cfg *config.Config,
	logger *zap.Logger) PayoutConsumer {
	return &payoutConsumer{service: service, consumer: consumer, prefetch: cfg.RabbitMQ.Prefetch, logger: logger}
}

func (p *payoutConsumer) Consume(ctx context.Context) error {
	return p.consumer.Consume(ctx, p.prefetch, constants.QueuePayout, p.handleMessage)
}

func (p *payoutConsumer) handleMessage(ctx context.Context, body []byte) error {
	p.logger.Info("received payout command", zap.ByteString("body", body))

	var cmd service.PayoutCommand
	if err := json.Unmarshal(body, &cmd); err != nil {
		p.logger.Warn("invalid payout command", zap.Error(err))
		return err
	}

	return p.service.Credit(ctx, cmd)
}
