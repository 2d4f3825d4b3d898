package consumers

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Behyna/cinefund/internal/config"
	"github.com/Behyna/cinefund/internal/constants"
	"github.com/Behyna/cinefund/internal/service"
	"github.com/Behyna/cinefund/pkg/mq"
	"go.uber.org/zap"
)

type ReturnsConsumer interface {
	Consume(ctx context.Context) error
}

type returnsConsumer struct {
	service  service.ReturnsService
	consumer mq.Consumer
	prefetch int
	logger   *zap.Logger
}

func NewReturnsConsumer(service service.ReturnsService, consumer mq.Consumer, cfg *config.Config,
	logger *zap.Logger) ReturnsConsumer {
	return &returnsConsumer{service: service, consumer: consumer, prefetch: cfg.RabbitMQ.Prefetch, logger: logger}
}

func (r *returnsConsumer) Consume(ctx context.Context) error {
	return r.consumer.Consume(ctx, r.prefetch, constants.QueueReturns, r.handleMessage)
}

// handleMessage requeues database faults. Business rejections are logged and
// acked.
func (r *returnsConsumer) handleMessage(ctx context.Context, body []byte) error {
	r.logger.Info("received returns command", zap.ByteString("body", body))

	var cmd service.ProcessReturnsCommand
	if err := json.Unmarshal(body, &cmd); err != nil {
		r.logger.Warn("invalid returns command", zap.Error(err))
		return err
	}

	resp, err := r.service.ProcessReturns(ctx, cmd)
	if err == nil {
		r.logger.Info("returns processed",
			zap.Int64("movieID", resp.MovieID),
			zap.Int("investmentsProcessed", resp.InvestmentsProcessed),
			zap.Stringer("totalDistributed", resp.TotalDistributed))
		return nil
	}

	var serviceErr service.Error
	if errors.As(err, &serviceErr) && serviceErr.Code == service.ErrCodeDatabase {
		r.logger.Warn("returns processing failed, will retry",
			zap.Int64("movieID", cmd.MovieID),
			zap.Error(err))
		return mq.Temporary(err)
	}

	r.logger.Warn("returns command rejected",
		zap.Int64("movieID", cmd.MovieID),
		zap.String("code", serviceErr.Code),
		zap.Error(err))

	return nil
}
