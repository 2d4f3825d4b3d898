package mq

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

type Handle func(ctx context.Context, body []byte) error

type Consumer interface {
	Consume(ctx context.Context, prefetch int, queue string, handler Handle) error
}

type RabbitConsumer struct {
	ch  *amqp.Channel
	tag string
}

func NewRabbitConsumer(ch *amqp.Channel) Consumer {
	return &RabbitConsumer{ch: ch, tag: appID + "-" + uuid.NewString()}
}

// Consume runs handler for every delivery on queue until ctx is cancelled or
// the channel closes.
func (c *RabbitConsumer) Consume(ctx context.Context, prefetch int, queue string, handler Handle) error {
	if prefetch <= 0 {
		prefetch = 1
	}

	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return err
	}

	deliveries, err := c.ch.Consume(queue, c.tag, false, false, false, false, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			_ = c.ch.Cancel(c.tag, false)
			time.Sleep(50 * time.Millisecond)
			return ctx.Err()

		case d, ok := <-deliveries:
			if !ok {
				return nil
			}

			Settle(d, handler(ctx, d.Body))
		}
	}
}

// Settle acks d when err is nil. Otherwise d is nacked, requeued only for a
// Temporary error, and a dropped delivery moves to the dead-letter queue.
func Settle(d amqp.Delivery, err error) {
	if err != nil {
		_ = d.Nack(false, ShouldRequeue(err))
		return
	}

	_ = d.Ack(false)
}

func ShouldRequeue(err error) bool {
	var te TempError
	return errors.As(err, &te) && te.Temporary()
}
