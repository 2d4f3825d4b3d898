package mq

import (
	"context"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const appID = "cinefund-funding"

type Publisher interface {
	Publish(ctx context.Context, exchange string, routingKey string, body []byte) error
}

// RabbitPublisher sends persistent JSON messages. Each message gets a fresh
// id and is typed by its routing key.
type RabbitPublisher struct {
	ch *amqp.Channel
}

func NewRabbitPublisher(ch *amqp.Channel) Publisher { return &RabbitPublisher{ch: ch} }

func (r *RabbitPublisher) Publish(ctx context.Context, exchange string, routingKey string, body []byte) error {
	return r.ch.PublishWithContext(ctx, exchange, routingKey, false, false, newMessage(routingKey, body))
}

func newMessage(routingKey string, body []byte) amqp.Publishing {
	return amqp.Publishing{
		AppId:        appID,
		Type:         routingKey,
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
}
