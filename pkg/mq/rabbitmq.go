package mq

import (
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var ErrConnectionClosed = errors.New("connection is closed")

type Config struct {
	URL       string        `mapstructure:"url"`
	Prefetch  int           `mapstructure:"prefetch"`
	Heartbeat time.Duration `mapstructure:"heartbeat"`
	Name      string        `mapstructure:"connection_name"`
}

// RabbitMQ owns one AMQP connection. Publishers and consumers each get their
// own channel on it.
type RabbitMQ struct {
	conn   *amqp.Connection
	logger *zap.Logger
}

func NewConnection(cfg Config, logger *zap.Logger) (*RabbitMQ, error) {
	dial := amqp.Config{
		Heartbeat:  cfg.Heartbeat,
		Properties: amqp.NewConnectionProperties(),
	}
	if cfg.Name != "" {
		dial.Properties.SetClientConnectionName(cfg.Name)
	}

	conn, err := amqp.DialConfig(cfg.URL, dial)
	if err != nil {
		logger.Error("RabbitMQ dial failed", zap.String("connection", cfg.Name), zap.Error(err))
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	logger.Info("RabbitMQ connected", zap.String("connection", cfg.Name))

	return &RabbitMQ{conn: conn, logger: logger}, nil
}

func (r *RabbitMQ) Closed() bool {
	return r.conn == nil || r.conn.IsClosed()
}

func (r *RabbitMQ) OpenChannel() (*amqp.Channel, error) {
	if r.Closed() {
		return nil, ErrConnectionClosed
	}

	return r.conn.Channel()
}

const deadLetterSuffix = ".dead"

// DeadLetterQueue names the queue that receives deliveries of queue which were
// rejected without requeue.
func DeadLetterQueue(queue string) string {
	return queue + deadLetterSuffix
}

func QueueArgs(queue string) amqp.Table {
	return amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": DeadLetterQueue(queue),
	}
}

// DeclareTopology declares each queue durable on the default exchange together
// with its dead-letter queue.
func (r *RabbitMQ) DeclareTopology(queues ...string) error {
	ch, err := r.OpenChannel()
	if err != nil {
		return fmt.Errorf("topology channel: %w", err)
	}
	defer ch.Close()

	for _, queue := range queues {
		dead := DeadLetterQueue(queue)
		if _, err := ch.QueueDeclare(dead, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare %s: %w", dead, err)
		}

		if _, err := ch.QueueDeclare(queue, true, false, false, false, QueueArgs(queue)); err != nil {
			return fmt.Errorf("declare %s: %w", queue, err)
		}
	}

	r.logger.Info("Queues declared", zap.Strings("queues", queues))

	return nil
}

func (r *RabbitMQ) CreatePublisher() (Publisher, error) {
	ch, err := r.OpenChannel()
	if err != nil {
		return nil, fmt.Errorf("publisher channel: %w", err)
	}

	return NewRabbitPublisher(ch), nil
}

func (r *RabbitMQ) CreateConsumer() (Consumer, error) {
	ch, err := r.OpenChannel()
	if err != nil {
		return nil, fmt.Errorf("consumer channel: %w", err)
	}

	return NewRabbitConsumer(ch), nil
}

func (r *RabbitMQ) Close() error {
	if r.Closed() {
		return nil
	}

	return r.conn.Close()
}
