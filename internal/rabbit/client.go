package rabbit

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wb-go/wbf/zlog"
)

// Client publishes to an x-delayed-message exchange bound to a single queue,
// so every message can be scheduled with its own delay.
type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	queue    string
}

type Rabbiter interface {
	Publish(ctx context.Context, message []byte, delay time.Duration) error
	Consume(handler func([]byte) error) error
	Close()
}

func NewRabbit(url, exchange, queue string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to connect to RabbitMQ")
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		zlog.Logger.Error().Err(err).Msg("failed to open RabbitMQ channel")
		return nil, err
	}

	client := &Client{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		queue:    queue,
	}

	if err := client.declare(); err != nil {
		client.Close()
		return nil, err
	}

	zlog.Logger.Info().Msgf("RabbitMQ initialized (exchange=%s, queue=%s)", exchange, queue)

	return client, nil
}

func (c *Client) declare() error {
	args := amqp.Table{"x-delayed-type": "direct"}
	if err := c.channel.ExchangeDeclare(c.exchange, "x-delayed-message", true, false, false, false, args); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to declare exchange")
		return fmt.Errorf("declare exchange %s: %w", c.exchange, err)
	}

	if _, err := c.channel.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to declare queue")
		return fmt.Errorf("declare queue %s: %w", c.queue, err)
	}

	if err := c.channel.QueueBind(c.queue, "", c.exchange, false, nil); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to bind queue")
		return fmt.Errorf("bind queue %s: %w", c.queue, err)
	}
	return nil
}

func (c *Client) Close() {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
	zlog.Logger.Info().Msg("RabbitMQ connection closed")
}

func (c *Client) Publish(ctx context.Context, message []byte, delay time.Duration) error {
	err := c.channel.PublishWithContext(ctx,
		c.exchange,
		"",
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         message,
			Timestamp:    time.Now(),
			Headers:      DelayHeaders(delay),
		},
	)

	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to publish message to RabbitMQ")
	} else {
		zlog.Logger.Debug().Msgf("Message published to exchange=%s delay=%s", c.exchange, delay)
	}
	return err
}

// DelayHeaders builds the x-delay header understood by the delayed-message
// exchange plugin. A non-positive delay delivers immediately.
func DelayHeaders(delay time.Duration) amqp.Table {
	args := amqp.Table{}
	if delay > 0 {
		args["x-delay"] = int32(delay / time.Millisecond)
	}
	return args
}

func (c *Client) Consume(handler func([]byte) error) error {
	msgs, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to start consuming messages")
		return err
	}

	go func() {
		for d := range msgs {
			if err := handler(d.Body); err != nil {
				zlog.Logger.Warn().Msgf("failed to process message: %v", err)
				_ = d.Nack(false, !d.Redelivered)
				continue
			}
			_ = d.Ack(false)
		}
	}()

	zlog.Logger.Info().Msgf("Started consuming from queue %s", c.queue)
	return nil
}
