// Package rabbitmq publishes and consumes order lifecycle events over AMQP.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/streadway/amqp"
)

// ErrChannelUnavailable is returned when the client has no open channel.
var ErrChannelUnavailable = errors.New("RabbitMQ channel is not available")

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	cfg     Config
	// mu serializes publishes on the shared channel.
	mu sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL      string
	Exchange string
	Queue    string
}

// NewClient connects to RabbitMQ and declares a durable topic exchange and
// a durable queue bound to every order.* routing key.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declare(ch, cfg); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Printf("RabbitMQ client connected (exchange %q, queue %q)", cfg.Exchange, cfg.Queue)

	return &Client{
		conn:    conn,
		channel: ch,
		cfg:     cfg,
	}, nil
}

func declare(ch *amqp.Channel, cfg Config) error {
	err := ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // kind
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	_, err = ch.QueueDeclare(
		cfg.Queue, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", cfg.Queue, err)
	}

	if err := ch.QueueBind(cfg.Queue, "order.*", cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", cfg.Queue, err)
	}
	return nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Publish sends body to the configured exchange as a persistent message.
func (c *Client) Publish(ctx context.Context, routingKey string, body []byte) error {
	if c == nil || c.channel == nil {
		return ErrChannelUnavailable
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.channel.Publish(
		c.cfg.Exchange, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    time.Now(),
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}
	return nil
}

// PublishJSON marshals payload and publishes it under routingKey.
func (c *Client) PublishJSON(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", routingKey, err)
	}
	return c.Publish(ctx, routingKey, body)
}

// ConsumeOrderEvents delivers messages from the configured queue to handler
// until ctx is cancelled or the channel closes. A message whose handler
// fails is requeued once, then dropped.
func (c *Client) ConsumeOrderEvents(ctx context.Context, handler func(msg amqp.Delivery) error) error {
	if c == nil || c.channel == nil {
		return ErrChannelUnavailable
	}

	msgs, err := c.channel.Consume(
		c.cfg.Queue, // queue
		"",          // consumer tag
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Printf("Waiting for order events on %s", c.cfg.Queue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					log.Println("Order event delivery channel closed")
					return
				}
				settle(msg, handler(msg))
			}
		}
	}()
	return nil
}

// acknowledger is the part of amqp.Delivery that settle needs.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func settle(msg amqp.Delivery, handlerErr error) {
	settleWith(msg, msg.DeliveryTag, msg.Redelivered, handlerErr)
}

func settleWith(ack acknowledger, tag uint64, redelivered bool, handlerErr error) {
	if handlerErr == nil {
		if err := ack.Ack(false); err != nil {
			log.Printf("Error acking message %d: %v", tag, err)
		}
		return
	}
	log.Printf("Error processing message %d: %v", tag, handlerErr)
	if err := ack.Nack(false, !redelivered); err != nil {
		log.Printf("Error nacking message %d: %v", tag, err)
	}
}

// OrderEventEnvelope is the subset of an order event a consumer needs to
// route it.
type OrderEventEnvelope struct {
	Type    string `json:"type"`
	OrderID uint   `json:"order_id"`
	UserID  uint   `json:"user_id"`
	Status  string `json:"status"`
}

// LogOrderEvent is a consumer handler that logs each event. A body that is
// not an order event is rejected.
func LogOrderEvent(msg amqp.Delivery) error {
	var event OrderEventEnvelope
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return fmt.Errorf("malformed order event %q: %w", msg.MessageId, err)
	}
	if event.OrderID == 0 {
		return fmt.Errorf("order event %q has no order id", msg.MessageId)
	}
	log.Printf("Received %s for order %d (user %d, status %s)", msg.RoutingKey, event.OrderID, event.UserID, event.Status)
	return nil
}
