// Package amqp connects the service to the filing-ingest pipeline:
// the scraper publishes chart-row batches and roster updates, the
// worker consumes them into SQLite.
package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// errDropMessage marks deliveries that can never succeed, no matter
// how many times they are retried.
var errDropMessage = errors.New("drop message")

type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}
	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}
	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	err = c.channel.QueueBind(
		c.queueName,    // queue name
		c.queueName,    // routing key (same as queue name for direct exchange)
		c.exchangeName, // exchange
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// PublishFilingRows publishes a chart-row batch.
func (c *Client) PublishFilingRows(ctx context.Context, msg *FilingRowsMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := c.publish(ctx, TypeFilingRows, body); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Published filing rows",
		"election", msg.Election,
		"chart", msg.Chart,
		"row_count", len(msg.Rows))
	return nil
}

// PublishRoster publishes a roster update.
func (c *Client) PublishRoster(ctx context.Context, msg *RosterMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := c.publish(ctx, TypeRoster, body); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Published roster",
		"election", msg.Election,
		"row_count", len(msg.Roster))
	return nil
}

func (c *Client) publish(ctx context.Context, msgType string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Type:         msgType,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

// ConsumeMessages consumes ingest messages until the context ends,
// dispatching on the delivery type. Malformed messages are rejected
// without requeue; handler failures requeue for a later retry.
func (c *Client) ConsumeMessages(
	ctx context.Context,
	rowsHandler func(context.Context, *FilingRowsMessage) error,
	rosterHandler func(context.Context, *RosterMessage) error,
) error {
	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack (we want manual ack)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming ingest messages", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}
			if err := c.dispatch(ctx, delivery, rowsHandler, rosterHandler); err != nil {
				slog.ErrorContext(ctx, "Failed to handle message",
					"error", err, "type", delivery.Type)
				// malformed messages never succeed; only requeue
				// handler failures
				delivery.Nack(false, !errors.Is(err, errDropMessage))
				continue
			}
			delivery.Ack(false)
		}
	}
}

func (c *Client) dispatch(
	ctx context.Context,
	delivery amqp091.Delivery,
	rowsHandler func(context.Context, *FilingRowsMessage) error,
	rosterHandler func(context.Context, *RosterMessage) error,
) error {
	switch delivery.Type {
	case TypeFilingRows:
		msg, err := FilingRowsMessageFromJSON(delivery.Body)
		if err != nil {
			return fmt.Errorf("unmarshal filing rows: %v: %w", err, errDropMessage)
		}
		return rowsHandler(ctx, msg)
	case TypeRoster:
		msg, err := RosterMessageFromJSON(delivery.Body)
		if err != nil {
			return fmt.Errorf("unmarshal roster: %v: %w", err, errDropMessage)
		}
		return rosterHandler(ctx, msg)
	default:
		return fmt.Errorf("unknown message type %q: %w", delivery.Type, errDropMessage)
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// exponentialBackoff computes the reconnect delay for an attempt,
// capped at 30 seconds.
func exponentialBackoff(attempt int) time.Duration {
	d := time.Second << attempt
	if d > 30*time.Second || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// isConnectionError reports whether an error looks like a broken
// connection worth a reconnect rather than a permanent failure.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, hint := range []string{"connection", "eof", "broken pipe", "channel/connection is not open"} {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}

// ConsumeWithReconnect wraps ConsumeMessages with dial retries so a
// broker restart does not kill the worker.
func ConsumeWithReconnect(
	ctx context.Context,
	url, exchange, queue string,
	rowsHandler func(context.Context, *FilingRowsMessage) error,
	rosterHandler func(context.Context, *RosterMessage) error,
) error {
	attempt := 0
	for {
		client, err := NewClient(url, exchange, queue)
		if err == nil {
			attempt = 0
			err = client.ConsumeMessages(ctx, rowsHandler, rosterHandler)
			client.Close()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil && !isConnectionError(err) {
			return err
		}
		delay := exponentialBackoff(attempt)
		attempt++
		slog.WarnContext(ctx, "AMQP connection lost, reconnecting",
			"error", err, "delay", delay, "attempt", attempt)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}
