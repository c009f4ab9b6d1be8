// Package amqp moves messages between the ledger service, the export
// worker and the speech frontend over RabbitMQ.
package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"fareledger/internal/log"
)

// Circuit breaker states.
const (
	StateClosed int32 = iota
	StateOpen
	StateHalfOpen
)

const (
	maxFailures = 5
	openTimeout = 30 * time.Second
)

// Client wraps one connection/channel pair bound to a single durable queue
// on a direct exchange. Publishing trips a circuit breaker after repeated
// failures; consuming reconnects with exponential backoff on connection
// errors.
type Client struct {
	mu           sync.Mutex
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	url          string
	exchangeName string
	queueName    string

	failureCount int64
	state        int32
	lastFailure  time.Time
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	client := &Client{
		url:          url,
		exchangeName: exchangeName,
		queueName:    queueName,
	}
	if err := client.connect(); err != nil {
		return nil, err
	}
	return client, nil
}

func (c *Client) connect() error {
	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.channel = channel
	c.mu.Unlock()

	if err := c.setup(); err != nil {
		c.Close()
		return fmt.Errorf("setup exchange and queue: %w", err)
	}
	return nil
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

	// Routing key matches the queue name on a direct exchange.
	err = c.channel.QueueBind(c.queueName, c.queueName, c.exchangeName, false, nil)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// publish sends one persistent JSON message through the circuit breaker.
func (c *Client) publish(ctx context.Context, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.isCircuitOpen() {
		return fmt.Errorf("publish to %s: circuit breaker is open", c.queueName)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	c.mu.Lock()
	channel := c.channel
	c.mu.Unlock()
	if channel == nil {
		c.recordFailure()
		return fmt.Errorf("publish to %s: channel not open", c.queueName)
	}

	err := channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		c.recordFailure()
		return fmt.Errorf("publish message: %w", err)
	}

	c.recordSuccess()
	return nil
}

// PublishEntryExport enqueues an export request for one committed entry.
func (c *Client) PublishEntryExport(ctx context.Context, id string) error {
	body, err := NewEntryExportMessage(id).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := c.publish(ctx, body); err != nil {
		return err
	}
	slog.InfoContext(ctx, "published entry export message",
		log.FieldEntryID, id, "exchange", c.exchangeName, log.FieldQueue, c.queueName)
	return nil
}

// PublishSpokenResponse enqueues text for the TTS frontend.
func (c *Client) PublishSpokenResponse(ctx context.Context, sessionID, text string) error {
	body, err := NewSpokenResponseMessage(sessionID, text).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	return c.publish(ctx, body)
}

// ConsumeEntryExports delivers export messages to handler with manual acks.
// Malformed messages are rejected without requeue; handler errors requeue.
func (c *Client) ConsumeEntryExports(ctx context.Context, handler func(context.Context, *EntryExportMessage) error) error {
	return c.consume(ctx, func(ctx context.Context, body []byte) error {
		msg, err := EntryExportMessageFromJSON(body)
		if err != nil {
			return errBadMessage{err}
		}
		return handler(ctx, msg)
	})
}

// ConsumeTranscripts delivers finalized transcripts to handler with manual
// acks. Transcript handling never legitimately fails in a retryable way, so
// handler errors are logged by the caller and not requeued.
func (c *Client) ConsumeTranscripts(ctx context.Context, handler func(context.Context, *TranscriptMessage) error) error {
	return c.consume(ctx, func(ctx context.Context, body []byte) error {
		msg, err := TranscriptMessageFromJSON(body)
		if err != nil {
			return errBadMessage{err}
		}
		return handler(ctx, msg)
	})
}

type errBadMessage struct{ err error }

func (e errBadMessage) Error() string { return "bad message: " + e.err.Error() }

func (c *Client) consume(ctx context.Context, handle func(context.Context, []byte) error) error {
	for attempt := 0; ; attempt++ {
		err := c.consumeOnce(ctx, handle)
		switch {
		case err == nil || errors.Is(err, context.Canceled) || ctx.Err() != nil:
			return ctx.Err()
		case isConnectionError(err):
			wait := exponentialBackoff(attempt)
			slog.WarnContext(ctx, "consume connection lost, reconnecting",
				log.FieldError, err, "backoff", wait, log.FieldQueue, c.queueName)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			if rerr := c.connect(); rerr != nil {
				slog.ErrorContext(ctx, "reconnect failed", log.FieldError, rerr, log.FieldQueue, c.queueName)
				continue
			}
			attempt = -1 // reset backoff after a successful reconnect
		default:
			return err
		}
	}
}

func (c *Client) consumeOnce(ctx context.Context, handle func(context.Context, []byte) error) error {
	c.mu.Lock()
	channel := c.channel
	c.mu.Unlock()
	if channel == nil {
		return fmt.Errorf("consume %s: connection closed", c.queueName)
	}

	msgs, err := channel.Consume(
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

	slog.InfoContext(ctx, "started consuming", log.FieldQueue, c.queueName)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "stopping message consumption", log.FieldQueue, c.queueName, "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("consume %s: connection closed", c.queueName)
			}
			if err := handle(ctx, delivery.Body); err != nil {
				if _, bad := err.(errBadMessage); bad {
					slog.ErrorContext(ctx, "rejecting malformed message", log.FieldError, err, log.FieldQueue, c.queueName)
					delivery.Nack(false, false) // don't requeue
					continue
				}
				slog.ErrorContext(ctx, "failed to handle message", log.FieldError, err, log.FieldQueue, c.queueName)
				delivery.Nack(false, true) // requeue
				continue
			}
			delivery.Ack(false)
		}
	}
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}

// isCircuitOpen also moves an expired open circuit to half-open so the next
// publish can probe the broker.
func (c *Client) isCircuitOpen() bool {
	state := atomic.LoadInt32(&c.state)
	if state != StateOpen {
		return false
	}
	c.mu.Lock()
	elapsed := time.Since(c.lastFailure)
	c.mu.Unlock()
	if elapsed > openTimeout {
		atomic.StoreInt32(&c.state, StateHalfOpen)
		return false
	}
	return true
}

func (c *Client) recordSuccess() {
	atomic.StoreInt64(&c.failureCount, 0)
	atomic.StoreInt32(&c.state, StateClosed)
}

func (c *Client) recordFailure() {
	c.mu.Lock()
	c.lastFailure = time.Now()
	c.mu.Unlock()
	if atomic.AddInt64(&c.failureCount, 1) >= maxFailures {
		atomic.StoreInt32(&c.state, StateOpen)
	}
}

func exponentialBackoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	wait := time.Second << uint(attempt)
	if wait > 30*time.Second || wait <= 0 {
		wait = 30 * time.Second
	}
	return wait
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, s := range []string{
		"connection refused",
		"connection closed",
		"unexpected EOF",
		"broken pipe",
		"use of closed network connection",
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
