package broker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// ErrUnprocessable marks a handler failure that no retry can fix, such as a
// body that does not decode. Such messages are dead-lettered at once.
var ErrUnprocessable = errors.New("unprocessable message")

// Message is the handler's view of a delivery.
type Message struct {
	RoutingKey    string
	Body          []byte
	Headers       amqp.Table
	CorrelationID string
	Redelivered   bool
	RetryCount    int
}

// Handler processes one message. A nil error acks it.
type Handler func(ctx context.Context, msg *Message) error

// Observer is told how each delivery ended.
type Observer interface {
	ObserveDelivery(queue, outcome string)
}

const (
	OutcomeAcked        = "acked"
	OutcomeRetried      = "retried"
	OutcomeDeadLettered = "dead_lettered"
	OutcomeRequeued     = "requeued"
)

type ConsumerConfig struct {
	Queue          string
	Tag            string
	Prefetch       int
	Workers        int
	Retry          RetryPolicy
	ReconnectDelay time.Duration
}

type Consumer struct {
	provider  ChannelProvider
	publisher Publisher
	handler   Handler
	cfg       ConsumerConfig
	logger    *logrus.Logger
	observer  Observer
}

func NewConsumer(
	logger *logrus.Logger,
	provider ChannelProvider,
	publisher Publisher,
	cfg ConsumerConfig,
	handler Handler,
	observer Observer,
) *Consumer {
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = 10
	}
	if cfg.Workers <= 0 {
		cfg.Workers = cfg.Prefetch
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 2 * time.Second
	}
	if cfg.Tag == "" {
		cfg.Tag = "safetyd-" + cfg.Queue
	}
	return &Consumer{
		provider:  provider,
		publisher: publisher,
		handler:   handler,
		cfg:       cfg,
		logger:    logger,
		observer:  observer,
	}
}

// Run consumes until ctx is cancelled, reopening the channel whenever the
// broker closes it.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		err := c.consume(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, ErrNotConnected) {
			return err
		}
		entry := c.logger.WithField("queue", c.cfg.Queue)
		if err != nil {
			entry = entry.WithError(err)
		}
		entry.Warn("consumer stopped, reconnecting")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.cfg.ReconnectDelay):
		}
	}
}

func (c *Consumer) consume(ctx context.Context) error {
	ch, err := c.provider.Channel(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set qos on %s: %w", c.cfg.Queue, err)
	}
	deliveries, err := ch.Consume(c.cfg.Queue, c.cfg.Tag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume %s: %w", c.cfg.Queue, err)
	}

	c.logger.WithFields(logrus.Fields{
		"queue":    c.cfg.Queue,
		"prefetch": c.cfg.Prefetch,
		"workers":  c.cfg.Workers,
	}).Info("consumer started")

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = ch.Close()
		case <-stop:
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < c.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for d := range deliveries {
				c.Process(ctx, d)
			}
		}()
	}
	wg.Wait()
	return nil
}

// Process runs the handler on one delivery and settles it.
func (c *Consumer) Process(ctx context.Context, d amqp.Delivery) {
	retries := RetryCount(d.Headers)
	msg := &Message{
		RoutingKey:    d.RoutingKey,
		Body:          d.Body,
		Headers:       d.Headers,
		CorrelationID: d.CorrelationId,
		Redelivered:   d.Redelivered,
		RetryCount:    retries,
	}
	entry := c.logger.WithFields(logrus.Fields{
		"queue":       c.cfg.Queue,
		"routing_key": d.RoutingKey,
		"message_id":  d.MessageId,
		"retry":       retries,
	})

	err := c.handle(ctx, msg)
	if err == nil {
		if ackErr := d.Ack(false); ackErr != nil {
			entry.WithError(ackErr).Error("failed to ack message")
		}
		c.observe(OutcomeAcked)
		return
	}

	if errors.Is(err, ErrUnprocessable) || c.cfg.Retry.Exhausted(retries) {
		entry.WithError(err).Error("message cannot be processed, dead-lettering")
		if nackErr := d.Nack(false, false); nackErr != nil {
			entry.WithError(nackErr).Error("failed to dead-letter message")
		}
		c.observe(OutcomeDeadLettered)
		return
	}

	delay := c.cfg.Retry.Backoff(retries)
	entry.WithError(err).WithField("delay", delay.String()).Warn("handler failed, scheduling retry")
	pubErr := c.publisher.Publish(ctx, d.RoutingKey, d.Body,
		WithHeaders(retryHeaders(d.Headers, retries+1)),
		WithDelay(delay),
		WithCorrelationID(d.CorrelationId),
	)
	if pubErr != nil {
		entry.WithError(pubErr).Error("failed to republish for retry, requeueing")
		if nackErr := d.Nack(false, true); nackErr != nil {
			entry.WithError(nackErr).Error("failed to requeue message")
		}
		c.observe(OutcomeRequeued)
		return
	}
	if ackErr := d.Ack(false); ackErr != nil {
		entry.WithError(ackErr).Error("failed to ack retried message")
	}
	c.observe(OutcomeRetried)
}

func (c *Consumer) handle(ctx context.Context, msg *Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return c.handler(ctx, msg)
}

func (c *Consumer) observe(outcome string) {
	if c.observer != nil {
		c.observer.ObserveDelivery(c.cfg.Queue, outcome)
	}
}
