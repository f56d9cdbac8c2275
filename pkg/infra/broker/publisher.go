package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

var (
	ErrPublishNacked = errors.New("broker refused the message")
	ErrUnroutable    = errors.New("message was not routed to any queue")
	ErrConfirmLost   = errors.New("channel closed before the broker confirmed the message")
)

type PublishOption func(*amqp.Publishing)

// WithDelay asks the delayed-message exchange to hold the message for d.
func WithDelay(d time.Duration) PublishOption {
	return func(p *amqp.Publishing) {
		if d <= 0 {
			return
		}
		p.Headers[HeaderDelay] = d.Milliseconds()
	}
}

func WithHeaders(headers amqp.Table) PublishOption {
	return func(p *amqp.Publishing) {
		for k, v := range headers {
			p.Headers[k] = v
		}
	}
}

func WithCorrelationID(id string) PublishOption {
	return func(p *amqp.Publishing) {
		p.CorrelationId = id
	}
}

//go:generate mockery --name=Publisher --dir=. --output=./mocks --filename=publisher_mock.go --case=underscore --with-expecter
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte, opts ...PublishOption) error
}

type publisher struct {
	provider ChannelProvider
	exchange string

	mu       sync.Mutex
	ch       Channel
	confirms chan amqp.Confirmation
	returns  chan amqp.Return
}

// NewPublisher publishes persistent messages to exchange on a channel in
// confirm mode. Publish returns only once the broker has taken
// responsibility for the message. The channel is reopened after any failure
// that leaves its confirm state unknown.
func NewPublisher(provider ChannelProvider, exchange string) Publisher {
	return &publisher{provider: provider, exchange: exchange}
}

func (p *publisher) Publish(ctx context.Context, routingKey string, body []byte, opts ...PublishOption) error {
	msg := amqp.Publishing{
		Headers:      amqp.Table{},
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	for _, opt := range opts {
		opt(&msg)
	}
	// The delayed exchange routes a held message only when its delay expires,
	// so it can report NO_ROUTE for undelayed messages alone.
	_, delayed := msg.Headers[HeaderDelay]
	mandatory := !delayed

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil {
		if err := p.open(ctx); err != nil {
			return fmt.Errorf("failed to publish to %s: %w", routingKey, err)
		}
	}
	if err := p.ch.PublishWithContext(ctx, p.exchange, routingKey, mandatory, false, msg); err != nil {
		p.reset()
		return fmt.Errorf("failed to publish to %s: %w", routingKey, err)
	}
	if err := p.await(ctx); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", routingKey, err)
	}
	return nil
}

func (p *publisher) open(ctx context.Context) error {
	ch, err := p.provider.Channel(ctx)
	if err != nil {
		return err
	}
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		return fmt.Errorf("failed to enable publisher confirms: %w", err)
	}
	p.ch = ch
	p.confirms = ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	p.returns = ch.NotifyReturn(make(chan amqp.Return, 1))
	return nil
}

func (p *publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	p.ch = nil
	p.confirms = nil
	p.returns = nil
}

// await waits for the confirmation of the single outstanding publish. The
// broker sends basic.return before the ack of an unroutable message, so a
// return is already buffered by the time its ack arrives.
func (p *publisher) await(ctx context.Context) error {
	select {
	case <-ctx.Done():
		p.reset()
		return ctx.Err()
	case c, ok := <-p.confirms:
		if !ok {
			p.reset()
			return ErrConfirmLost
		}
		if !c.Ack {
			return ErrPublishNacked
		}
	}
	select {
	case r := <-p.returns:
		return fmt.Errorf("%w: %d %s", ErrUnroutable, r.ReplyCode, r.ReplyText)
	default:
		return nil
	}
}

// PublishJSON marshals v and publishes it.
func PublishJSON(ctx context.Context, p Publisher, routingKey string, v any, opts ...PublishOption) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal message for %s: %w", routingKey, err)
	}
	return p.Publish(ctx, routingKey, body, opts...)
}
