package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type EventSubscriber[T Event] interface {
	OnEvent(ctx context.Context, ev T) error
}

type rawHandler func(ctx context.Context, payload json.RawMessage) error

type EventListener interface {
	Listen(ctx context.Context, channels ...string)
	register(eventType string, handler rawHandler)
	dispatch(ctx context.Context, payload string)
}

// RegisterEventSubscriber binds subscriber to events of type T.
func RegisterEventSubscriber[T Event](listener EventListener, subscriber EventSubscriber[T]) {
	var zero T
	listener.register(zero.Type(), func(ctx context.Context, payload json.RawMessage) error {
		var ev T
		if err := json.Unmarshal(payload, &ev); err != nil {
			return fmt.Errorf("error unmarshalling %s: %w", zero.Type(), err)
		}
		return subscriber.OnEvent(ctx, ev)
	})
}

type redisEventListener struct {
	logger         *logrus.Logger
	cache          Client
	mu             sync.RWMutex
	handlers       map[string][]rawHandler
	reconnectDelay time.Duration
}

func NewRedisEventListener(logger *logrus.Logger, cache Client) EventListener {
	return &redisEventListener{
		logger:         logger,
		cache:          cache,
		handlers:       make(map[string][]rawHandler),
		reconnectDelay: time.Second,
	}
}

func (r *redisEventListener) register(eventType string, handler rawHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[eventType] = append(r.handlers[eventType], handler)
}

// Listen blocks until ctx is done, resubscribing whenever the connection drops.
func (r *redisEventListener) Listen(ctx context.Context, channels ...string) {
	for {
		if ctx.Err() != nil {
			r.logger.Info("redis pubsub listener shutting down")
			return
		}

		r.listenOnce(ctx, channels)

		if ctx.Err() != nil {
			return
		}
		r.logger.Warn("redis pubsub disconnected, reconnecting in 1s...")
		select {
		case <-ctx.Done():
			return
		case <-time.After(r.reconnectDelay):
		}
	}
}

func (r *redisEventListener) listenOnce(ctx context.Context, channels []string) {
	pubSub := r.cache.RedisClient().Subscribe(ctx, channels...)
	defer func() { _ = pubSub.Close() }()

	r.logger.WithField("channels", channels).Debug("redis pubsub connected")

	go func() {
		<-ctx.Done()
		_ = pubSub.Close()
	}()

	for msg := range pubSub.Channel() {
		r.dispatch(ctx, msg.Payload)
	}
}

func (r *redisEventListener) dispatch(ctx context.Context, payload string) {
	var envelope RedisMessage
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		r.logger.WithError(err).Error("error decoding redis message")
		return
	}

	r.mu.RLock()
	handlers := r.handlers[envelope.Type]
	r.mu.RUnlock()
	if len(handlers) == 0 {
		r.logger.WithField("type", envelope.Type).Debug("no subscriber for event")
		return
	}
	for _, h := range handlers {
		if err := h(ctx, envelope.Event); err != nil {
			r.logger.WithError(err).WithField("type", envelope.Type).Error("error executing subscriber")
		}
	}
}
