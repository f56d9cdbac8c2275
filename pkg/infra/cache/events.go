package cache

import (
	"context"
	"encoding/json"
	"fmt"
)

const InvalidationChannel = "safety:invalidation"

type Event interface {
	Type() string
}

// BannedWordsUpdatedEvent is broadcast after the banned word set changes.
// Count is the number of words the change touched.
type BannedWordsUpdatedEvent struct {
	Count  int    `json:"count"`
	Source string `json:"source"`
}

func (BannedWordsUpdatedEvent) Type() string { return "BannedWordsUpdatedEvent" }

type RedisMessage struct {
	Type  string          `json:"type"`
	Event json.RawMessage `json:"event"`
}

//go:generate mockery --name=EventPublisher --dir=. --output=./mocks --filename=event_publisher_mock.go --case=underscore --with-expecter
type EventPublisher interface {
	Publish(ctx context.Context, ev Event) error
}

type redisEventPublisher struct {
	cache   Client
	channel string
}

func NewRedisEventPublisher(cache Client, channel string) EventPublisher {
	return &redisEventPublisher{cache: cache, channel: channel}
}

func (p *redisEventPublisher) Publish(ctx context.Context, ev Event) error {
	data, err := encodeEvent(ev)
	if err != nil {
		return err
	}
	return p.cache.Publish(ctx, p.channel, data)
}

func encodeEvent(ev Event) ([]byte, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ev.Type(), err)
	}
	return json.Marshal(RedisMessage{Type: ev.Type(), Event: b})
}
