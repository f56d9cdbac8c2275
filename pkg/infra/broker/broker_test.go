package broker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bezhai/inner-bot-server-sub000/pkg/config"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testTopology() Topology {
	return NewTopology(config.RabbitMQConfig{
		Exchange:    "inner_bot.safety",
		DeadLetter:  "inner_bot.safety.dlx",
		DeadLetterQ: "inner_bot.safety.dlq",
	})
}

func TestTopology_Declare(t *testing.T) {
	ch := newFakeChannel()
	require.NoError(t, testTopology().Declare(ch))

	require.Len(t, ch.exchanges, 2)
	assert.Equal(t, "inner_bot.safety.dlx", ch.exchanges[0].name)
	assert.Equal(t, amqp.ExchangeFanout, ch.exchanges[0].kind)
	assert.Equal(t, "inner_bot.safety", ch.exchanges[1].name)
	assert.Equal(t, ExchangeKindDelayed, ch.exchanges[1].kind)
	assert.Equal(t, "topic", ch.exchanges[1].args["x-delayed-type"])
	for _, ex := range ch.exchanges {
		assert.True(t, ex.durable, ex.name)
	}

	require.Len(t, ch.queues, 3)
	assert.Equal(t, "inner_bot.safety.dlq", ch.queues[0].name)
	for _, q := range ch.queues[1:] {
		assert.True(t, q.durable, q.name)
		assert.Equal(t, "inner_bot.safety.dlx", q.args["x-dead-letter-exchange"], q.name)
	}

	assert.Contains(t, ch.bindings, binding{queue: "safety_check", key: "post.safety.check", exchange: "inner_bot.safety"})
	assert.Contains(t, ch.bindings, binding{queue: "recall", key: "action.recall", exchange: "inner_bot.safety"})
	assert.Contains(t, ch.bindings, binding{queue: "inner_bot.safety.dlq", key: "", exchange: "inner_bot.safety.dlx"})
}

func TestTopology_QuorumQueuesCarryDeliveryLimit(t *testing.T) {
	top := NewTopology(config.RabbitMQConfig{
		Exchange:      "inner_bot.safety",
		DeadLetter:    "inner_bot.safety.dlx",
		DeadLetterQ:   "inner_bot.safety.dlq",
		QueueType:     QueueTypeQuorum,
		DeliveryLimit: 5,
	})
	ch := newFakeChannel()
	require.NoError(t, top.Declare(ch))

	require.Len(t, ch.queues, 3)
	assert.Nil(t, ch.queues[0].args)
	for _, q := range ch.queues[1:] {
		assert.Equal(t, "quorum", q.args["x-queue-type"], q.name)
		assert.Equal(t, int32(5), q.args["x-delivery-limit"], q.name)
		assert.Equal(t, "inner_bot.safety.dlx", q.args["x-dead-letter-exchange"], q.name)
	}

	ch = newFakeChannel()
	top.QueueType = QueueTypeClassic
	require.NoError(t, top.Declare(ch))
	_, limited := ch.queues[1].args["x-delivery-limit"]
	assert.False(t, limited)
	_, typed := ch.queues[1].args["x-queue-type"]
	assert.False(t, typed)
}

func TestTopology_Queues(t *testing.T) {
	top := testTopology()
	assert.Equal(t, []string{"safety_check", "recall", "inner_bot.safety.dlq"}, top.Queues())
	q, ok := top.QueueFor(RoutingKeyRecall)
	assert.True(t, ok)
	assert.Equal(t, QueueRecall, q)
	_, ok = top.QueueFor("unknown.key")
	assert.False(t, ok)
}

func TestPublisher_Publish(t *testing.T) {
	ch := newFakeChannel()
	p := NewPublisher(&fakeProvider{channels: []*fakeChannel{ch}}, "inner_bot.safety")

	err := p.Publish(context.Background(), RoutingKeySafetyCheck, []byte(`{}`),
		WithDelay(5*time.Second),
		WithHeaders(amqp.Table{"x-session": "s1"}),
		WithCorrelationID("corr-1"),
	)
	require.NoError(t, err)

	msgs := ch.publishedMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "inner_bot.safety", msgs[0].exchange)
	assert.Equal(t, RoutingKeySafetyCheck, msgs[0].key)
	assert.Equal(t, amqp.Persistent, msgs[0].msg.DeliveryMode)
	assert.Equal(t, int64(5000), msgs[0].msg.Headers[HeaderDelay])
	assert.Equal(t, "s1", msgs[0].msg.Headers["x-session"])
	assert.Equal(t, "corr-1", msgs[0].msg.CorrelationId)
	assert.NotEmpty(t, msgs[0].msg.MessageId)
}

func TestPublisher_ErrorsPropagate(t *testing.T) {
	err := NewPublisher(&fakeProvider{err: ErrNotConnected}, "ex").Publish(context.Background(), "k", nil)
	assert.ErrorIs(t, err, ErrNotConnected)

	ch := newFakeChannel()
	ch.publishErr = errors.New("channel/connection is not open")
	provider := &fakeProvider{channels: []*fakeChannel{ch}}
	p := NewPublisher(provider, "ex")
	require.Error(t, p.Publish(context.Background(), "k", nil))
	require.Error(t, p.Publish(context.Background(), "k", nil))
	assert.Equal(t, 2, provider.opened)
}

func TestPublisher_WaitsForConfirmation(t *testing.T) {
	ch := newFakeChannel()
	p := NewPublisher(&fakeProvider{channels: []*fakeChannel{ch}}, "ex")

	require.NoError(t, p.Publish(context.Background(), RoutingKeyRecall, []byte(`{}`)))
	require.NoError(t, p.Publish(context.Background(), RoutingKeySafetyCheck, []byte(`{}`), WithDelay(time.Second)))

	assert.True(t, ch.confirming)
	msgs := ch.publishedMessages()
	require.Len(t, msgs, 2)
	assert.True(t, msgs[0].mandatory)
	assert.False(t, msgs[1].mandatory)
}

func TestPublisher_NackIsError(t *testing.T) {
	ch := newFakeChannel()
	ch.nack = true
	provider := &fakeProvider{channels: []*fakeChannel{ch}}
	p := NewPublisher(provider, "ex")

	err := p.Publish(context.Background(), RoutingKeyRecall, []byte(`{}`))
	assert.ErrorIs(t, err, ErrPublishNacked)

	ch.nack = false
	require.NoError(t, p.Publish(context.Background(), RoutingKeyRecall, []byte(`{}`)))
	assert.Equal(t, 1, provider.opened)
}

func TestPublisher_UnroutableIsError(t *testing.T) {
	ch := newFakeChannel()
	ch.unroutable = true
	p := NewPublisher(&fakeProvider{channels: []*fakeChannel{ch}}, "ex")

	err := p.Publish(context.Background(), "no.such.key", []byte(`{}`))
	assert.ErrorIs(t, err, ErrUnroutable)
	assert.Contains(t, err.Error(), "NO_ROUTE")

	assert.NoError(t, p.Publish(context.Background(), RoutingKeySafetyCheck, []byte(`{}`), WithDelay(time.Second)))
}

func TestPublisher_ChannelClosedBeforeConfirmation(t *testing.T) {
	ch := newFakeChannel()
	ch.dropConfirm = true
	provider := &fakeProvider{channels: []*fakeChannel{ch}}
	p := NewPublisher(provider, "inner_bot.safety")

	err := p.Publish(context.Background(), RoutingKeySafetyCheck, []byte(`{}`), WithDelay(time.Second))
	assert.ErrorIs(t, err, ErrConfirmLost)

	ch.dropConfirm = false
	require.NoError(t, p.Publish(context.Background(), RoutingKeySafetyCheck, []byte(`{}`), WithDelay(time.Second)))
	assert.Equal(t, 2, provider.opened)
}

func TestRetryPolicy(t *testing.T) {
	r := RetryPolicy{MaxRetries: 3, BaseDelay: time.Second, MaxDelay: 5 * time.Second}
	assert.Equal(t, time.Second, r.Backoff(0))
	assert.Equal(t, 2*time.Second, r.Backoff(1))
	assert.Equal(t, 4*time.Second, r.Backoff(2))
	assert.Equal(t, 5*time.Second, r.Backoff(3))
	assert.Equal(t, 5*time.Second, r.Backoff(40))
	assert.False(t, r.Exhausted(2))
	assert.True(t, r.Exhausted(3))
	assert.Equal(t, time.Duration(0), RetryPolicy{}.Backoff(2))
}

func TestRetryCount(t *testing.T) {
	assert.Equal(t, 0, RetryCount(nil))
	assert.Equal(t, 2, RetryCount(amqp.Table{HeaderRetryCount: int32(2)}))
	assert.Equal(t, 3, RetryCount(amqp.Table{HeaderRetryCount: int64(3)}))
	assert.Equal(t, 1, RetryCount(amqp.Table{HeaderRetryCount: "1"}))
	assert.Equal(t, 0, RetryCount(amqp.Table{HeaderRetryCount: "many"}))
}

func TestOriginalRoutingKey(t *testing.T) {
	d := amqp.Delivery{
		RoutingKey: "fallback",
		Headers: amqp.Table{HeaderDeath: []interface{}{
			amqp.Table{"queue": "safety_check", "routing-keys": []interface{}{"post.safety.check"}},
		}},
	}
	assert.Equal(t, "post.safety.check", OriginalRoutingKey(d))
	assert.Equal(t, "fallback", OriginalRoutingKey(amqp.Delivery{RoutingKey: "fallback"}))
}

// A failing handler sees the message again through the retry path and, once
// the budget is spent, the message is dead-lettered instead of retried again.
func TestConsumer_RedeliversThenDeadLetters(t *testing.T) {
	ch := newFakeChannel()
	provider := &fakeProvider{channels: []*fakeChannel{ch}}
	obs := &countingObserver{}
	var calls int32
	c := NewConsumer(testLogger(), provider, NewPublisher(provider, "inner_bot.safety"), ConsumerConfig{
		Queue: QueueSafetyCheck,
		Retry: RetryPolicy{MaxRetries: 3, BaseDelay: time.Second, MaxDelay: 10 * time.Second},
	}, func(context.Context, *Message) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("db unavailable")
	}, obs)

	ack := &fakeAcknowledger{}
	d := amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, RoutingKey: RoutingKeySafetyCheck, Body: []byte(`{"session_id":"s"}`)}
	for i := 0; i < 10; i++ {
		c.Process(context.Background(), d)
		msgs := ch.publishedMessages()
		if len(msgs) <= i {
			break
		}
		next := msgs[i]
		d = amqp.Delivery{
			Acknowledger: ack,
			DeliveryTag:  uint64(i + 2),
			RoutingKey:   next.key,
			Headers:      next.msg.Headers,
			Body:         next.msg.Body,
		}
	}

	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
	msgs := ch.publishedMessages()
	require.Len(t, msgs, 3)
	for i, m := range msgs {
		assert.Equal(t, RoutingKeySafetyCheck, m.key)
		assert.Equal(t, int32(i+1), m.msg.Headers[HeaderRetryCount])
		assert.Equal(t, []byte(`{"session_id":"s"}`), m.msg.Body)
	}
	assert.Equal(t, int64(1000), msgs[0].msg.Headers[HeaderDelay])
	assert.Equal(t, int64(4000), msgs[2].msg.Headers[HeaderDelay])

	settled := ack.all()
	require.Len(t, settled, 4)
	for _, s := range settled[:3] {
		assert.True(t, s.acked)
	}
	assert.False(t, settled[3].acked)
	assert.False(t, settled[3].requeue)
	assert.Equal(t, []string{OutcomeRetried, OutcomeRetried, OutcomeRetried, OutcomeDeadLettered}, obs.outcomes)
}

func TestConsumer_RequeuesWhenRetryPublishFails(t *testing.T) {
	ch := newFakeChannel()
	ch.publishErr = errors.New("connection reset")
	provider := &fakeProvider{channels: []*fakeChannel{ch}}
	c := NewConsumer(testLogger(), provider, NewPublisher(provider, "ex"), ConsumerConfig{
		Queue: QueueSafetyCheck,
		Retry: RetryPolicy{MaxRetries: 3},
	}, func(context.Context, *Message) error { return errors.New("boom") }, nil)

	ack := &fakeAcknowledger{}
	c.Process(context.Background(), amqp.Delivery{Acknowledger: ack, DeliveryTag: 7, RoutingKey: "k"})

	settled := ack.all()
	require.Len(t, settled, 1)
	assert.Equal(t, settlement{tag: 7, requeue: true}, settled[0])
}

// A retry the broker refuses must not cost the original delivery.
func TestConsumer_RequeuesWhenRetryIsNacked(t *testing.T) {
	ch := newFakeChannel()
	ch.nack = true
	provider := &fakeProvider{channels: []*fakeChannel{ch}}
	obs := &countingObserver{}
	c := NewConsumer(testLogger(), provider, NewPublisher(provider, "inner_bot.safety"), ConsumerConfig{
		Queue: QueueSafetyCheck,
		Retry: RetryPolicy{MaxRetries: 3, BaseDelay: time.Second},
	}, func(context.Context, *Message) error { return errors.New("db unavailable") }, obs)

	ack := &fakeAcknowledger{}
	c.Process(context.Background(), amqp.Delivery{Acknowledger: ack, DeliveryTag: 9, RoutingKey: RoutingKeySafetyCheck})

	assert.Len(t, ch.publishedMessages(), 1)
	assert.Equal(t, []settlement{{tag: 9, requeue: true}}, ack.all())
	assert.Equal(t, []string{OutcomeRequeued}, obs.outcomes)
}

func TestConsumer_PanicIsHandlerFailure(t *testing.T) {
	provider := &fakeProvider{channels: []*fakeChannel{newFakeChannel()}}
	c := NewConsumer(testLogger(), provider, NewPublisher(provider, "ex"), ConsumerConfig{
		Queue: QueueRecall,
		Retry: RetryPolicy{MaxRetries: 0},
	}, func(context.Context, *Message) error { panic("nil pointer") }, nil)

	ack := &fakeAcknowledger{}
	c.Process(context.Background(), amqp.Delivery{Acknowledger: ack, DeliveryTag: 1})
	assert.Equal(t, []settlement{{tag: 1}}, ack.all())
}

func TestConsumer_UnprocessableSkipsRetries(t *testing.T) {
	ch := newFakeChannel()
	provider := &fakeProvider{channels: []*fakeChannel{ch}}
	c := NewConsumer(testLogger(), provider, NewPublisher(provider, "ex"), ConsumerConfig{
		Queue: QueueSafetyCheck,
		Retry: RetryPolicy{MaxRetries: 5},
	}, func(context.Context, *Message) error {
		return fmt.Errorf("bad body: %w", ErrUnprocessable)
	}, nil)

	ack := &fakeAcknowledger{}
	c.Process(context.Background(), amqp.Delivery{Acknowledger: ack, DeliveryTag: 3})
	assert.Equal(t, []settlement{{tag: 3}}, ack.all())
	assert.Empty(t, ch.publishedMessages())
}

func TestConsumer_RunDrainsWithWorkers(t *testing.T) {
	ch := newFakeChannel()
	ch.deliveries = make(chan amqp.Delivery, 20)
	provider := &fakeProvider{channels: []*fakeChannel{ch}}
	ack := &fakeAcknowledger{}
	var handled int32
	done := make(chan struct{})

	c := NewConsumer(testLogger(), provider, NewPublisher(provider, "ex"), ConsumerConfig{
		Queue:    QueueSafetyCheck,
		Prefetch: 10,
	}, func(context.Context, *Message) error {
		if atomic.AddInt32(&handled, 1) == 20 {
			close(done)
		}
		return nil
	}, nil)

	for i := 0; i < 20; i++ {
		ch.deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: uint64(i + 1)}
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(ctx) }()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("deliveries were not drained")
	}
	cancel()
	require.NoError(t, <-errCh)

	assert.Equal(t, 10, ch.prefetch)
	assert.Len(t, ack.all(), 20)
	for _, s := range ack.all() {
		assert.True(t, s.acked)
	}
}

func TestInspector_Depths(t *testing.T) {
	ch := newFakeChannel()
	ch.depths = map[string]int{"safety_check": 4, "recall": 0, "inner_bot.safety.dlq": 2}
	in := NewInspector(testLogger(), &fakeProvider{channels: []*fakeChannel{ch}}, testTopology())

	depths, err := in.Depths(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []QueueDepth{
		{Queue: "safety_check", Messages: 4, Consumers: 1},
		{Queue: "recall", Messages: 0, Consumers: 1},
		{Queue: "inner_bot.safety.dlq", Messages: 2, Consumers: 1},
	}, depths)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	obs := &countingObserver{}
	in.Monitor(ctx, time.Hour, obs)
	assert.Equal(t, 2, obs.depths["inner_bot.safety.dlq"])
}

func TestInspector_MissingQueue(t *testing.T) {
	in := NewInspector(testLogger(), &fakeProvider{channels: []*fakeChannel{newFakeChannel()}}, testTopology())
	_, err := in.Depths(context.Background())
	assert.Error(t, err)
}

func TestReplayer_Replay(t *testing.T) {
	dlqCh := newFakeChannel()
	ack := &fakeAcknowledger{}
	dead := func(tag uint64, key string) amqp.Delivery {
		return amqp.Delivery{
			Acknowledger: ack,
			DeliveryTag:  tag,
			RoutingKey:   key,
			Body:         []byte(`{}`),
			Headers: amqp.Table{
				HeaderRetryCount: int32(3),
				HeaderDeath: []interface{}{
					amqp.Table{"routing-keys": []interface{}{key}},
				},
			},
		}
	}
	dlqCh.dlq = []amqp.Delivery{
		dead(1, RoutingKeySafetyCheck),
		dead(2, RoutingKeyRecall),
		dead(3, RoutingKeySafetyCheck),
	}
	pubCh := newFakeChannel()

	r := NewReplayer(testLogger(),
		&fakeProvider{channels: []*fakeChannel{dlqCh}},
		NewPublisher(&fakeProvider{channels: []*fakeChannel{pubCh}}, "inner_bot.safety"),
		testTopology(),
	)
	res, err := r.Replay(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, ReplayResult{Replayed: 2}, res)

	msgs := pubCh.publishedMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, RoutingKeySafetyCheck, msgs[0].key)
	assert.Equal(t, RoutingKeyRecall, msgs[1].key)
	assert.Equal(t, int32(0), msgs[0].msg.Headers[HeaderRetryCount])
	assert.Equal(t, true, msgs[0].msg.Headers[HeaderReplayed])
	assert.NotContains(t, msgs[0].msg.Headers, HeaderDeath)
	assert.Len(t, dlqCh.dlq, 1)
	assert.Equal(t, []settlement{{tag: 1, acked: true}, {tag: 2, acked: true}}, ack.all())
}

func TestReplayer_StopsOnUnknownRoute(t *testing.T) {
	dlqCh := newFakeChannel()
	ack := &fakeAcknowledger{}
	dlqCh.dlq = []amqp.Delivery{{Acknowledger: ack, DeliveryTag: 9, RoutingKey: "legacy.key"}}

	r := NewReplayer(testLogger(),
		&fakeProvider{channels: []*fakeChannel{dlqCh}},
		NewPublisher(&fakeProvider{channels: []*fakeChannel{newFakeChannel()}}, "ex"),
		testTopology(),
	)
	res, err := r.Replay(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, ReplayResult{Skipped: 1}, res)
	assert.Equal(t, []settlement{{tag: 9, requeue: true}}, ack.all())
}
