package broker

import (
	"context"
	"errors"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

type declaredExchange struct {
	name, kind string
	durable    bool
	args       amqp.Table
}

type declaredQueue struct {
	name    string
	durable bool
	args    amqp.Table
}

type binding struct {
	queue, key, exchange string
}

type published struct {
	exchange, key string
	mandatory     bool
	msg           amqp.Publishing
}

type fakeChannel struct {
	mu         sync.Mutex
	exchanges  []declaredExchange
	queues     []declaredQueue
	bindings   []binding
	published  []published
	publishErr error
	depths     map[string]int
	dlq        []amqp.Delivery
	prefetch   int
	deliveries chan amqp.Delivery
	closed     bool

	// nack refuses every publish, unroutable returns mandatory publishes and
	// dropConfirm closes the confirm listener the way a broker channel close does.
	nack        bool
	unroutable  bool
	dropConfirm bool
	confirming  bool
	seq         uint64
	confirms    chan amqp.Confirmation
	returns     chan amqp.Return
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{depths: map[string]int{}}
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, _, _, _ bool, args amqp.Table) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exchanges = append(f.exchanges, declaredExchange{name: name, kind: kind, durable: durable, args: args})
	return nil
}

func (f *fakeChannel) QueueDeclare(name string, durable, _, _, _ bool, args amqp.Table) (amqp.Queue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queues = append(f.queues, declaredQueue{name: name, durable: durable, args: args})
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) QueueDeclarePassive(name string, _, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.depths[name]
	if !ok {
		return amqp.Queue{}, errors.New("NOT_FOUND - no queue '" + name + "'")
	}
	return amqp.Queue{Name: name, Messages: n, Consumers: 1}, nil
}

func (f *fakeChannel) QueueBind(name, key, exchange string, _ bool, _ amqp.Table) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bindings = append(f.bindings, binding{queue: name, key: key, exchange: exchange})
	return nil
}

func (f *fakeChannel) Qos(prefetchCount, _ int, _ bool) error {
	f.prefetch = prefetchCount
	return nil
}

func (f *fakeChannel) Consume(string, string, bool, bool, bool, bool, amqp.Table) (<-chan amqp.Delivery, error) {
	return f.deliveries, nil
}

func (f *fakeChannel) Get(string, bool) (amqp.Delivery, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.dlq) == 0 {
		return amqp.Delivery{}, false, nil
	}
	d := f.dlq[0]
	f.dlq = f.dlq[1:]
	return d, true, nil
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, mandatory, _ bool, msg amqp.Publishing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, published{exchange: exchange, key: key, mandatory: mandatory, msg: msg})
	if !f.confirming {
		return nil
	}
	f.seq++
	if f.unroutable && mandatory && f.returns != nil {
		f.returns <- amqp.Return{ReplyCode: 312, ReplyText: "NO_ROUTE", Exchange: exchange, RoutingKey: key}
	}
	if f.confirms == nil {
		return nil
	}
	if f.dropConfirm {
		close(f.confirms)
		f.confirms = nil
		return nil
	}
	f.confirms <- amqp.Confirmation{DeliveryTag: f.seq, Ack: !f.nack}
	return nil
}

func (f *fakeChannel) Confirm(bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirming = true
	f.seq = 0
	return nil
}

func (f *fakeChannel) NotifyPublish(c chan amqp.Confirmation) chan amqp.Confirmation {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirms = c
	return c
}

func (f *fakeChannel) NotifyReturn(c chan amqp.Return) chan amqp.Return {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.returns = c
	return c
}

func (f *fakeChannel) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed && f.deliveries != nil {
		close(f.deliveries)
	}
	f.closed = true
	return nil
}

func (f *fakeChannel) publishedMessages() []published {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]published(nil), f.published...)
}

type fakeProvider struct {
	mu       sync.Mutex
	channels []*fakeChannel
	opened   int
	err      error
}

func (p *fakeProvider) Channel(context.Context) (Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	ch := p.channels[p.opened%len(p.channels)]
	p.opened++
	return ch, nil
}

type settlement struct {
	tag     uint64
	acked   bool
	requeue bool
}

type fakeAcknowledger struct {
	mu      sync.Mutex
	settled []settlement
}

func (a *fakeAcknowledger) Ack(tag uint64, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.settled = append(a.settled, settlement{tag: tag, acked: true})
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, _ bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.settled = append(a.settled, settlement{tag: tag, requeue: requeue})
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func (a *fakeAcknowledger) all() []settlement {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]settlement(nil), a.settled...)
}

type countingObserver struct {
	mu       sync.Mutex
	outcomes []string
	depths   map[string]int
}

func (o *countingObserver) ObserveDelivery(_ string, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func (o *countingObserver) ObserveQueueDepth(queue string, messages int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.depths == nil {
		o.depths = map[string]int{}
	}
	o.depths[queue] = messages
}
