package broker

import (
	"fmt"

	"github.com/bezhai/inner-bot-server-sub000/pkg/config"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeKindDelayed = "x-delayed-message"
	ExchangeKindTopic   = "topic"

	QueueSafetyCheck = "safety_check"
	QueueRecall      = "recall"

	RoutingKeySafetyCheck = "post.safety.check"
	RoutingKeyRecall      = "action.recall"

	HeaderDelay      = "x-delay"
	HeaderRetryCount = "x-retry-count"
	HeaderDeath      = "x-death"
	HeaderReplayed   = "x-replayed"

	QueueTypeQuorum  = "quorum"
	QueueTypeClassic = "classic"

	argDelayedType        = "x-delayed-type"
	argDeadLetterExchange = "x-dead-letter-exchange"
	argQueueType          = "x-queue-type"
	argDeliveryLimit      = "x-delivery-limit"
)

type Binding struct {
	Queue      string
	RoutingKey string
}

// Topology names every exchange, queue and binding the service relies on.
type Topology struct {
	Exchange           string
	DeadLetterExchange string
	DeadLetterQueue    string
	Bindings           []Binding
	// QueueType and DeliveryLimit apply to the bound queues. A quorum queue
	// dead-letters a message once the broker has redelivered it DeliveryLimit
	// times, which covers consumers that die before settling it.
	QueueType     string
	DeliveryLimit int
}

func NewTopology(cfg config.RabbitMQConfig) Topology {
	return Topology{
		Exchange:           cfg.Exchange,
		DeadLetterExchange: cfg.DeadLetter,
		DeadLetterQueue:    cfg.DeadLetterQ,
		QueueType:          cfg.QueueType,
		DeliveryLimit:      cfg.DeliveryLimit,
		Bindings: []Binding{
			{Queue: QueueSafetyCheck, RoutingKey: RoutingKeySafetyCheck},
			{Queue: QueueRecall, RoutingKey: RoutingKeyRecall},
		},
	}
}

// Queues lists the functional queues followed by the dead-letter queue.
func (t Topology) Queues() []string {
	out := make([]string, 0, len(t.Bindings)+1)
	for _, b := range t.Bindings {
		out = append(out, b.Queue)
	}
	return append(out, t.DeadLetterQueue)
}

// QueueFor returns the queue bound to routingKey.
func (t Topology) QueueFor(routingKey string) (string, bool) {
	for _, b := range t.Bindings {
		if b.RoutingKey == routingKey {
			return b.Queue, true
		}
	}
	return "", false
}

// Declare is idempotent; declaring against an existing topology with the same
// arguments is a no-op on the broker.
func (t Topology) Declare(ch Channel) error {
	if err := ch.ExchangeDeclare(t.DeadLetterExchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare dead letter exchange %s: %w", t.DeadLetterExchange, err)
	}
	if _, err := ch.QueueDeclare(t.DeadLetterQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare dead letter queue %s: %w", t.DeadLetterQueue, err)
	}
	if err := ch.QueueBind(t.DeadLetterQueue, "", t.DeadLetterExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind dead letter queue %s: %w", t.DeadLetterQueue, err)
	}

	args := amqp.Table{argDelayedType: ExchangeKindTopic}
	if err := ch.ExchangeDeclare(t.Exchange, ExchangeKindDelayed, true, false, false, false, args); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", t.Exchange, err)
	}

	for _, b := range t.Bindings {
		if _, err := ch.QueueDeclare(b.Queue, true, false, false, false, t.queueArgs()); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", b.Queue, err)
		}
		if err := ch.QueueBind(b.Queue, b.RoutingKey, t.Exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue %s to %s: %w", b.Queue, b.RoutingKey, err)
		}
	}
	return nil
}

func (t Topology) queueArgs() amqp.Table {
	args := amqp.Table{argDeadLetterExchange: t.DeadLetterExchange}
	if t.QueueType == "" || t.QueueType == QueueTypeClassic {
		return args
	}
	args[argQueueType] = t.QueueType
	if t.QueueType == QueueTypeQuorum && t.DeliveryLimit > 0 {
		args[argDeliveryLimit] = int32(t.DeliveryLimit)
	}
	return args
}
