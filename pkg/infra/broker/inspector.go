package broker

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

type QueueDepth struct {
	Queue     string `json:"queue"`
	Messages  int    `json:"messages"`
	Consumers int    `json:"consumers"`
}

type DepthObserver interface {
	ObserveQueueDepth(queue string, messages int)
}

type Inspector struct {
	provider ChannelProvider
	topology Topology
	logger   *logrus.Logger
}

func NewInspector(logger *logrus.Logger, provider ChannelProvider, topology Topology) *Inspector {
	return &Inspector{provider: provider, topology: topology, logger: logger}
}

// Depths reports every queue of the topology, dead-letter queue last.
func (i *Inspector) Depths(ctx context.Context) ([]QueueDepth, error) {
	ch, err := i.provider.Channel(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = ch.Close() }()

	queues := i.topology.Queues()
	out := make([]QueueDepth, 0, len(queues))
	for _, name := range queues {
		args := deadLetterArgs(i.topology, name)
		q, err := ch.QueueDeclarePassive(name, true, false, false, false, args)
		if err != nil {
			return nil, fmt.Errorf("failed to inspect queue %s: %w", name, err)
		}
		out = append(out, QueueDepth{Queue: q.Name, Messages: q.Messages, Consumers: q.Consumers})
	}
	return out, nil
}

// Monitor publishes depths to observer every interval until ctx is done.
func (i *Inspector) Monitor(ctx context.Context, interval time.Duration, observer DepthObserver) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		depths, err := i.Depths(ctx)
		if err != nil {
			i.logger.WithError(err).Warn("failed to read queue depths")
		}
		for _, d := range depths {
			observer.ObserveQueueDepth(d.Queue, d.Messages)
			if d.Queue == i.topology.DeadLetterQueue && d.Messages > 0 {
				i.logger.WithField("messages", d.Messages).Warn("dead letter queue is not empty")
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func deadLetterArgs(t Topology, queue string) amqp.Table {
	if queue == t.DeadLetterQueue {
		return nil
	}
	return amqp.Table{argDeadLetterExchange: t.DeadLetterExchange}
}
