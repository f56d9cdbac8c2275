package broker

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

type ReplayResult struct {
	Replayed int `json:"replayed"`
	Skipped  int `json:"skipped"`
}

// Replayer moves dead-lettered messages back onto their original routing key
// with a fresh retry budget.
type Replayer struct {
	provider  ChannelProvider
	publisher Publisher
	topology  Topology
	logger    *logrus.Logger
}

func NewReplayer(logger *logrus.Logger, provider ChannelProvider, publisher Publisher, topology Topology) *Replayer {
	return &Replayer{provider: provider, publisher: publisher, topology: topology, logger: logger}
}

func (r *Replayer) Replay(ctx context.Context, limit int) (ReplayResult, error) {
	var res ReplayResult
	if limit <= 0 {
		return res, nil
	}
	ch, err := r.provider.Channel(ctx)
	if err != nil {
		return res, err
	}
	defer func() { _ = ch.Close() }()

	for res.Replayed < limit {
		d, ok, err := ch.Get(r.topology.DeadLetterQueue, false)
		if err != nil {
			return res, fmt.Errorf("failed to read from %s: %w", r.topology.DeadLetterQueue, err)
		}
		if !ok {
			break
		}

		key := OriginalRoutingKey(d)
		if _, known := r.topology.QueueFor(key); !known {
			// Left in place; it would come straight back on the next Get.
			r.logger.WithField("routing_key", key).Warn("dead-lettered message has no known route, stopping replay")
			_ = d.Nack(false, true)
			res.Skipped++
			break
		}

		headers := retryHeaders(d.Headers, 0)
		headers[HeaderReplayed] = true
		if err := r.publisher.Publish(ctx, key, d.Body, WithHeaders(headers), WithCorrelationID(d.CorrelationId)); err != nil {
			_ = d.Nack(false, true)
			return res, err
		}
		if err := d.Ack(false); err != nil {
			return res, fmt.Errorf("failed to ack replayed message: %w", err)
		}
		res.Replayed++
	}

	r.logger.WithFields(logrus.Fields{
		"replayed": res.Replayed,
		"skipped":  res.Skipped,
	}).Info("dead letter replay finished")
	return res, nil
}
