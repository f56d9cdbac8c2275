package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/bezhai/inner-bot-server-sub000/pkg/domain/safety"
	"github.com/bezhai/inner-bot-server-sub000/pkg/domain/telemetry"
	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducer struct {
	produced    []*kafka.Message
	deliveryErr error
	produceErr  error
	flushed     bool
	closed      bool
}

func (f *fakeProducer) Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error {
	if f.produceErr != nil {
		return f.produceErr
	}
	f.produced = append(f.produced, msg)
	delivered := *msg
	delivered.TopicPartition.Error = f.deliveryErr
	deliveryChan <- &delivered
	return nil
}

func (f *fakeProducer) Flush(int) int {
	f.flushed = true
	return 0
}

func (f *fakeProducer) Close() {
	f.closed = true
}

func newTestExporter(t *testing.T, fake *fakeProducer) telemetry.Exporter {
	t.Helper()
	base := &Exporter{newProducer: func(cm *kafka.ConfigMap) (producer, error) {
		servers, err := cm.Get("bootstrap.servers", "")
		require.NoError(t, err)
		assert.Equal(t, "broker-1:9092,broker-2:9092", servers)
		return fake, nil
	}}
	settings := map[string]interface{}{"brokers": "broker-1:9092,broker-2:9092", "topic": "safety-events"}
	require.NoError(t, base.ValidateConfig(settings))
	exp, err := base.WithSettings(settings)
	require.NoError(t, err)
	return exp
}

func TestExporter_ValidateConfig(t *testing.T) {
	e := NewKafkaExporter()
	assert.Error(t, e.ValidateConfig(map[string]interface{}{"topic": "t"}))
	assert.Error(t, e.ValidateConfig(map[string]interface{}{"brokers": "b:9092"}))
	assert.Error(t, e.ValidateConfig(map[string]interface{}{"brokers": 42}))
	assert.NoError(t, e.ValidateConfig(map[string]interface{}{"brokers": "b:9092", "topic": "t"}))
}

func TestExporter_Handle(t *testing.T) {
	fake := &fakeProducer{}
	exp := newTestExporter(t, fake)

	state := safety.NewPreSafetyState("hi")
	state.Verdicts = []safety.DetectorVerdict{safety.Block("banned_word", safety.ReasonBannedWord, "matched")}
	state.Aggregate()
	evt := telemetry.PreCheckEvent(state)

	require.NoError(t, exp.Handle(context.Background(), evt))
	require.Len(t, fake.produced, 1)
	msg := fake.produced[0]
	assert.Equal(t, "safety-events", *msg.TopicPartition.Topic)
	assert.Equal(t, []byte("pre_check"), msg.Headers[0].Value)

	var decoded telemetry.SafetyEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, telemetry.OutcomeRefused, decoded.Outcome)
	assert.Equal(t, safety.ReasonBannedWord, decoded.Reason)

	exp.Close()
	assert.True(t, fake.flushed)
	assert.True(t, fake.closed)
}

func TestExporter_HandleErrors(t *testing.T) {
	fake := &fakeProducer{deliveryErr: errors.New("broker down")}
	exp := newTestExporter(t, fake)
	err := exp.Handle(context.Background(), &telemetry.SafetyEvent{Kind: telemetry.KindRecall})
	assert.ErrorContains(t, err, "delivery failed")

	fake = &fakeProducer{produceErr: errors.New("queue full")}
	exp = newTestExporter(t, fake)
	err = exp.Handle(context.Background(), &telemetry.SafetyEvent{})
	assert.ErrorContains(t, err, "queue full")

	assert.Error(t, NewKafkaExporter().Handle(context.Background(), &telemetry.SafetyEvent{}))
}
