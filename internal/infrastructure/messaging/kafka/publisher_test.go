package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyayatech/BareAct-Intelligence/internal/domain/statute"
)

func newTestPublisher(writer WriterInterface) statute.EventPublisher {
	return NewEventPublisher(newTestProducer(writer), "", newMockLogger())
}

func TestEventPublisher_RoutesEventTypeToTopic(t *testing.T) {
	var captured []kafka.Message
	mock := &mockKafkaWriter{
		writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
			captured = append(captured, msgs...)
			return nil
		},
	}
	pub := newTestPublisher(mock)

	event := statute.NewStatuteIngestFailedEvent("contract_act.pdf", "parse", "no sections found")
	err := pub.Publish(context.Background(), event)
	require.NoError(t, err)
	require.Len(t, captured, 1)

	assert.Equal(t, TopicStatuteIngestFailed, captured[0].Topic)
	assert.Equal(t, "contract_act.pdf", string(captured[0].Key))

	env, err := ParseEnvelope(captured[0].Value)
	require.NoError(t, err)
	assert.Equal(t, statute.EventTypeStatuteIngestFailed, env.EventType)
	assert.Equal(t, DefaultEventSource, env.Source)

	var payload statute.StatuteIngestFailedEvent
	require.NoError(t, env.DecodePayload(&payload))
	assert.Equal(t, "parse", payload.Stage)
	assert.Equal(t, "no sections found", payload.Reason)
}

func TestEventPublisher_MultipleEvents(t *testing.T) {
	var topics []string
	mock := &mockKafkaWriter{
		writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
			for _, m := range msgs {
				topics = append(topics, m.Topic)
			}
			return nil
		},
	}
	pub := newTestPublisher(mock)

	err := pub.Publish(context.Background(),
		statute.NewStatuteIngestFailedEvent("a.pdf", "acquire", "timeout"),
		statute.NewStatuteIngestFailedEvent("b.pdf", "parse", "empty"),
	)
	assert.NoError(t, err)
	assert.Equal(t, []string{TopicStatuteIngestFailed, TopicStatuteIngestFailed}, topics)
}

func TestEventPublisher_ContinuesAfterFailure(t *testing.T) {
	calls := 0
	mock := &mockKafkaWriter{
		writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
			calls++
			if calls == 1 {
				return errors.New("broker down")
			}
			return nil
		},
	}
	pub := newTestPublisher(mock)

	err := pub.Publish(context.Background(),
		statute.NewStatuteIngestFailedEvent("a.pdf", "acquire", "timeout"),
		statute.NewStatuteIngestFailedEvent("b.pdf", "parse", "empty"),
	)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "STAT_006")
	assert.Equal(t, 2, calls)
}

func TestEventPublisher_SkipsNilEvents(t *testing.T) {
	calls := 0
	mock := &mockKafkaWriter{
		writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
			calls++
			return nil
		},
	}
	pub := newTestPublisher(mock)

	err := pub.Publish(context.Background(), nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, calls)
}

func TestEventPublisher_CloseClosesProducer(t *testing.T) {
	closed := false
	mock := &mockKafkaWriter{
		closeFunc: func() error {
			closed = true
			return nil
		},
	}
	pub := newTestPublisher(mock)
	assert.NoError(t, pub.Close())
	assert.True(t, closed)
}
