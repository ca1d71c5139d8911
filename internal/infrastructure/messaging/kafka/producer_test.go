package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"

	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/monitoring/logging"
)

func newMockLogger() logging.Logger {
	return logging.NewNopLogger()
}

type mockKafkaWriter struct {
	writeFunc func(ctx context.Context, msgs ...kafka.Message) error
	closeFunc func() error
	statsFunc func() kafka.WriterStats
}

func (m *mockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if m.writeFunc != nil {
		return m.writeFunc(ctx, msgs...)
	}
	return nil
}

func (m *mockKafkaWriter) Close() error {
	if m.closeFunc != nil {
		return m.closeFunc()
	}
	return nil
}

func (m *mockKafkaWriter) Stats() kafka.WriterStats {
	if m.statsFunc != nil {
		return m.statsFunc()
	}
	return kafka.WriterStats{}
}

func newTestProducerConfig() ProducerConfig {
	return ProducerConfig{
		Brokers:         []string{"localhost:9092"},
		MaxMessageBytes: 1024 * 1024,
	}
}

func newTestMessage(topic, key, value string) *Message {
	return &Message{
		Topic: topic,
		Key:   []byte(key),
		Value: []byte(value),
	}
}

func newTestProducer(mockWriter WriterInterface) *Producer {
	return &Producer{
		writer:  mockWriter,
		config:  newTestProducerConfig(),
		logger:  newMockLogger(),
		metrics: &ProducerMetrics{},
	}
}

func TestValidateProducerConfig_Valid(t *testing.T) {
	cfg := newTestProducerConfig()
	err := ValidateProducerConfig(cfg)
	assert.NoError(t, err)
}

func TestValidateProducerConfig_EmptyBrokers(t *testing.T) {
	cfg := newTestProducerConfig()
	cfg.Brokers = nil
	err := ValidateProducerConfig(cfg)
	assert.Error(t, err)
}

func TestPublish_Success(t *testing.T) {
	var capturedMsgs []kafka.Message
	mock := &mockKafkaWriter{
		writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
			capturedMsgs = msgs
			return nil
		},
	}
	p := newTestProducer(mock)
	msg := newTestMessage("statute.parsed", "statute_x_1947", "payload")
	err := p.Publish(context.Background(), msg)
	assert.NoError(t, err)
	assert.Len(t, capturedMsgs, 1)
	assert.Equal(t, "statute.parsed", capturedMsgs[0].Topic)
	assert.Equal(t, "statute_x_1947", string(capturedMsgs[0].Key))
	assert.Equal(t, "payload", string(capturedMsgs[0].Value))
	assert.Equal(t, int64(1), p.metrics.MessagesSent.Load())
}

func TestPublish_EmptyTopic(t *testing.T) {
	p := newTestProducer(&mockKafkaWriter{})
	err := p.Publish(context.Background(), newTestMessage("", "k", "v"))
	assert.Error(t, err)
}

func TestPublish_MessageTooLarge(t *testing.T) {
	p := newTestProducer(&mockKafkaWriter{})
	msg := &Message{Topic: "statute.parsed", Value: make([]byte, 2*1024*1024)}
	err := p.Publish(context.Background(), msg)
	assert.Error(t, err)
}

func TestPublish_Failure(t *testing.T) {
	mock := &mockKafkaWriter{
		writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
			return errors.New("write failed")
		},
	}
	p := newTestProducer(mock)
	msg := newTestMessage("statute.parsed", "k", "v")
	err := p.Publish(context.Background(), msg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "STAT_006")
	assert.Equal(t, int64(1), p.metrics.MessagesFailed.Load())
}

func TestPublishBatch_PartialFailure(t *testing.T) {
	mock := &mockKafkaWriter{
		writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
			errs := make(kafka.WriteErrors, len(msgs))
			errs[0] = nil
			errs[1] = errors.New("fail")
			return errs
		},
	}
	p := newTestProducer(mock)
	msgs := []*Message{
		newTestMessage("statute.parsed", "1", "1"),
		newTestMessage("statute.parsed", "2", "2"),
	}
	res, err := p.PublishBatch(context.Background(), msgs)
	assert.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	assert.Len(t, res.Errors, 1)
	assert.Equal(t, 1, res.Errors[0].Index)
}

func TestPublishAsync_ErrorHandler(t *testing.T) {
	done := make(chan error, 1)
	mock := &mockKafkaWriter{
		writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
			return errors.New("broker down")
		},
	}
	p := newTestProducer(mock)
	p.config.AsyncErrorHandler = func(err error, msg *Message) {
		done <- err
	}
	p.PublishAsync(context.Background(), newTestMessage("statute.parsed", "k", "v"))

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for async error handler")
	}
}

func TestClose_Idempotent(t *testing.T) {
	closeCalls := 0
	mock := &mockKafkaWriter{
		closeFunc: func() error {
			closeCalls++
			return nil
		},
	}
	p := newTestProducer(mock)
	assert.NoError(t, p.Close())
	assert.NoError(t, p.Close())
	assert.Equal(t, 1, closeCalls)

	err := p.Publish(context.Background(), newTestMessage("statute.parsed", "k", "v"))
	assert.ErrorIs(t, err, ErrProducerClosed)
}
