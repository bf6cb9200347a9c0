package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/lawsuit-monitor/internal/config"
	"github.com/turtacn/lawsuit-monitor/internal/testutil"
	apperrors "github.com/turtacn/lawsuit-monitor/pkg/errors"
)

// mockKafkaWriter
type mockKafkaWriter struct {
	writeFunc func(ctx context.Context, msgs ...kafka.Message) error
	closeFunc func() error
	written   []kafka.Message
}

func (m *mockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if m.writeFunc != nil {
		if err := m.writeFunc(ctx, msgs...); err != nil {
			return err
		}
	}
	m.written = append(m.written, msgs...)
	return nil
}

func (m *mockKafkaWriter) Close() error {
	if m.closeFunc != nil {
		return m.closeFunc()
	}
	return nil
}

func newTestProducer(w WriterInterface) *Producer {
	return NewProducerWithWriter(w, "lawsuit-monitor.reports", time.Second, nil)
}

func TestValidateProducerConfig(t *testing.T) {
	assert.NoError(t, ValidateProducerConfig(config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "t"}))
	assert.Error(t, ValidateProducerConfig(config.KafkaConfig{Topic: "t"}))
	assert.Error(t, ValidateProducerConfig(config.KafkaConfig{Brokers: []string{"localhost:9092"}}))

	_, err := NewProducer(config.KafkaConfig{}, nil)
	assert.Error(t, err)
}

func TestNewProducer_Success(t *testing.T) {
	p, err := NewProducer(config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "t"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "t", p.Topic())
	assert.NoError(t, p.Close())
}

func TestPublish_DefaultTopic(t *testing.T) {
	w := &mockKafkaWriter{}
	p := newTestProducer(w)

	err := p.Publish(context.Background(), Message{Key: []byte("k"), Value: []byte("v"), Headers: map[string]string{"h": "1"}})
	require.NoError(t, err)
	require.Len(t, w.written, 1)
	assert.Equal(t, "lawsuit-monitor.reports", w.written[0].Topic)
	assert.Equal(t, []kafka.Header{{Key: "h", Value: []byte("1")}}, w.written[0].Headers)
	assert.False(t, w.written[0].Time.IsZero())
	assert.Equal(t, int64(1), p.Sent())
}

func TestPublish_Validation(t *testing.T) {
	p := newTestProducer(&mockKafkaWriter{})
	ctx := context.Background()

	assert.Error(t, p.Publish(ctx, Message{}))
	assert.Error(t, p.Publish(ctx, Message{Value: []byte(strings.Repeat("x", maxMessageBytes+1))}))

	empty := NewProducerWithWriter(&mockKafkaWriter{}, "", 0, nil)
	assert.Error(t, empty.Publish(ctx, Message{Value: []byte("v")}))
}

func TestPublish_WriterError(t *testing.T) {
	w := &mockKafkaWriter{writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return errors.New("broker down")
	}}
	p := newTestProducer(w)

	err := p.Publish(context.Background(), Message{Value: []byte("v")})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeEventPublishFailed))
	assert.Equal(t, int64(1), p.Failed())
}

func TestClose_Idempotent(t *testing.T) {
	calls := 0
	p := newTestProducer(&mockKafkaWriter{closeFunc: func() error { calls++; return nil }})

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.Equal(t, 1, calls)
	assert.Equal(t, ErrProducerClosed, p.Publish(context.Background(), Message{Value: []byte("v")}))
}

func TestClose_LogsDeliveryCounts(t *testing.T) {
	calls := 0
	w := &mockKafkaWriter{writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
		calls++
		if calls == 2 {
			return errors.New("broker down")
		}
		return nil
	}}
	logger := testutil.NewMockLogger()
	p := NewProducerWithWriter(w, "lawsuit-monitor.reports", time.Second, logger)

	ctx := context.Background()
	require.NoError(t, p.Publish(ctx, Message{Value: []byte("a")}))
	require.Error(t, p.Publish(ctx, Message{Value: []byte("b")}))
	require.NoError(t, p.Publish(ctx, Message{Value: []byte("c")}))
	require.NoError(t, p.Close())

	msg, ok := logger.Find("info", "Kafka producer closed")
	require.True(t, ok)
	sent, _ := msg.Field("sent")
	failed, _ := msg.Field("failed")
	assert.Equal(t, int64(2), sent)
	assert.Equal(t, int64(1), failed)
}

func TestPublishReport(t *testing.T) {
	w := &mockKafkaWriter{}
	p := newTestProducer(w)

	payload := ReportPublishedPayload{
		IssueNumber: 12,
		IssueTitle:  "Monitor (2024-05-02)",
		Dockets:     3,
		PublishedAt: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.PublishReport(context.Background(), payload))
	require.Len(t, w.written, 1)

	msg := w.written[0]
	assert.Equal(t, []byte("Monitor (2024-05-02)"), msg.Key)

	var env EventEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, EventTypeReportPublished, env.EventType)
	assert.Equal(t, "lawsuit-monitor", env.Source)
	assert.NotEmpty(t, env.EventID)

	var got ReportPublishedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &got))
	assert.Equal(t, payload, got)
}

//Personal.AI order the ending
