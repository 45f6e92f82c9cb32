package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestPublisher_Publish(t *testing.T) {
	w := &recordingWriter{}
	p := newPublisher(w, "review-engagement-service", zap.NewNop())
	fixed := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	ctx := WithCorrelationID(context.Background(), "req-1")
	err := p.Publish(ctx, "report.filed", "report", 42, map[string]int{"risk_score": 90})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "report:42", string(msg.Key))
	assert.Equal(t, "report.filed", header(msg, "event_type"))
	assert.Equal(t, "req-1", header(msg, "correlation_id"))

	var event Event
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, "42", event.AggregateID)
	assert.Equal(t, "report", event.AggregateType)
	assert.Equal(t, envelopeVersion, event.Version)
	assert.True(t, event.Timestamp.Equal(fixed))
	assert.Equal(t, "req-1", event.CorrelationID)
	assert.JSONEq(t, `{"risk_score":90}`, string(event.Data))

	_, err = uuid.Parse(event.EventID)
	assert.NoError(t, err)
}

func TestPublisher_NoCorrelationHeaderWithoutID(t *testing.T) {
	w := &recordingWriter{}
	p := newPublisher(w, "svc", zap.NewNop())

	require.NoError(t, p.Publish(context.Background(), "review.submitted", "review", 1, nil))
	assert.Empty(t, header(w.msgs[0], "correlation_id"))
}

func TestPublisher_WriteError(t *testing.T) {
	boom := errors.New("broker unavailable")
	p := newPublisher(&recordingWriter{err: boom}, "svc", zap.NewNop())

	err := p.Publish(context.Background(), "review.submitted", "review", 1, nil)
	assert.ErrorIs(t, err, boom)
}

func TestPublisher_UnmarshalablePayload(t *testing.T) {
	w := &recordingWriter{}
	p := newPublisher(w, "svc", zap.NewNop())

	err := p.Publish(context.Background(), "review.submitted", "review", 1, make(chan int))
	assert.Error(t, err)
	assert.Empty(t, w.msgs)
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.Publish(context.Background(), "x", "y", 1, nil))
}
