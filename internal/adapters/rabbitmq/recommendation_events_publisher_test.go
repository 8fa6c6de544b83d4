package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"marketplace-service/internal/constants"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingPublisher struct {
	routingKey string
	msg        amqp.Publishing
	deadline   bool
	err        error
	calls      int
}

func (c *capturingPublisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	c.calls++
	c.routingKey = routingKey
	c.msg = msg
	_, c.deadline = ctx.Deadline()
	return c.err
}

func sampleEvent() domain.RecommendationCreatedEvent {
	return domain.RecommendationCreatedEvent{
		RecommendationID: uuid.New(),
		PropertyID:       uuid.New(),
		PropertyTitle:    "Sea view flat",
		FromUserID:       uuid.New(),
		ToUserID:         uuid.New(),
		ToEmail:          "bob@example.com",
		Message:          domain.DefaultRecommendationMessage,
		CreatedAt:        time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestPublishRecommendationCreated(t *testing.T) {
	producer := &capturingPublisher{}
	adapter, err := NewRecommendationEventsPublisher(producer, "", nil)
	require.NoError(t, err)

	event := sampleEvent()
	ctx := contextkeys.ContextWithTraceID(context.Background(), "trace-1")
	require.NoError(t, adapter.PublishRecommendationCreated(ctx, event))

	assert.Equal(t, constants.RoutingKeyRecommendationCreated, producer.routingKey)
	assert.True(t, producer.deadline)
	assert.Equal(t, amqp.Persistent, producer.msg.DeliveryMode)
	assert.Equal(t, "trace-1", producer.msg.Headers[constants.HeaderTraceID])
	assert.Equal(t, "RecommendationCreatedEvent", producer.msg.Headers[constants.HeaderEventType])

	var body map[string]any
	require.NoError(t, json.Unmarshal(producer.msg.Body, &body))
	assert.Equal(t, event.RecommendationID.String(), body["recommendationId"])
	assert.Equal(t, "bob@example.com", body["toEmail"])
	assert.Equal(t, "2025-03-01T10:00:00Z", body["createdAt"])
}

func TestPublishRejectsInvalidEvent(t *testing.T) {
	producer := &capturingPublisher{}
	adapter, _ := NewRecommendationEventsPublisher(producer, "custom.key", nil)

	event := sampleEvent()
	event.ToEmail = "broken"
	assert.Error(t, adapter.PublishRecommendationCreated(context.Background(), event))
	assert.Empty(t, producer.routingKey, "invalid event must not be published")
}

func TestPublishPropagatesBrokerError(t *testing.T) {
	producer := &capturingPublisher{err: errors.New("channel closed")}
	adapter, _ := NewRecommendationEventsPublisher(producer, "custom.key", nil)

	err := adapter.PublishRecommendationCreated(context.Background(), sampleEvent())
	assert.EqualError(t, err, "channel closed")
	assert.Equal(t, "custom.key", producer.routingKey)
}

func TestPublishOpensCircuitAfterConsecutiveFailures(t *testing.T) {
	producer := &capturingPublisher{err: errors.New("channel closed")}
	adapter, _ := NewRecommendationEventsPublisher(producer, "", nil)

	for i := 0; i < breakerFailureThreshold; i++ {
		assert.EqualError(t, adapter.PublishRecommendationCreated(context.Background(), sampleEvent()), "channel closed")
	}

	err := adapter.PublishRecommendationCreated(context.Background(), sampleEvent())
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, breakerFailureThreshold, producer.calls)
}

func TestToFieldsSkipsMalformedPairs(t *testing.T) {
	fields := toFields("name", "events", 42, "ignored", "dangling")
	assert.Len(t, fields, 1)
	assert.Equal(t, "events", fields["name"])
}
