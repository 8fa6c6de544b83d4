package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"marketplace-service/internal/constants"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/contracts"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	gobreaker "github.com/sony/gobreaker/v2"
)

const (
	publishTimeout = 10 * time.Second

	// После breakerFailureThreshold ошибок подряд публикация отключается на breakerOpenTimeout
	breakerFailureThreshold = 5
	breakerOpenTimeout      = 30 * time.Second
)

// Publisher - часть rabbitmq_producer.Publisher, нужная адаптеру.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

var _ port.RecommendationEventsPort = (*RecommendationEventsPublisher)(nil)

// RecommendationEventsPublisher отправляет RecommendationCreatedEvent в обменник событий.
type RecommendationEventsPublisher struct {
	producer   Publisher
	routingKey string
	breaker    *gobreaker.CircuitBreaker[struct{}]
}

func NewRecommendationEventsPublisher(producer Publisher, routingKey string, logger port.LoggerPort) (*RecommendationEventsPublisher, error) {
	if producer == nil {
		return nil, fmt.Errorf("producer cannot be nil")
	}
	if routingKey == "" {
		routingKey = constants.RoutingKeyRecommendationCreated
	}
	if logger == nil {
		logger = contextkeys.NoopLogger()
	}

	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "recommendation-events",
		MaxRequests: 1,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Event publishing circuit breaker changed state", port.Fields{
				"breaker": name, "from": from.String(), "to": to.String(),
			})
		},
	})

	return &RecommendationEventsPublisher{producer: producer, routingKey: routingKey, breaker: breaker}, nil
}

func (a *RecommendationEventsPublisher) PublishRecommendationCreated(ctx context.Context, event domain.RecommendationCreatedEvent) error {
	adapterLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":         "RecommendationEventsPublisher",
		"routing_key":       a.routingKey,
		"recommendation_id": event.RecommendationID,
	})

	body, err := json.Marshal(toRecommendationCreatedDTO(event))
	if err != nil {
		adapterLogger.Error("Failed to marshal event", err, nil)
		return fmt.Errorf("failed to marshal recommendation event: %w", err)
	}

	// Невалидное событие не должно попасть к потребителям
	if err := contracts.ValidateEvent(contracts.EventRecommendationCreated, contracts.VersionV1, body); err != nil {
		adapterLogger.Error("Event does not match its contract", err, nil)
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		MessageId:    event.RecommendationID.String(),
		Headers: amqp.Table{
			constants.HeaderEventType:    contracts.EventRecommendationCreated,
			constants.HeaderEventVersion: contracts.VersionV1,
		},
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers[constants.HeaderTraceID] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	_, err = a.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, a.producer.Publish(publishCtx, a.routingKey, msg)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			adapterLogger.Warn("Event dropped, broker circuit is open", nil)
			return err
		}
		adapterLogger.Error("Failed to publish event", err, nil)
		return err
	}

	adapterLogger.Debug("Event published", nil)
	return nil
}
