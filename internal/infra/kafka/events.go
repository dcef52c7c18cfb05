package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
	"github.com/JJProjectStash/aibarangay-be/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

var _ port.EventPublisher = (*EventPublisher)(nil)

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	AccountID string           `json:"account_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, accountID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	if span := trace.SpanFromContext(ctx); span != nil {
		if sc := span.SpanContext(); sc.IsValid() {
			metadata["trace_id"] = sc.TraceID().String()
		}
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		AccountID: accountID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishAccountRegistered publishes brgy.account.registered events.
func (p *EventPublisher) PublishAccountRegistered(ctx context.Context, event domain.AccountRegisteredEvent) error {
	payload := struct {
		AccountID    string    `json:"account_id"`
		Username     string    `json:"username"`
		Role         string    `json:"role"`
		RegisteredAt time.Time `json:"registered_at"`
	}{
		AccountID:    event.AccountID,
		Username:     event.Username,
		Role:         event.Role,
		RegisteredAt: event.RegisteredAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "account.registered", event.AccountID, event.RegisteredAt, payload)
}

// PublishRequestStatusChanged publishes brgy.request.status_changed events.
func (p *EventPublisher) PublishRequestStatusChanged(ctx context.Context, event domain.RequestStatusChangedEvent) error {
	payload := struct {
		Kind      string    `json:"kind"`
		RequestID string    `json:"request_id"`
		OwnerID   string    `json:"owner_id"`
		ActorID   string    `json:"actor_id"`
		OldStatus string    `json:"old_status"`
		NewStatus string    `json:"new_status"`
		Note      *string   `json:"note,omitempty"`
		ChangedAt time.Time `json:"changed_at"`
	}{
		Kind:      string(event.Kind),
		RequestID: event.RequestID,
		OwnerID:   event.OwnerID,
		ActorID:   event.ActorID,
		OldStatus: event.OldStatus,
		NewStatus: event.NewStatus,
		Note:      event.Note,
		ChangedAt: event.ChangedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "request.status_changed", event.OwnerID, event.ChangedAt, payload)
}

// PublishAccountLocked publishes brgy.account.locked events.
func (p *EventPublisher) PublishAccountLocked(ctx context.Context, event domain.AccountLockedEvent) error {
	payload := struct {
		AccountID   string    `json:"account_id"`
		Attempts    int       `json:"attempts"`
		LockedUntil time.Time `json:"locked_until"`
		LockedAt    time.Time `json:"locked_at"`
	}{
		AccountID:   event.AccountID,
		Attempts:    event.Attempts,
		LockedUntil: event.LockedUntil.UTC(),
		LockedAt:    event.LockedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "account.locked", event.AccountID, event.LockedAt, payload)
}
