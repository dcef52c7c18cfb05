package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for development environments.
type StubPublisher struct {
	logger *zap.Logger
}

var _ port.EventPublisher = (*StubPublisher)(nil)

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, accountID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("stub event published",
		zap.String("event_type", eventType),
		zap.String("account_id", accountID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishAccountRegistered logs account.registered events.
func (p *StubPublisher) PublishAccountRegistered(_ context.Context, event domain.AccountRegisteredEvent) error {
	payload := map[string]any{
		"account_id":    event.AccountID,
		"username":      event.Username,
		"role":          event.Role,
		"registered_at": event.RegisteredAt,
	}
	p.logEvent("account.registered", event.AccountID, event.RegisteredAt, payload)
	return nil
}

// PublishRequestStatusChanged logs request.status_changed events.
func (p *StubPublisher) PublishRequestStatusChanged(_ context.Context, event domain.RequestStatusChangedEvent) error {
	payload := map[string]any{
		"kind":       event.Kind,
		"request_id": event.RequestID,
		"owner_id":   event.OwnerID,
		"actor_id":   event.ActorID,
		"old_status": event.OldStatus,
		"new_status": event.NewStatus,
		"note":       event.Note,
		"changed_at": event.ChangedAt,
	}
	p.logEvent("request.status_changed", event.OwnerID, event.ChangedAt, payload)
	return nil
}

// PublishAccountLocked logs account.locked events.
func (p *StubPublisher) PublishAccountLocked(_ context.Context, event domain.AccountLockedEvent) error {
	payload := map[string]any{
		"account_id":   event.AccountID,
		"attempts":     event.Attempts,
		"locked_until": event.LockedUntil,
		"locked_at":    event.LockedAt,
	}
	p.logEvent("account.locked", event.AccountID, event.LockedAt, payload)
	return nil
}
