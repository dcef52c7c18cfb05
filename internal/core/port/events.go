package port

import (
	"context"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
)

// EventPublisher emits domain events to the message bus. Publish failures
// follow the best-effort contract: callers log and continue.
type EventPublisher interface {
	PublishAccountRegistered(ctx context.Context, event domain.AccountRegisteredEvent) error
	PublishRequestStatusChanged(ctx context.Context, event domain.RequestStatusChangedEvent) error
	PublishAccountLocked(ctx context.Context, event domain.AccountLockedEvent) error
}
