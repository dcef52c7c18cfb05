package port

import (
	"context"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
)

// NotificationSink delivers notifications to account owners. Implementations
// persist the message; callers treat errors as best-effort (log and drop).
type NotificationSink interface {
	Notify(ctx context.Context, notification domain.Notification) error
}

// NotificationRepository extends the sink with the read-side used by the
// notifications endpoints.
type NotificationRepository interface {
	NotificationSink
	ListByAccount(ctx context.Context, accountID string, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, accountID, id string) error
	// Exists reports whether a notification with the dedupe key was already
	// written for the account. Powers the reminder job's per-day dedupe.
	Exists(ctx context.Context, accountID, dedupeKey string) (bool, error)
}

// AuditSink records privileged actions, best-effort.
type AuditSink interface {
	Record(ctx context.Context, entry domain.AuditEntry) error
}
