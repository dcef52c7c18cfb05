package domain

import "time"

// NotificationSeverity classifies portal notifications.
type NotificationSeverity string

const (
	SeverityInfo    NotificationSeverity = "info"
	SeverityWarning NotificationSeverity = "warning"
	SeveritySuccess NotificationSeverity = "success"
)

// Notification is a persisted per-account message. Delivery is best-effort:
// a failed write is logged and dropped, never surfaced to the caller.
type Notification struct {
	ID        string
	AccountID string
	Title     string
	Message   string
	Severity  NotificationSeverity
	DedupeKey *string
	Read      bool
	CreatedAt time.Time
}

// AuditEntry records a privileged action. Writes share the notification
// best-effort contract.
type AuditEntry struct {
	ID        string
	ActorID   string
	Action    string
	Resource  string
	Outcome   string
	SourceIP  string
	CreatedAt time.Time
}
