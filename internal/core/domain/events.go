package domain

import "time"

// AccountRegisteredEvent is published when a resident completes signup.
type AccountRegisteredEvent struct {
	EventID      string
	AccountID    string
	Username     string
	Role         string
	RegisteredAt time.Time
}

// RequestStatusChangedEvent is published for every status transition on a
// trackable request, including each item of a bulk update.
type RequestStatusChangedEvent struct {
	EventID   string
	Kind      RequestKind
	RequestID string
	OwnerID   string
	ActorID   string
	OldStatus string
	NewStatus string
	Note      *string
	ChangedAt time.Time
}

// AccountLockedEvent is published when failed logins trip the lockout guard.
type AccountLockedEvent struct {
	EventID     string
	AccountID   string
	Attempts    int
	LockedUntil time.Time
	LockedAt    time.Time
}
