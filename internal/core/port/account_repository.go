package port

import (
	"context"
	"time"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
)

// AccountRepository persists portal accounts.
type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIdentifier(ctx context.Context, identifier string) (*domain.Account, error)
	// UpdateLockState writes the failure-tracking fields mutated by the
	// lockout guard: failed_attempts, locked_until, last_failed_at.
	UpdateLockState(ctx context.Context, account domain.Account) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

// LoginAttemptRepository appends login attempt records.
type LoginAttemptRepository interface {
	Record(ctx context.Context, attempt domain.LoginAttempt) error
}
