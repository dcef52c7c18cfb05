package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
)

// LockoutPolicy configures the account lockout guard.
type LockoutPolicy struct {
	MaxAttempts     int
	LockoutDuration time.Duration
}

// DefaultLockoutPolicy returns the policy applied when configuration is absent.
func DefaultLockoutPolicy() LockoutPolicy {
	return LockoutPolicy{MaxAttempts: 5, LockoutDuration: 5 * time.Minute}
}

// Validate rejects non-positive policy values.
func (p LockoutPolicy) Validate() error {
	if p.MaxAttempts <= 0 {
		return fmt.Errorf("lockout: max attempts must be positive")
	}
	if p.LockoutDuration <= 0 {
		return fmt.Errorf("lockout: duration must be positive")
	}
	return nil
}

// LockStatus is the pure read of an account's lock state at a point in time.
type LockStatus struct {
	Locked           bool
	RemainingSeconds int
	Until            time.Time
}

// CheckLockStatus computes the lock state without side effects. An account
// whose locked_until has passed is open; no write is needed to unlock it.
func CheckLockStatus(account domain.Account, now time.Time) LockStatus {
	if account.LockedUntil == nil || !account.LockedUntil.After(now) {
		return LockStatus{}
	}

	remaining := account.LockedUntil.Sub(now)
	return LockStatus{
		Locked:           true,
		RemainingSeconds: int(math.Ceil(remaining.Seconds())),
		Until:            *account.LockedUntil,
	}
}

// ApplyFailedAttempt returns a copy of the account with the failure counter
// advanced, locking it when the counter reaches the policy maximum.
func ApplyFailedAttempt(account domain.Account, now time.Time, policy LockoutPolicy) domain.Account {
	account.FailedAttempts++
	failedAt := now
	account.LastFailedAt = &failedAt

	if account.FailedAttempts >= policy.MaxAttempts {
		until := now.Add(policy.LockoutDuration)
		account.LockedUntil = &until
	}

	return account
}

// RemainingAttempts reports how many failures remain before lockout.
func RemainingAttempts(account domain.Account, policy LockoutPolicy) int {
	remaining := policy.MaxAttempts - account.FailedAttempts
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ClearLockState resets the failure-tracking fields. The boolean reports
// whether anything changed, so callers can skip the write on the common
// clean-login path.
func ClearLockState(account domain.Account) (domain.Account, bool) {
	if account.FailedAttempts == 0 && account.LockedUntil == nil && account.LastFailedAt == nil {
		return account, false
	}

	account.FailedAttempts = 0
	account.LockedUntil = nil
	account.LastFailedAt = nil
	return account, true
}

// LockoutGuard decides whether login attempts are permitted and maintains the
// per-account failure-tracking state. It never returns domain errors of its
// own; callers translate LockStatus into transport responses.
type LockoutGuard struct {
	accounts  port.AccountRepository
	publisher port.EventPublisher
	clock     port.Clock
	policy    LockoutPolicy
	logger    *zap.Logger
}

// NewLockoutGuard constructs a guard with a validated policy.
func NewLockoutGuard(accounts port.AccountRepository, publisher port.EventPublisher, clock port.Clock, policy LockoutPolicy, logger *zap.Logger) (*LockoutGuard, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = port.SystemClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &LockoutGuard{
		accounts:  accounts,
		publisher: publisher,
		clock:     clock,
		policy:    policy,
		logger:    logger,
	}, nil
}

// Policy exposes the active lockout policy.
func (g *LockoutGuard) Policy() LockoutPolicy {
	return g.policy
}

// Status computes the account's lock state against the guard clock.
func (g *LockoutGuard) Status(account domain.Account) LockStatus {
	return CheckLockStatus(account, g.clock.Now())
}

// RecordFailedAttempt advances the failure counter, persists the mutated
// account, and returns it so callers can report remaining attempts.
func (g *LockoutGuard) RecordFailedAttempt(ctx context.Context, account domain.Account) (domain.Account, error) {
	now := g.clock.Now()
	wasLocked := account.LockedUntil != nil && account.LockedUntil.After(now)

	updated := ApplyFailedAttempt(account, now, g.policy)
	if err := g.accounts.UpdateLockState(ctx, updated); err != nil {
		return account, fmt.Errorf("persist lock state: %w", err)
	}

	if !wasLocked && updated.LockedUntil != nil && g.publisher != nil {
		event := domain.AccountLockedEvent{
			EventID:     uuid.NewString(),
			AccountID:   updated.ID,
			Attempts:    updated.FailedAttempts,
			LockedUntil: *updated.LockedUntil,
			LockedAt:    now,
		}
		if err := g.publisher.PublishAccountLocked(ctx, event); err != nil {
			g.logger.Warn("publish account locked event failed",
				zap.String("account_id", updated.ID),
				zap.Error(err),
			)
		}
	}

	return updated, nil
}

// RecordSuccessfulLogin resets the failure-tracking fields, persisting only
// when a reset actually changed something.
func (g *LockoutGuard) RecordSuccessfulLogin(ctx context.Context, account domain.Account) (domain.Account, error) {
	updated, changed := ClearLockState(account)
	if !changed {
		return account, nil
	}

	if err := g.accounts.UpdateLockState(ctx, updated); err != nil {
		return account, fmt.Errorf("persist lock state: %w", err)
	}

	return updated, nil
}
