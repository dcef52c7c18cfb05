package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
	"github.com/JJProjectStash/aibarangay-be/internal/infra/security"
	"github.com/JJProjectStash/aibarangay-be/internal/repository"
)

var (
	// ErrInvalidCredentials indicates the provided identifier or password are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInactiveAccount indicates the account is disabled.
	ErrInactiveAccount = errors.New("account is not active")
	// ErrAccountLocked indicates the lockout window is active for the account.
	ErrAccountLocked = errors.New("account is locked")
)

// LockedError carries the remaining-time metadata a locked login response
// needs. It unwraps to ErrAccountLocked.
type LockedError struct {
	Until            time.Time
	RemainingSeconds int
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("account locked for %d more seconds", e.RemainingSeconds)
}

func (e *LockedError) Unwrap() error { return ErrAccountLocked }

// CredentialsError reports a rejected credential along with the number of
// attempts left before lockout. It unwraps to ErrInvalidCredentials.
type CredentialsError struct {
	RemainingAttempts int
}

func (e *CredentialsError) Error() string {
	return fmt.Sprintf("invalid credentials, %d attempts remaining", e.RemainingAttempts)
}

func (e *CredentialsError) Unwrap() error { return ErrInvalidCredentials }

// LoginInput captures the credentials and request metadata for a login.
type LoginInput struct {
	Identifier string
	Password   string
	IP         string
	UserAgent  string
}

// LoginResult is returned for a successful authentication.
type LoginResult struct {
	AccessToken string
	ExpiresIn   int
	Account     domain.Account
}

// AuthService coordinates the login flow: lockout guard first, credential
// check second, counter reset and token issuance on success.
type AuthService struct {
	accounts port.AccountRepository
	attempts port.LoginAttemptRepository
	guard    *LockoutGuard
	tokens   *security.TokenManager
	clock    port.Clock
	logger   *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(
	accounts port.AccountRepository,
	attempts port.LoginAttemptRepository,
	guard *LockoutGuard,
	tokens *security.TokenManager,
	clock port.Clock,
	logger *zap.Logger,
) (*AuthService, error) {
	if accounts == nil {
		return nil, fmt.Errorf("account repository is required")
	}
	if guard == nil {
		return nil, fmt.Errorf("lockout guard is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token manager is required")
	}
	if clock == nil {
		clock = port.SystemClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AuthService{
		accounts: accounts,
		attempts: attempts,
		guard:    guard,
		tokens:   tokens,
		clock:    clock,
		logger:   logger,
	}, nil
}

// Login validates credentials and issues an access token.
//
// The lock status is checked before the password: an attempt against a locked
// account is rejected outright and does not advance the failure counter, so
// hammering a locked account never extends its window.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" {
		return nil, newValidationError("identifier is required")
	}
	if input.Password == "" {
		return nil, newValidationError("password is required")
	}

	account, err := s.accounts.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.recordAttempt(ctx, nil, identifier, false, input)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	if !account.IsActive {
		return nil, ErrInactiveAccount
	}

	if status := s.guard.Status(*account); status.Locked {
		s.recordAttempt(ctx, &account.ID, identifier, false, input)
		return nil, &LockedError{Until: status.Until, RemainingSeconds: status.RemainingSeconds}
	}

	ok, err := security.VerifyPassword(input.Password, account.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		updated, guardErr := s.guard.RecordFailedAttempt(ctx, *account)
		if guardErr != nil {
			s.logger.Error("record failed attempt", zap.String("account_id", account.ID), zap.Error(guardErr))
			updated = *account
		}
		s.recordAttempt(ctx, &account.ID, identifier, false, input)

		if status := s.guard.Status(updated); status.Locked {
			return nil, &LockedError{Until: status.Until, RemainingSeconds: status.RemainingSeconds}
		}
		return nil, &CredentialsError{RemainingAttempts: RemainingAttempts(updated, s.guard.Policy())}
	}

	updated, err := s.guard.RecordSuccessfulLogin(ctx, *account)
	if err != nil {
		return nil, fmt.Errorf("reset lock state: %w", err)
	}

	now := s.clock.Now()
	if err := s.accounts.UpdateLastLogin(ctx, updated.ID, now); err != nil {
		s.logger.Warn("update last login failed", zap.String("account_id", updated.ID), zap.Error(err))
	}
	s.recordAttempt(ctx, &updated.ID, identifier, true, input)

	token, expiresIn, err := s.tokens.Issue(updated, now)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	sanitized := updated
	sanitized.PasswordHash = ""

	return &LoginResult{AccessToken: token, ExpiresIn: expiresIn, Account: sanitized}, nil
}

// ParseAccessToken verifies a bearer token and returns its claims.
func (s *AuthService) ParseAccessToken(token string) (*security.AccessTokenClaims, error) {
	return s.tokens.Parse(token)
}

func (s *AuthService) recordAttempt(ctx context.Context, accountID *string, identifier string, succeeded bool, input LoginInput) {
	if s.attempts == nil {
		return
	}

	attempt := domain.LoginAttempt{
		ID:         uuid.NewString(),
		AccountID:  accountID,
		Identifier: identifier,
		Succeeded:  succeeded,
		CreatedAt:  s.clock.Now(),
	}
	if ip := strings.TrimSpace(input.IP); ip != "" {
		attempt.IP = &ip
	}
	if ua := strings.TrimSpace(input.UserAgent); ua != "" {
		attempt.UserAgent = &ua
	}

	if err := s.attempts.Record(ctx, attempt); err != nil {
		s.logger.Warn("record login attempt failed", zap.Error(err))
	}
}
