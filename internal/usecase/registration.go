package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
	"github.com/JJProjectStash/aibarangay-be/internal/infra/security"
	"github.com/JJProjectStash/aibarangay-be/internal/repository"
)

// ErrIdentifierTaken indicates the username or email is already registered.
var ErrIdentifierTaken = errors.New("username or email already registered")

// RegisterInput carries a signup request.
type RegisterInput struct {
	Username string
	Email    string
	Phone    string
	Password string
}

// RegistrationService creates resident accounts.
type RegistrationService struct {
	accounts      port.AccountRepository
	notifications port.NotificationSink
	publisher     port.EventPublisher
	policy        *security.PasswordPolicy
	clock         port.Clock
	logger        *zap.Logger
}

// NewRegistrationService constructs a RegistrationService instance.
func NewRegistrationService(
	accounts port.AccountRepository,
	notifications port.NotificationSink,
	publisher port.EventPublisher,
	policy *security.PasswordPolicy,
	clock port.Clock,
	logger *zap.Logger,
) (*RegistrationService, error) {
	if accounts == nil {
		return nil, fmt.Errorf("account repository is required")
	}
	if policy == nil {
		policy = security.DefaultPasswordPolicy()
	}
	if clock == nil {
		clock = port.SystemClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RegistrationService{
		accounts:      accounts,
		notifications: notifications,
		publisher:     publisher,
		policy:        policy,
		clock:         clock,
		logger:        logger,
	}, nil
}

// Register validates the signup, hashes the password, and persists a resident
// account. New signups always get the resident role; elevation is an admin
// operation, never self-service.
func (s *RegistrationService) Register(ctx context.Context, input RegisterInput) (*domain.Account, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var problems []string
	if len(username) < 3 {
		problems = append(problems, "username must be at least 3 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		problems = append(problems, "email is invalid")
	}
	if err := s.policy.Validate(input.Password, username, email); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return nil, newValidationError(problems...)
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.clock.Now()
	account := domain.Account{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleResident,
		IsActive:     true,
		RegisteredAt: now,
	}
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		account.Phone = &phone
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrIdentifierTaken
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	if s.notifications != nil {
		welcome := domain.Notification{
			ID:        uuid.NewString(),
			AccountID: account.ID,
			Title:     "Welcome to the barangay portal",
			Message:   fmt.Sprintf("Hi %s, your account is ready. You can now file complaints and request services online.", account.Username),
			Severity:  domain.SeverityInfo,
			CreatedAt: now,
		}
		if err := s.notifications.Notify(ctx, welcome); err != nil {
			s.logger.Warn("welcome notification failed", zap.String("account_id", account.ID), zap.Error(err))
		}
	}

	if s.publisher != nil {
		event := domain.AccountRegisteredEvent{
			EventID:      uuid.NewString(),
			AccountID:    account.ID,
			Username:     account.Username,
			Role:         string(account.Role),
			RegisteredAt: now,
		}
		if err := s.publisher.PublishAccountRegistered(ctx, event); err != nil {
			s.logger.Warn("publish account registered event failed", zap.String("account_id", account.ID), zap.Error(err))
		}
	}

	created := account
	created.PasswordHash = ""
	return &created, nil
}
