package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
	"github.com/JJProjectStash/aibarangay-be/internal/infra/security"
)

const testPassword = "correct-horse-42"

func newAuthFixture(t *testing.T, now time.Time, accounts ...domain.Account) (*AuthService, *stubAccountRepo, *stubAttemptRepo) {
	t.Helper()

	repo := newStubAccountRepo(accounts...)
	attempts := &stubAttemptRepo{}

	guard, err := NewLockoutGuard(repo, nil, fixedClock(now), DefaultLockoutPolicy(), nil)
	if err != nil {
		t.Fatalf("new guard: %v", err)
	}

	tokens, err := security.NewTokenManager("0123456789abcdef0123456789abcdef", "barangay-portal", 15*time.Minute)
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}

	service, err := NewAuthService(repo, attempts, guard, tokens, fixedClock(now), nil)
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}

	return service, repo, attempts
}

func testAccount(t *testing.T) domain.Account {
	t.Helper()

	hash, err := security.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	return domain.Account{
		ID:           "acc-1",
		Username:     "juandelacruz",
		Email:        "juan@example.com",
		PasswordHash: hash,
		Role:         domain.RoleResident,
		IsActive:     true,
	}
}

func TestLoginSuccess(t *testing.T) {
	// Issued relative to the real clock so the round trip through Parse,
	// which validates expiry against wall time, stays valid.
	now := time.Now().UTC().Truncate(time.Second)
	account := testAccount(t)
	account.FailedAttempts = 2
	service, repo, attempts := newAuthFixture(t, now, account)

	result, err := service.Login(context.Background(), LoginInput{Identifier: "juandelacruz", Password: testPassword})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.AccessToken == "" {
		t.Fatal("expected a token")
	}
	if result.Account.PasswordHash != "" {
		t.Fatal("expected password hash to be stripped")
	}

	claims, err := service.ParseAccessToken(result.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.AccountID != "acc-1" || claims.Role != "resident" {
		t.Fatalf("unexpected claims %+v", claims)
	}

	stored, _ := repo.GetByID(context.Background(), "acc-1")
	if stored.FailedAttempts != 0 {
		t.Fatalf("expected counters reset, got %d", stored.FailedAttempts)
	}
	if stored.LastLogin == nil || !stored.LastLogin.Equal(now) {
		t.Fatalf("expected last login %v, got %v", now, stored.LastLogin)
	}

	if len(attempts.attempts) != 1 || !attempts.attempts[0].Succeeded {
		t.Fatalf("expected one successful attempt record, got %+v", attempts.attempts)
	}
}

func TestLoginSuccessSkipsResetWriteWhenClean(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service, repo, _ := newAuthFixture(t, now, testAccount(t))

	if _, err := service.Login(context.Background(), LoginInput{Identifier: "juandelacruz", Password: testPassword}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if repo.lockWrites != 0 {
		t.Fatalf("expected no lock-state write for a clean account, got %d", repo.lockWrites)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service, repo, _ := newAuthFixture(t, now, testAccount(t))

	_, err := service.Login(context.Background(), LoginInput{Identifier: "juandelacruz", Password: "wrong"})

	var credentials *CredentialsError
	if !errors.As(err, &credentials) {
		t.Fatalf("expected credentials error, got %v", err)
	}
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatal("expected error to unwrap to ErrInvalidCredentials")
	}
	if credentials.RemainingAttempts != 4 {
		t.Fatalf("expected 4 remaining attempts, got %d", credentials.RemainingAttempts)
	}

	stored, _ := repo.GetByID(context.Background(), "acc-1")
	if stored.FailedAttempts != 1 {
		t.Fatalf("expected counter advanced to 1, got %d", stored.FailedAttempts)
	}
}

func TestLoginLocksOnFifthFailure(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	account := testAccount(t)
	account.FailedAttempts = 4
	service, repo, _ := newAuthFixture(t, now, account)

	_, err := service.Login(context.Background(), LoginInput{Identifier: "juandelacruz", Password: "wrong"})

	var locked *LockedError
	if !errors.As(err, &locked) {
		t.Fatalf("expected locked error on the locking attempt, got %v", err)
	}
	if !errors.Is(err, ErrAccountLocked) {
		t.Fatal("expected error to unwrap to ErrAccountLocked")
	}
	if locked.RemainingSeconds != 300 {
		t.Fatalf("expected 300 remaining seconds, got %d", locked.RemainingSeconds)
	}

	stored, _ := repo.GetByID(context.Background(), "acc-1")
	if stored.LockedUntil == nil {
		t.Fatal("expected the lock to be persisted")
	}
}

func TestLoginWhileLockedDoesNotExtendWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	until := now.Add(2 * time.Minute)
	account := testAccount(t)
	account.FailedAttempts = 5
	account.LockedUntil = &until
	service, repo, attempts := newAuthFixture(t, now, account)

	// Even the correct password is rejected while locked.
	_, err := service.Login(context.Background(), LoginInput{Identifier: "juandelacruz", Password: testPassword})

	var locked *LockedError
	if !errors.As(err, &locked) {
		t.Fatalf("expected locked error, got %v", err)
	}
	if locked.RemainingSeconds != 120 {
		t.Fatalf("expected 120 remaining seconds, got %d", locked.RemainingSeconds)
	}

	stored, _ := repo.GetByID(context.Background(), "acc-1")
	if stored.FailedAttempts != 5 {
		t.Fatalf("expected counter unchanged while locked, got %d", stored.FailedAttempts)
	}
	if !stored.LockedUntil.Equal(until) {
		t.Fatalf("expected lock window unchanged, got %v", stored.LockedUntil)
	}
	if len(attempts.attempts) != 1 || attempts.attempts[0].Succeeded {
		t.Fatalf("expected one failed attempt record, got %+v", attempts.attempts)
	}
}

func TestLoginAfterWindowExpires(t *testing.T) {
	lockedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	until := lockedAt.Add(5 * time.Minute)
	account := testAccount(t)
	account.FailedAttempts = 5
	account.LockedUntil = &until

	service, repo, _ := newAuthFixture(t, until.Add(time.Second), account)

	result, err := service.Login(context.Background(), LoginInput{Identifier: "juandelacruz", Password: testPassword})
	if err != nil {
		t.Fatalf("expected login to succeed after the window, got %v", err)
	}
	if result.AccessToken == "" {
		t.Fatal("expected a token")
	}

	stored, _ := repo.GetByID(context.Background(), "acc-1")
	if stored.FailedAttempts != 0 || stored.LockedUntil != nil {
		t.Fatalf("expected counters reset after successful login, got %+v", stored)
	}
}

func TestLoginUnknownIdentifier(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service, _, attempts := newAuthFixture(t, now)

	_, err := service.Login(context.Background(), LoginInput{Identifier: "nobody", Password: "whatever"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	var credentials *CredentialsError
	if errors.As(err, &credentials) {
		t.Fatal("unknown identifiers must not leak remaining attempts")
	}
	if len(attempts.attempts) != 1 || attempts.attempts[0].AccountID != nil {
		t.Fatalf("expected an anonymous attempt record, got %+v", attempts.attempts)
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	account := testAccount(t)
	account.IsActive = false
	service, _, _ := newAuthFixture(t, now, account)

	if _, err := service.Login(context.Background(), LoginInput{Identifier: "juandelacruz", Password: testPassword}); !errors.Is(err, ErrInactiveAccount) {
		t.Fatalf("expected ErrInactiveAccount, got %v", err)
	}
}
