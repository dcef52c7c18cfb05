package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
	"github.com/JJProjectStash/aibarangay-be/internal/infra/security"
	"github.com/JJProjectStash/aibarangay-be/internal/repository"
	"github.com/JJProjectStash/aibarangay-be/internal/usecase"
)

type fakeAccountRepo struct {
	byIdentifier map[string]*domain.Account
}

func (r *fakeAccountRepo) Create(context.Context, domain.Account) error { return nil }

func (r *fakeAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	for _, account := range r.byIdentifier {
		if account.ID == id {
			copied := *account
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAccountRepo) GetByIdentifier(_ context.Context, identifier string) (*domain.Account, error) {
	account, ok := r.byIdentifier[identifier]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *account
	return &copied, nil
}

func (r *fakeAccountRepo) UpdateLockState(_ context.Context, account domain.Account) error {
	for key, existing := range r.byIdentifier {
		if existing.ID == account.ID {
			copied := account
			r.byIdentifier[key] = &copied
		}
	}
	return nil
}

func (r *fakeAccountRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	for _, account := range r.byIdentifier {
		if account.ID == id {
			login := at
			account.LastLogin = &login
		}
	}
	return nil
}

type fakePublisher struct {
	locked int
}

func (p *fakePublisher) PublishAccountRegistered(context.Context, domain.AccountRegisteredEvent) error {
	return nil
}

func (p *fakePublisher) PublishRequestStatusChanged(context.Context, domain.RequestStatusChangedEvent) error {
	return nil
}

func (p *fakePublisher) PublishAccountLocked(context.Context, domain.AccountLockedEvent) error {
	p.locked++
	return nil
}

type loginFixture struct {
	router    *gin.Engine
	repo      *fakeAccountRepo
	publisher *fakePublisher
	now       time.Time
}

func newLoginFixture(t *testing.T, account domain.Account) *loginFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	clock := port.ClockFunc(func() time.Time { return now })

	repo := &fakeAccountRepo{byIdentifier: map[string]*domain.Account{
		account.Username: &account,
		account.Email:    &account,
	}}
	publisher := &fakePublisher{}

	guard, err := usecase.NewLockoutGuard(repo, publisher, clock,
		usecase.LockoutPolicy{MaxAttempts: 3, LockoutDuration: 5 * time.Minute}, zap.NewNop())
	require.NoError(t, err)

	tokens, err := security.NewTokenManager("test-secret-key-at-least-32-chars!", "barangay-portal", time.Hour)
	require.NoError(t, err)

	auth, err := usecase.NewAuthService(repo, nil, guard, tokens, clock, zap.NewNop())
	require.NoError(t, err)

	handler := NewAuthHandler(auth, nil, nil)
	router := gin.New()
	handler.RegisterRoutes(router.Group("/auth"), nil, nil)

	return &loginFixture{router: router, repo: repo, publisher: publisher, now: now}
}

func testAccount(t *testing.T, password string) domain.Account {
	t.Helper()

	hash, err := security.HashPassword(password)
	require.NoError(t, err)

	return domain.Account{
		ID:           "acc-1",
		Username:     "maria.santos",
		Email:        "maria.santos@example.ph",
		PasswordHash: hash,
		Role:         domain.RoleResident,
		IsActive:     true,
	}
}

func (f *loginFixture) login(identifier, password string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(map[string]string{"identifier": identifier, "password": password})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestLoginSuccess(t *testing.T) {
	fixture := newLoginFixture(t, testAccount(t, "S3curePass!"))

	rec := fixture.login("maria.santos", "S3curePass!")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "maria.santos", resp.Account.Username)
}

func TestLoginWrongPasswordReportsRemainingAttempts(t *testing.T) {
	fixture := newLoginFixture(t, testAccount(t, "S3curePass!"))

	rec := fixture.login("maria.santos", "wrong")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp RejectedCredentialsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.RemainingAttempts)
}

func TestLoginLocksAfterMaxFailures(t *testing.T) {
	fixture := newLoginFixture(t, testAccount(t, "S3curePass!"))

	fixture.login("maria.santos", "wrong")
	fixture.login("maria.santos", "wrong")

	rec := fixture.login("maria.santos", "wrong")
	require.Equal(t, http.StatusLocked, rec.Code)

	var resp LockedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 300, resp.RemainingSeconds)
	assert.Equal(t, fixture.now.Add(5*time.Minute), resp.LockedUntil.UTC())
	assert.Equal(t, 1, fixture.publisher.locked)
}

func TestLoginLockedAccountRejectsCorrectPassword(t *testing.T) {
	fixture := newLoginFixture(t, testAccount(t, "S3curePass!"))

	for i := 0; i < 3; i++ {
		fixture.login("maria.santos", "wrong")
	}

	rec := fixture.login("maria.santos", "S3curePass!")
	assert.Equal(t, http.StatusLocked, rec.Code)
	// A rejected attempt against a locked account does not extend the lock.
	assert.Equal(t, 1, fixture.publisher.locked)
}

func TestLoginInactiveAccount(t *testing.T) {
	account := testAccount(t, "S3curePass!")
	account.IsActive = false
	fixture := newLoginFixture(t, account)

	rec := fixture.login("maria.santos", "S3curePass!")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLoginUnknownIdentifier(t *testing.T) {
	fixture := newLoginFixture(t, testAccount(t, "S3curePass!"))

	rec := fixture.login("nobody", "whatever")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
}

func TestLoginByEmailIdentifier(t *testing.T) {
	fixture := newLoginFixture(t, testAccount(t, "S3curePass!"))

	rec := fixture.login("maria.santos@example.ph", "S3curePass!")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginValidationErrors(t *testing.T) {
	fixture := newLoginFixture(t, testAccount(t, "S3curePass!"))

	cases := []struct {
		identifier string
		password   string
	}{
		{"", "S3curePass!"},
		{"maria.santos", ""},
	}
	for i, tc := range cases {
		rec := fixture.login(tc.identifier, tc.password)
		assert.Equal(t, http.StatusBadRequest, rec.Code, fmt.Sprintf("case %d", i))
	}
}
