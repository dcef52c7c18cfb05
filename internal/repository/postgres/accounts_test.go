package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
	"github.com/JJProjectStash/aibarangay-be/internal/repository"
)

func TestAccountRepository_GetByIdentifier(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAccountRepository(mock)

	registeredAt := time.Now().UTC()
	rows := pgxmock.NewRows([]string{
		"id", "username", "email", "phone", "password_hash", "role", "is_active",
		"failed_attempts", "locked_until", "last_failed_at", "registered_at", "last_login",
	}).AddRow(
		"acc-1", "juandelacruz", "juan@example.com", nil, "hash", domain.RoleResident, true,
		2, nil, nil, registeredAt, nil,
	)

	mock.ExpectQuery(`SELECT .+ FROM barangay\.accounts WHERE \(username = \$1 OR email = \$2\)`).
		WithArgs("juandelacruz", "juandelacruz").
		WillReturnRows(rows)

	account, err := repo.GetByIdentifier(context.Background(), "juandelacruz")
	if err != nil {
		t.Fatalf("GetByIdentifier returned error: %v", err)
	}
	if account.ID != "acc-1" || account.FailedAttempts != 2 {
		t.Fatalf("unexpected account %+v", account)
	}
	if account.Phone != nil {
		t.Fatalf("expected nil phone, got %v", account.Phone)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAccountRepository_GetByIdentifierNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAccountRepository(mock)

	mock.ExpectQuery(`SELECT .+ FROM barangay\.accounts`).
		WithArgs("ghost", "ghost").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "username", "email", "phone", "password_hash", "role", "is_active",
			"failed_attempts", "locked_until", "last_failed_at", "registered_at", "last_login",
		}))

	if _, err := repo.GetByIdentifier(context.Background(), "ghost"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAccountRepository_UpdateLockState(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAccountRepository(mock)

	now := time.Now().UTC()
	until := now.Add(5 * time.Minute)
	account := domain.Account{
		ID:             "acc-1",
		FailedAttempts: 5,
		LockedUntil:    &until,
		LastFailedAt:   &now,
	}

	mock.ExpectExec(`UPDATE barangay\.accounts SET failed_attempts = \$1, locked_until = \$2, last_failed_at = \$3 WHERE id = \$4`).
		WithArgs(5, &until, &now, "acc-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.UpdateLockState(context.Background(), account); err != nil {
		t.Fatalf("UpdateLockState returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
