package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
	"github.com/JJProjectStash/aibarangay-be/internal/repository"
)

func TestComplaintRepository_UpdateStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewComplaintRepository(mock)

	now := time.Now().UTC()
	entry := domain.NewHistoryEntry(domain.KindComplaint, "c-1", "Status updated to resolved", "Clerk Reyes", nil, now)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE barangay\.complaints SET status = \$1, updated_at = \$2 WHERE id = \$3`).
		WithArgs("resolved", now, "c-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`INSERT INTO barangay\.request_history`).
		WithArgs(entry.ID, entry.Kind, entry.RequestID, entry.Action, entry.ActorName, entry.Note, entry.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	if err := repo.UpdateStatus(context.Background(), "c-1", "resolved", entry); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestComplaintRepository_UpdateStatusNotFoundRollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewComplaintRepository(mock)

	now := time.Now().UTC()
	entry := domain.NewHistoryEntry(domain.KindComplaint, "ghost", "Status updated to closed", "Clerk Reyes", nil, now)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE barangay\.complaints`).
		WithArgs("closed", now, "ghost").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	if err := repo.UpdateStatus(context.Background(), "ghost", "closed", entry); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestComplaintRepository_ListAppliesOwnerScope(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewComplaintRepository(mock)

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{
		"id", "owner_id", "title", "description", "category", "priority", "status", "created_at", "updated_at",
	}).AddRow(
		"c-1", "res-1", "Broken streetlight", "Out for a week", "infrastructure", "medium", domain.ComplaintPending, now, now,
	)

	mock.ExpectQuery(`SELECT .+ FROM barangay\.complaints WHERE owner_id = \$1 .*ORDER BY created_at DESC LIMIT 10 OFFSET 0`).
		WithArgs("res-1").
		WillReturnRows(rows)

	filter := port.RequestFilter{OwnerID: "res-1", Skip: 0, Limit: 10}
	complaints, err := repo.List(context.Background(), filter)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(complaints) != 1 || complaints[0].OwnerID != "res-1" {
		t.Fatalf("unexpected complaints %+v", complaints)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
