package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
	"github.com/JJProjectStash/aibarangay-be/internal/repository"
)

type stubDueRepo struct {
	due []domain.ServiceRequest
}

func (r *stubDueRepo) Kind() domain.RequestKind { return domain.KindServiceRequest }

func (r *stubDueRepo) GetRef(context.Context, string) (*port.RequestRef, error) {
	return nil, repository.ErrNotFound
}

func (r *stubDueRepo) UpdateStatus(context.Context, string, string, domain.StatusHistoryEntry) error {
	return repository.ErrNotFound
}

func (r *stubDueRepo) Create(context.Context, domain.ServiceRequest, domain.StatusHistoryEntry) error {
	return repository.ErrNotFound
}

func (r *stubDueRepo) GetByID(context.Context, string) (*domain.ServiceRequest, error) {
	return nil, repository.ErrNotFound
}

func (r *stubDueRepo) List(context.Context, port.RequestFilter) ([]domain.ServiceRequest, error) {
	return nil, repository.ErrNotFound
}

func (r *stubDueRepo) Count(context.Context, port.RequestFilter) (int, error) {
	return 0, repository.ErrNotFound
}

func (r *stubDueRepo) History(context.Context, string) ([]domain.StatusHistoryEntry, error) {
	return nil, repository.ErrNotFound
}

func (r *stubDueRepo) ListDueBefore(_ context.Context, to time.Time) ([]domain.ServiceRequest, error) {
	var due []domain.ServiceRequest
	for _, request := range r.due {
		if request.Status != domain.ServiceBorrowed || request.DueDate == nil {
			continue
		}
		if request.DueDate.Before(to) {
			due = append(due, request)
		}
	}
	return due, nil
}

func TestReminderDedupeKey(t *testing.T) {
	at := time.Date(2025, 6, 1, 23, 30, 0, 0, time.FixedZone("PHT", 8*3600))
	key := ReminderDedupeKey("req-1", at)
	// The day component is UTC, so reruns within one UTC day share a key.
	if key != "reminder:req-1:2025-06-01" {
		t.Fatalf("unexpected dedupe key %q", key)
	}
}

func TestReminderScanNotifiesOncePerDay(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	due := now.Add(6 * time.Hour)

	requests := &stubDueRepo{due: []domain.ServiceRequest{
		{ID: "req-1", OwnerID: "res-1", ItemName: "Folding tables", Status: domain.ServiceBorrowed, DueDate: &due},
		{ID: "req-2", OwnerID: "res-2", ItemName: "Sound system", Status: domain.ServiceBorrowed, DueDate: &due},
	}}
	notifications := &stubNotificationRepo{existing: map[string]bool{
		ReminderDedupeKey("req-2", now): true,
	}}

	service, err := NewReminderService(requests, notifications, fixedClock(now), 0, 0, nil)
	if err != nil {
		t.Fatalf("new reminder service: %v", err)
	}

	service.scan(context.Background())

	if len(notifications.sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifications.sent))
	}
	sent := notifications.sent[0]
	if sent.AccountID != "res-1" {
		t.Fatalf("expected notification for res-1, got %q", sent.AccountID)
	}
	if sent.DedupeKey == nil || *sent.DedupeKey != ReminderDedupeKey("req-1", now) {
		t.Fatalf("expected dedupe key set, got %v", sent.DedupeKey)
	}
	if sent.Severity != domain.SeverityInfo {
		t.Fatalf("expected info severity before the due date, got %q", sent.Severity)
	}
}

func TestReminderScanFlagsOverdue(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	due := now.Add(-10 * time.Hour)

	requests := &stubDueRepo{due: []domain.ServiceRequest{
		{ID: "req-1", OwnerID: "res-1", ItemName: "Tent", Status: domain.ServiceBorrowed, DueDate: &due},
	}}
	notifications := &stubNotificationRepo{existing: map[string]bool{}}

	service, err := NewReminderService(requests, notifications, fixedClock(now), 0, 0, nil)
	if err != nil {
		t.Fatalf("new reminder service: %v", err)
	}

	service.scan(context.Background())

	if len(notifications.sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifications.sent))
	}
	if notifications.sent[0].Severity != domain.SeverityWarning {
		t.Fatalf("expected warning severity when overdue, got %q", notifications.sent[0].Severity)
	}
}

func TestReminderScanKeepsLongOverdueInScope(t *testing.T) {
	now := time.Date(2025, 6, 4, 8, 0, 0, 0, time.UTC)
	overdue := now.Add(-72 * time.Hour)
	upcoming := now.Add(12 * time.Hour)
	farFuture := now.Add(5 * 24 * time.Hour)

	requests := &stubDueRepo{due: []domain.ServiceRequest{
		{ID: "req-old", OwnerID: "res-1", ItemName: "Tent", Status: domain.ServiceBorrowed, DueDate: &overdue},
		{ID: "req-soon", OwnerID: "res-2", ItemName: "Chairs", Status: domain.ServiceBorrowed, DueDate: &upcoming},
		{ID: "req-later", OwnerID: "res-3", ItemName: "Stage", Status: domain.ServiceBorrowed, DueDate: &farFuture},
		{ID: "req-done", OwnerID: "res-4", ItemName: "Tables", Status: domain.ServiceReturned, DueDate: &overdue},
	}}
	notifications := &stubNotificationRepo{existing: map[string]bool{}}

	service, err := NewReminderService(requests, notifications, fixedClock(now), 0, 24*time.Hour, nil)
	if err != nil {
		t.Fatalf("new reminder service: %v", err)
	}

	service.scan(context.Background())

	// A borrow overdue by days is still reminded; only far-future due dates
	// and already-returned items fall outside the scan.
	if len(notifications.sent) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notifications.sent))
	}
	owners := map[string]bool{}
	for _, sent := range notifications.sent {
		owners[sent.AccountID] = true
	}
	if !owners["res-1"] || !owners["res-2"] {
		t.Fatalf("expected reminders for res-1 and res-2, got %v", owners)
	}
}
