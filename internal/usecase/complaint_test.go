package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
	"github.com/JJProjectStash/aibarangay-be/internal/repository"
)

type stubComplaintRepo struct {
	stubRequestStore
	complaints map[string]domain.Complaint
	filed      []domain.StatusHistoryEntry
	lastFilter port.RequestFilter
}

func newStubComplaintRepo(complaints ...domain.Complaint) *stubComplaintRepo {
	repo := &stubComplaintRepo{
		stubRequestStore: *newStubRequestStore(domain.KindComplaint),
		complaints:       make(map[string]domain.Complaint),
	}
	for _, complaint := range complaints {
		repo.complaints[complaint.ID] = complaint
		repo.refs[complaint.ID] = port.RequestRef{ID: complaint.ID, OwnerID: complaint.OwnerID, Status: string(complaint.Status)}
	}
	return repo
}

func (r *stubComplaintRepo) Create(_ context.Context, complaint domain.Complaint, filed domain.StatusHistoryEntry) error {
	r.complaints[complaint.ID] = complaint
	r.refs[complaint.ID] = port.RequestRef{ID: complaint.ID, OwnerID: complaint.OwnerID, Status: string(complaint.Status)}
	r.filed = append(r.filed, filed)
	return nil
}

func (r *stubComplaintRepo) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	if complaint, ok := r.complaints[id]; ok {
		copied := complaint
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (r *stubComplaintRepo) List(_ context.Context, filter port.RequestFilter) ([]domain.Complaint, error) {
	r.lastFilter = filter
	var out []domain.Complaint
	for _, complaint := range r.complaints {
		if filter.OwnerID != "" && complaint.OwnerID != filter.OwnerID {
			continue
		}
		out = append(out, complaint)
	}
	return out, nil
}

func (r *stubComplaintRepo) Count(_ context.Context, filter port.RequestFilter) (int, error) {
	items, _ := r.List(context.Background(), filter)
	return len(items), nil
}

func (r *stubComplaintRepo) History(_ context.Context, id string) ([]domain.StatusHistoryEntry, error) {
	var out []domain.StatusHistoryEntry
	for _, entry := range r.filed {
		if entry.RequestID == id {
			out = append(out, entry)
		}
	}
	for _, entry := range r.history {
		if entry.RequestID == id {
			out = append(out, entry)
		}
	}
	return out, nil
}

func newComplaintFixture(t *testing.T, complaints ...domain.Complaint) (*ComplaintService, *stubComplaintRepo) {
	t.Helper()

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	repo := newStubComplaintRepo(complaints...)
	service, err := NewComplaintService(repo, &stubNotificationSink{}, &stubAuditSink{}, &stubPublisher{}, fixedClock(now), nil)
	if err != nil {
		t.Fatalf("new complaint service: %v", err)
	}
	return service, repo
}

func TestFileComplaint(t *testing.T) {
	service, repo := newComplaintFixture(t)
	resident := Actor{ID: "res-1", Name: "Juan", Role: domain.RoleResident}

	complaint, err := service.File(context.Background(), resident, FileComplaintInput{
		Title:       "Broken streetlight",
		Description: "The light at Purok 3 corner has been out for a week.",
		Category:    "infrastructure",
	})
	if err != nil {
		t.Fatalf("file: %v", err)
	}

	if complaint.Status != domain.ComplaintPending {
		t.Fatalf("expected pending status, got %q", complaint.Status)
	}
	if complaint.OwnerID != "res-1" {
		t.Fatalf("expected owner res-1, got %q", complaint.OwnerID)
	}
	if complaint.Priority != "medium" {
		t.Fatalf("expected default medium priority, got %q", complaint.Priority)
	}

	if len(repo.filed) != 1 {
		t.Fatalf("expected one filed history entry, got %d", len(repo.filed))
	}
	if repo.filed[0].Action != "Complaint filed" {
		t.Fatalf("unexpected filed action %q", repo.filed[0].Action)
	}
}

func TestGetComplaintScopedToOwner(t *testing.T) {
	service, _ := newComplaintFixture(t, domain.Complaint{
		ID:      "c-1",
		OwnerID: "res-1",
		Status:  domain.ComplaintPending,
	})

	t.Run("owner reads own complaint", func(t *testing.T) {
		owner := Actor{ID: "res-1", Role: domain.RoleResident}
		if _, err := service.Get(context.Background(), owner, "c-1"); err != nil {
			t.Fatalf("get: %v", err)
		}
	})

	t.Run("foreign resident reads not found", func(t *testing.T) {
		other := Actor{ID: "res-2", Role: domain.RoleResident}
		if _, err := service.Get(context.Background(), other, "c-1"); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("staff reads any complaint", func(t *testing.T) {
		staff := Actor{ID: "staff-1", Role: domain.RoleStaff}
		if _, err := service.Get(context.Background(), staff, "c-1"); err != nil {
			t.Fatalf("get: %v", err)
		}
	})
}

func TestComplaintUpdateStatus(t *testing.T) {
	service, repo := newComplaintFixture(t, domain.Complaint{
		ID:      "c-1",
		OwnerID: "res-1",
		Status:  domain.ComplaintPending,
	})
	staff := Actor{ID: "staff-1", Name: "Clerk Reyes", Role: domain.RoleStaff}

	if err := service.UpdateStatus(context.Background(), staff, "c-1", "in_progress", ""); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if repo.refs["c-1"].Status != "in_progress" {
		t.Fatalf("expected in_progress, got %q", repo.refs["c-1"].Status)
	}

	t.Run("resident is forbidden", func(t *testing.T) {
		resident := Actor{ID: "res-1", Role: domain.RoleResident}
		if err := service.UpdateStatus(context.Background(), resident, "c-1", "resolved", ""); !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		err := service.UpdateStatus(context.Background(), staff, "c-1", "rejected", "n/a")
		var validation *ValidationError
		if !errors.As(err, &validation) {
			t.Fatalf("expected validation error for a service-request status, got %v", err)
		}
	})
}

func TestListComplaintsResidentScope(t *testing.T) {
	service, repo := newComplaintFixture(t,
		domain.Complaint{ID: "c-1", OwnerID: "res-1", Status: domain.ComplaintPending},
		domain.Complaint{ID: "c-2", OwnerID: "res-2", Status: domain.ComplaintPending},
	)

	resident := Actor{ID: "res-1", Role: domain.RoleResident}
	items, total, err := service.List(context.Background(), resident, ListParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || total != 1 {
		t.Fatalf("expected only the resident's complaint, got %d items / total %d", len(items), total)
	}
	if repo.lastFilter.OwnerID != "res-1" {
		t.Fatalf("expected owner filter res-1, got %q", repo.lastFilter.OwnerID)
	}
}
