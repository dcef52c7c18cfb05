package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
	"github.com/JJProjectStash/aibarangay-be/internal/repository"
)

var complaintPriorities = map[string]bool{"low": true, "medium": true, "high": true}

// FileComplaintInput carries a new complaint submission.
type FileComplaintInput struct {
	Title       string
	Description string
	Category    string
	Priority    string
}

// ComplaintService handles the complaint lifecycle.
type ComplaintService struct {
	complaints port.ComplaintRepository
	statusTransitioner
}

// NewComplaintService constructs a ComplaintService instance.
func NewComplaintService(
	complaints port.ComplaintRepository,
	notifications port.NotificationSink,
	audit port.AuditSink,
	publisher port.EventPublisher,
	clock port.Clock,
	logger *zap.Logger,
) (*ComplaintService, error) {
	if complaints == nil {
		return nil, fmt.Errorf("complaint repository is required")
	}

	return &ComplaintService{
		complaints:         complaints,
		statusTransitioner: newStatusTransitioner(notifications, audit, publisher, clock, logger),
	}, nil
}

// File creates a pending complaint owned by the actor.
func (s *ComplaintService) File(ctx context.Context, actor Actor, input FileComplaintInput) (*domain.Complaint, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	category := strings.TrimSpace(input.Category)
	priority := strings.TrimSpace(input.Priority)
	if priority == "" {
		priority = "medium"
	}

	var problems []string
	if title == "" {
		problems = append(problems, "title is required")
	}
	if description == "" {
		problems = append(problems, "description is required")
	}
	if !complaintPriorities[priority] {
		problems = append(problems, "priority must be low, medium or high")
	}
	if len(problems) > 0 {
		return nil, newValidationError(problems...)
	}

	complaint, filed := domain.NewComplaint(actor.ID, actor.Name, title, description, category, priority, s.clock.Now())
	if err := s.complaints.Create(ctx, complaint, filed); err != nil {
		return nil, fmt.Errorf("create complaint: %w", err)
	}

	return &complaint, nil
}

// Get returns a single complaint. Residents only see their own; a foreign id
// reads as not found rather than forbidden, so existence is not leaked.
func (s *ComplaintService) Get(ctx context.Context, actor Actor, id string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Role.Privileged() && complaint.OwnerID != actor.ID {
		return nil, repository.ErrNotFound
	}
	return complaint, nil
}

// List returns the complaints visible to the actor plus the total match count.
func (s *ComplaintService) List(ctx context.Context, actor Actor, params ListParams) ([]domain.Complaint, int, error) {
	filter := BuildRequestFilter(actor, params)

	items, err := s.complaints.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list complaints: %w", err)
	}

	total := len(items)
	if filter.Paginated() {
		total, err = s.complaints.Count(ctx, filter)
		if err != nil {
			return nil, 0, fmt.Errorf("count complaints: %w", err)
		}
	}

	return items, total, nil
}

// History returns the complaint's append-only status trail.
func (s *ComplaintService) History(ctx context.Context, actor Actor, id string) ([]domain.StatusHistoryEntry, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.complaints.History(ctx, id)
}

// UpdateStatus moves one complaint to a new status. Privileged roles only.
func (s *ComplaintService) UpdateStatus(ctx context.Context, actor Actor, id, status, note string) error {
	if !actor.Role.Privileged() {
		return ErrForbidden
	}

	status = strings.TrimSpace(status)
	note = strings.TrimSpace(note)
	if problems := validateTransition(domain.KindComplaint, status, note); len(problems) > 0 {
		return newValidationError(problems...)
	}

	var notePtr *string
	if note != "" {
		notePtr = &note
	}

	err := s.transition(ctx, s.complaints, id, status, notePtr, actor)
	outcome := "success"
	if err != nil {
		outcome = "failed"
	}
	s.recordAudit(ctx, actor, fmt.Sprintf("status:%s", status), fmt.Sprintf("complaint:%s", id), outcome)
	return err
}
