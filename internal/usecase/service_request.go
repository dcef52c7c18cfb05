package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
	"github.com/JJProjectStash/aibarangay-be/internal/repository"
)

// FileServiceRequestInput carries a new facility or equipment borrow request.
type FileServiceRequestInput struct {
	ItemName string
	Purpose  string
	Category string
	Quantity int
	DueDate  *time.Time
}

// ServiceRequestService handles the service request lifecycle.
type ServiceRequestService struct {
	requests port.ServiceRequestRepository
	statusTransitioner
}

// NewServiceRequestService constructs a ServiceRequestService instance.
func NewServiceRequestService(
	requests port.ServiceRequestRepository,
	notifications port.NotificationSink,
	audit port.AuditSink,
	publisher port.EventPublisher,
	clock port.Clock,
	logger *zap.Logger,
) (*ServiceRequestService, error) {
	if requests == nil {
		return nil, fmt.Errorf("service request repository is required")
	}

	return &ServiceRequestService{
		requests:           requests,
		statusTransitioner: newStatusTransitioner(notifications, audit, publisher, clock, logger),
	}, nil
}

// File creates a pending service request owned by the actor.
func (s *ServiceRequestService) File(ctx context.Context, actor Actor, input FileServiceRequestInput) (*domain.ServiceRequest, error) {
	itemName := strings.TrimSpace(input.ItemName)
	purpose := strings.TrimSpace(input.Purpose)
	category := strings.TrimSpace(input.Category)
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}

	now := s.clock.Now()

	var problems []string
	if itemName == "" {
		problems = append(problems, "item name is required")
	}
	if purpose == "" {
		problems = append(problems, "purpose is required")
	}
	if quantity < 1 {
		problems = append(problems, "quantity must be at least 1")
	}
	if input.DueDate != nil && input.DueDate.Before(now) {
		problems = append(problems, "due date must be in the future")
	}
	if len(problems) > 0 {
		return nil, newValidationError(problems...)
	}

	request, filed := domain.NewServiceRequest(actor.ID, actor.Name, itemName, purpose, category, quantity, input.DueDate, now)
	if err := s.requests.Create(ctx, request, filed); err != nil {
		return nil, fmt.Errorf("create service request: %w", err)
	}

	return &request, nil
}

// Get returns a single service request, scoped to the actor like complaints.
func (s *ServiceRequestService) Get(ctx context.Context, actor Actor, id string) (*domain.ServiceRequest, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Role.Privileged() && request.OwnerID != actor.ID {
		return nil, repository.ErrNotFound
	}
	return request, nil
}

// List returns the service requests visible to the actor plus the total count.
func (s *ServiceRequestService) List(ctx context.Context, actor Actor, params ListParams) ([]domain.ServiceRequest, int, error) {
	filter := BuildRequestFilter(actor, params)

	items, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list service requests: %w", err)
	}

	total := len(items)
	if filter.Paginated() {
		total, err = s.requests.Count(ctx, filter)
		if err != nil {
			return nil, 0, fmt.Errorf("count service requests: %w", err)
		}
	}

	return items, total, nil
}

// History returns the request's append-only status trail.
func (s *ServiceRequestService) History(ctx context.Context, actor Actor, id string) ([]domain.StatusHistoryEntry, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.requests.History(ctx, id)
}

// UpdateStatus moves one service request to a new status. Privileged roles
// only; rejections require a note.
func (s *ServiceRequestService) UpdateStatus(ctx context.Context, actor Actor, id, status, note string) error {
	if !actor.Role.Privileged() {
		return ErrForbidden
	}

	status = strings.TrimSpace(status)
	note = strings.TrimSpace(note)
	if problems := validateTransition(domain.KindServiceRequest, status, note); len(problems) > 0 {
		return newValidationError(problems...)
	}

	var notePtr *string
	if note != "" {
		notePtr = &note
	}

	err := s.transition(ctx, s.requests, id, status, notePtr, actor)
	outcome := "success"
	if err != nil {
		outcome = "failed"
	}
	s.recordAudit(ctx, actor, fmt.Sprintf("status:%s", status), fmt.Sprintf("service_request:%s", id), outcome)
	return err
}
