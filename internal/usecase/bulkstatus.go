package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
)

const maxBulkItems = 100

// BulkStatusInput is a staff request to move a set of requests of one kind to
// a single target status.
type BulkStatusInput struct {
	IDs    []string
	Status string
	Note   string
}

// BulkStatusService applies one status to many requests, item by item.
//
// Items are independent: a missing or failed id never aborts the batch, and
// results come back in input order. Validation that concerns the batch as a
// whole (empty ids, unknown status, rejection without a note) fails fast
// before any item is touched.
type BulkStatusService struct {
	statusTransitioner
}

// NewBulkStatusService constructs a BulkStatusService instance.
func NewBulkStatusService(
	notifications port.NotificationSink,
	audit port.AuditSink,
	publisher port.EventPublisher,
	clock port.Clock,
	logger *zap.Logger,
) *BulkStatusService {
	return &BulkStatusService{
		statusTransitioner: newStatusTransitioner(notifications, audit, publisher, clock, logger),
	}
}

// Apply runs the batch against the given store. The store's Kind decides
// which status enum applies.
func (s *BulkStatusService) Apply(ctx context.Context, store port.RequestStore, input BulkStatusInput, actor Actor) (*domain.BulkResult, error) {
	if !actor.Role.Privileged() {
		return nil, ErrForbidden
	}

	kind := store.Kind()
	status := strings.TrimSpace(input.Status)
	note := strings.TrimSpace(input.Note)

	problems := validateTransition(kind, status, note)
	if len(input.IDs) == 0 {
		problems = append(problems, "ids must not be empty")
	}
	if len(input.IDs) > maxBulkItems {
		problems = append(problems, fmt.Sprintf("at most %d ids per batch", maxBulkItems))
	}
	if len(problems) > 0 {
		return nil, newValidationError(problems...)
	}

	var notePtr *string
	if note != "" {
		notePtr = &note
	}

	result := &domain.BulkResult{Results: make([]domain.BulkItemResult, 0, len(input.IDs))}
	for _, id := range input.IDs {
		item := domain.BulkItemResult{ID: id, Succeeded: true}
		if err := s.transition(ctx, store, id, status, notePtr, actor); err != nil {
			item.Succeeded = false
			item.Error = itemErrorMessage(err)
			result.Failed++
		} else {
			result.Updated++
		}
		result.Results = append(result.Results, item)
	}
	result.Success = result.Failed == 0

	outcome := "success"
	switch {
	case result.Updated == 0:
		outcome = "failed"
	case result.Failed > 0:
		outcome = "partial"
	}
	s.recordAudit(ctx, actor,
		fmt.Sprintf("bulk_status:%s", status),
		fmt.Sprintf("%s:%d updated,%d failed", kind, result.Updated, result.Failed),
		outcome,
	)

	return result, nil
}
