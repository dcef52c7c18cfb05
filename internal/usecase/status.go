package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
	"github.com/JJProjectStash/aibarangay-be/internal/repository"
)

// statusTransitioner carries the side-effect collaborators every status
// change needs: owner notification, event publication, audit. Both the bulk
// updater and the single-request services compose it.
type statusTransitioner struct {
	notifications port.NotificationSink
	audit         port.AuditSink
	publisher     port.EventPublisher
	clock         port.Clock
	logger        *zap.Logger
}

func newStatusTransitioner(
	notifications port.NotificationSink,
	audit port.AuditSink,
	publisher port.EventPublisher,
	clock port.Clock,
	logger *zap.Logger,
) statusTransitioner {
	if clock == nil {
		clock = port.SystemClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return statusTransitioner{
		notifications: notifications,
		audit:         audit,
		publisher:     publisher,
		clock:         clock,
		logger:        logger,
	}
}

// validateTransition checks the target status against the kind's enum and the
// rejection-note rule. It returns problem messages, not an error, so callers
// can merge them with their own validation.
func validateTransition(kind domain.RequestKind, status, note string) []string {
	var problems []string
	if !validStatusFor(kind, status) {
		problems = append(problems, fmt.Sprintf("unknown %s status %q", kind, status))
	}
	if domain.RejectingStatus(kind, status) && note == "" {
		problems = append(problems, "a note is required when rejecting")
	}
	return problems
}

// transition performs one status change: read the owner/status projection,
// persist the new status with its history entry, then fire the best-effort
// side effects. The primary write error is returned; side-effect errors are
// logged and dropped.
func (t *statusTransitioner) transition(ctx context.Context, store port.RequestStore, id, status string, note *string, actor Actor) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("empty id")
	}

	ref, err := store.GetRef(ctx, id)
	if err != nil {
		return err
	}

	now := t.clock.Now()
	kind := store.Kind()
	entry := domain.NewHistoryEntry(kind, id, "Status updated to "+status, actor.Name, note, now)
	if err := store.UpdateStatus(ctx, id, status, entry); err != nil {
		return err
	}

	// Staff acting on their own request already know; skip the notification.
	if t.notifications != nil && ref.OwnerID != actor.ID {
		notification := domain.Notification{
			ID:        uuid.NewString(),
			AccountID: ref.OwnerID,
			Title:     statusNotificationTitle(kind, status),
			Message:   statusNotificationMessage(kind, ref.Status, status, note),
			Severity:  statusSeverity(kind, status),
			CreatedAt: now,
		}
		if err := t.notifications.Notify(ctx, notification); err != nil {
			t.logger.Warn("status notification failed",
				zap.String("request_id", id),
				zap.String("account_id", ref.OwnerID),
				zap.Error(err),
			)
		}
	}

	if t.publisher != nil {
		event := domain.RequestStatusChangedEvent{
			EventID:   uuid.NewString(),
			Kind:      kind,
			RequestID: id,
			OwnerID:   ref.OwnerID,
			ActorID:   actor.ID,
			OldStatus: ref.Status,
			NewStatus: status,
			Note:      note,
			ChangedAt: now,
		}
		if err := t.publisher.PublishRequestStatusChanged(ctx, event); err != nil {
			t.logger.Warn("publish status change event failed", zap.String("request_id", id), zap.Error(err))
		}
	}

	return nil
}

func (t *statusTransitioner) recordAudit(ctx context.Context, actor Actor, action, resource, outcome string) {
	if t.audit == nil {
		return
	}

	entry := domain.AuditEntry{
		ID:        uuid.NewString(),
		ActorID:   actor.ID,
		Action:    action,
		Resource:  resource,
		Outcome:   outcome,
		SourceIP:  actor.IP,
		CreatedAt: t.clock.Now(),
	}
	if err := t.audit.Record(ctx, entry); err != nil {
		t.logger.Warn("audit record failed", zap.String("action", action), zap.Error(err))
	}
}

func validStatusFor(kind domain.RequestKind, status string) bool {
	switch kind {
	case domain.KindComplaint:
		return domain.ValidComplaintStatus(status)
	case domain.KindServiceRequest:
		return domain.ValidServiceRequestStatus(status)
	}
	return false
}

func itemErrorMessage(err error) string {
	if errors.Is(err, repository.ErrNotFound) {
		return "not found"
	}
	return err.Error()
}

func statusNotificationTitle(kind domain.RequestKind, status string) string {
	label := "Complaint"
	if kind == domain.KindServiceRequest {
		label = "Service request"
	}
	return fmt.Sprintf("%s %s", label, strings.ReplaceAll(status, "_", " "))
}

func statusNotificationMessage(kind domain.RequestKind, oldStatus, status string, note *string) string {
	label := "complaint"
	if kind == domain.KindServiceRequest {
		label = "service request"
	}
	msg := fmt.Sprintf("Your %s moved from %s to %s.",
		label,
		strings.ReplaceAll(oldStatus, "_", " "),
		strings.ReplaceAll(status, "_", " "),
	)
	if note != nil && *note != "" {
		msg = fmt.Sprintf("%s Note: %s", msg, *note)
	}
	return msg
}

func statusSeverity(kind domain.RequestKind, status string) domain.NotificationSeverity {
	switch {
	case domain.RejectingStatus(kind, status):
		return domain.SeverityWarning
	case kind == domain.KindComplaint && domain.ComplaintStatus(status) == domain.ComplaintResolved,
		kind == domain.KindServiceRequest && domain.ServiceRequestStatus(status) == domain.ServiceApproved:
		return domain.SeveritySuccess
	}
	return domain.SeverityInfo
}
