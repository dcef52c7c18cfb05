package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
)

// ReminderService scans borrowed service requests with an approaching or
// passed due date and notifies their owners once per day.
type ReminderService struct {
	requests      port.ServiceRequestRepository
	notifications port.NotificationRepository
	clock         port.Clock
	interval      time.Duration
	horizon       time.Duration
	logger        *zap.Logger
}

// NewReminderService constructs a ReminderService instance. interval is how
// often the scan runs, horizon how far ahead of the due date owners are
// warned.
func NewReminderService(
	requests port.ServiceRequestRepository,
	notifications port.NotificationRepository,
	clock port.Clock,
	interval, horizon time.Duration,
	logger *zap.Logger,
) (*ReminderService, error) {
	if requests == nil {
		return nil, fmt.Errorf("service request repository is required")
	}
	if notifications == nil {
		return nil, fmt.Errorf("notification repository is required")
	}
	if clock == nil {
		clock = port.SystemClock()
	}
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	if horizon <= 0 {
		horizon = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ReminderService{
		requests:      requests,
		notifications: notifications,
		clock:         clock,
		interval:      interval,
		horizon:       horizon,
		logger:        logger,
	}, nil
}

// Run executes scans on the configured interval until ctx is cancelled. One
// scan runs immediately on startup.
func (s *ReminderService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.scan(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.scan(ctx)
		}
	}
}

// scan performs one reminder pass. Failures on individual requests are
// logged and skipped, never aborting the pass.
func (s *ReminderService) scan(ctx context.Context) {
	now := s.clock.Now()
	due, err := s.requests.ListDueBefore(ctx, now.Add(s.horizon))
	if err != nil {
		s.logger.Error("reminder scan failed", zap.Error(err))
		return
	}

	sent := 0
	for _, request := range due {
		if request.DueDate == nil {
			continue
		}

		key := ReminderDedupeKey(request.ID, now)
		exists, err := s.notifications.Exists(ctx, request.OwnerID, key)
		if err != nil {
			s.logger.Warn("reminder dedupe check failed", zap.String("request_id", request.ID), zap.Error(err))
			continue
		}
		if exists {
			continue
		}

		notification := reminderNotification(request, key, now)
		if err := s.notifications.Notify(ctx, notification); err != nil {
			s.logger.Warn("reminder notification failed", zap.String("request_id", request.ID), zap.Error(err))
			continue
		}
		sent++
	}

	s.logger.Info("reminder scan complete", zap.Int("due", len(due)), zap.Int("sent", sent))
}

// ReminderDedupeKey names one request's reminder for one calendar day, so a
// rerun of the scan never double-notifies.
func ReminderDedupeKey(requestID string, now time.Time) string {
	return fmt.Sprintf("reminder:%s:%s", requestID, now.UTC().Format("2006-01-02"))
}

func reminderNotification(request domain.ServiceRequest, key string, now time.Time) domain.Notification {
	severity := domain.SeverityInfo
	message := fmt.Sprintf("Your borrowed item %q is due on %s. Please return it on time.",
		request.ItemName, request.DueDate.Format("Jan 2, 2006"))
	if request.DueDate.Before(now) {
		severity = domain.SeverityWarning
		message = fmt.Sprintf("Your borrowed item %q was due on %s. Please return it as soon as possible.",
			request.ItemName, request.DueDate.Format("Jan 2, 2006"))
	}

	return domain.Notification{
		ID:        uuid.NewString(),
		AccountID: request.OwnerID,
		Title:     "Return reminder",
		Message:   message,
		Severity:  severity,
		DedupeKey: &key,
		CreatedAt: now,
	}
}
