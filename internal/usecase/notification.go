package usecase

import (
	"context"
	"fmt"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
)

const defaultNotificationLimit = 50

// NotificationService serves each account's notification feed.
type NotificationService struct {
	notifications port.NotificationRepository
}

// NewNotificationService constructs a NotificationService instance.
func NewNotificationService(notifications port.NotificationRepository) (*NotificationService, error) {
	if notifications == nil {
		return nil, fmt.Errorf("notification repository is required")
	}
	return &NotificationService{notifications: notifications}, nil
}

// List returns the actor's most recent notifications, newest first.
func (s *NotificationService) List(ctx context.Context, actor Actor, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > defaultNotificationLimit {
		limit = defaultNotificationLimit
	}
	return s.notifications.ListByAccount(ctx, actor.ID, limit)
}

// MarkRead flags one of the actor's notifications as read. The account scope
// is part of the write, so an actor can never touch another feed.
func (s *NotificationService) MarkRead(ctx context.Context, actor Actor, id string) error {
	return s.notifications.MarkRead(ctx, actor.ID, id)
}
