package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
	"github.com/JJProjectStash/aibarangay-be/internal/repository"
)

var notificationColumns = []string{
	"id",
	"account_id",
	"title",
	"message",
	"severity",
	"dedupe_key",
	"read",
	"created_at",
}

// NotificationRepository implements port.NotificationRepository using PostgreSQL.
type NotificationRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

var _ port.NotificationRepository = (*NotificationRepository)(nil)

// NewNotificationRepository constructs a repository backed by any executor
// that satisfies pgExecutor.
func NewNotificationRepository(exec pgExecutor) *NotificationRepository {
	return &NotificationRepository{
		exec:    exec,
		builder: builder(),
	}
}

// Notify inserts one notification row. A duplicate dedupe key reports
// ErrDuplicate so reminder reruns stay silent.
func (r *NotificationRepository) Notify(ctx context.Context, notification domain.Notification) error {
	stmt, args, err := r.builder.
		Insert("barangay.notifications").
		Columns(notificationColumns...).
		Values(
			notification.ID,
			notification.AccountID,
			notification.Title,
			notification.Message,
			notification.Severity,
			notification.DedupeKey,
			notification.Read,
			notification.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert notification sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert notification: %w", err)
	}

	return nil
}

// ListByAccount returns the account's notifications, newest first.
func (r *NotificationRepository) ListByAccount(ctx context.Context, accountID string, limit int) ([]domain.Notification, error) {
	q := r.builder.
		Select(notificationColumns...).
		From("barangay.notifications").
		Where(squirrel.Eq{"account_id": accountID}).
		OrderBy("created_at DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	stmt, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list notifications sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var notification domain.Notification
		if err := rows.Scan(
			&notification.ID,
			&notification.AccountID,
			&notification.Title,
			&notification.Message,
			&notification.Severity,
			&notification.DedupeKey,
			&notification.Read,
			&notification.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, notification)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}

	return notifications, nil
}

// MarkRead flags one of the account's notifications as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, accountID, id string) error {
	stmt, args, err := r.builder.
		Update("barangay.notifications").
		Set("read", true).
		Where(squirrel.Eq{"id": id, "account_id": accountID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark read sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Exists reports whether a notification with the dedupe key was already
// written for the account.
func (r *NotificationRepository) Exists(ctx context.Context, accountID, dedupeKey string) (bool, error) {
	stmt, args, err := r.builder.
		Select("1").
		From("barangay.notifications").
		Where(squirrel.Eq{"account_id": accountID, "dedupe_key": dedupeKey}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build notification exists sql: %w", err)
	}

	var one int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check notification exists: %w", err)
	}

	return true, nil
}
