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

var announcementColumns = []string{
	"id",
	"author_id",
	"title",
	"body",
	"category",
	"pinned",
	"published_at",
	"created_at",
	"updated_at",
}

// AnnouncementRepository implements port.AnnouncementRepository using PostgreSQL.
type AnnouncementRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

var _ port.AnnouncementRepository = (*AnnouncementRepository)(nil)

// NewAnnouncementRepository constructs a repository backed by any executor
// that satisfies pgExecutor.
func NewAnnouncementRepository(exec pgExecutor) *AnnouncementRepository {
	return &AnnouncementRepository{
		exec:    exec,
		builder: builder(),
	}
}

// Create inserts a new announcement row.
func (r *AnnouncementRepository) Create(ctx context.Context, announcement domain.Announcement) error {
	stmt, args, err := r.builder.
		Insert("barangay.announcements").
		Columns(announcementColumns...).
		Values(
			announcement.ID,
			announcement.AuthorID,
			announcement.Title,
			announcement.Body,
			announcement.Category,
			announcement.Pinned,
			announcement.PublishedAt,
			announcement.CreatedAt,
			announcement.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert announcement sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert announcement: %w", err)
	}

	return nil
}

// GetByID retrieves one announcement.
func (r *AnnouncementRepository) GetByID(ctx context.Context, id string) (*domain.Announcement, error) {
	stmt, args, err := r.builder.
		Select(announcementColumns...).
		From("barangay.announcements").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select announcement sql: %w", err)
	}

	return scanAnnouncement(r.exec.QueryRow(ctx, stmt, args...))
}

// Update rewrites the announcement's editable fields.
func (r *AnnouncementRepository) Update(ctx context.Context, announcement domain.Announcement) error {
	stmt, args, err := r.builder.
		Update("barangay.announcements").
		Set("title", announcement.Title).
		Set("body", announcement.Body).
		Set("category", announcement.Category).
		Set("pinned", announcement.Pinned).
		Set("updated_at", announcement.UpdatedAt).
		Where(squirrel.Eq{"id": announcement.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update announcement sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update announcement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes one announcement.
func (r *AnnouncementRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.
		Delete("barangay.announcements").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete announcement sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns announcements, pinned first then newest first.
func (r *AnnouncementRepository) List(ctx context.Context, filter port.ContentFilter) ([]domain.Announcement, error) {
	q := r.builder.
		Select(announcementColumns...).
		From("barangay.announcements").
		OrderBy("pinned DESC", "published_at DESC")
	q = applyContentFilter(q, filter, "title", "body")
	q = paginate(q, filter.Skip, filter.Limit)

	stmt, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list announcements sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	defer rows.Close()

	var announcements []domain.Announcement
	for rows.Next() {
		announcement, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		announcements = append(announcements, *announcement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate announcements: %w", err)
	}

	return announcements, nil
}

// Count returns the total number of announcements matching the filter.
func (r *AnnouncementRepository) Count(ctx context.Context, filter port.ContentFilter) (int, error) {
	q := r.builder.
		Select("COUNT(*)").
		From("barangay.announcements")
	q = applyContentFilter(q, filter, "title", "body")

	stmt, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count announcements sql: %w", err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count announcements: %w", err)
	}

	return count, nil
}

func scanAnnouncement(row pgx.Row) (*domain.Announcement, error) {
	var announcement domain.Announcement

	if err := row.Scan(
		&announcement.ID,
		&announcement.AuthorID,
		&announcement.Title,
		&announcement.Body,
		&announcement.Category,
		&announcement.Pinned,
		&announcement.PublishedAt,
		&announcement.CreatedAt,
		&announcement.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan announcement: %w", err)
	}

	return &announcement, nil
}
