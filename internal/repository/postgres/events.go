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

var eventColumns = []string{
	"id",
	"author_id",
	"title",
	"description",
	"location",
	"starts_at",
	"ends_at",
	"capacity",
	"created_at",
	"updated_at",
}

// EventRepository implements port.EventRepository using PostgreSQL.
type EventRepository struct {
	db      pgPool
	builder squirrel.StatementBuilderType
}

var _ port.EventRepository = (*EventRepository)(nil)

// NewEventRepository constructs a repository backed by a transactional pool;
// event deletion sweeps registrations in the same transaction.
func NewEventRepository(db pgPool) *EventRepository {
	return &EventRepository{
		db:      db,
		builder: builder(),
	}
}

// Create inserts a new event row.
func (r *EventRepository) Create(ctx context.Context, event domain.Event) error {
	stmt, args, err := r.builder.
		Insert("barangay.events").
		Columns(eventColumns...).
		Values(
			event.ID,
			event.AuthorID,
			event.Title,
			event.Description,
			event.Location,
			event.StartsAt,
			event.EndsAt,
			event.Capacity,
			event.CreatedAt,
			event.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert event sql: %w", err)
	}

	if _, err := r.db.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	return nil
}

// GetByID retrieves one event.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	stmt, args, err := r.builder.
		Select(eventColumns...).
		From("barangay.events").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select event sql: %w", err)
	}

	return scanEvent(r.db.QueryRow(ctx, stmt, args...))
}

// Update rewrites the event's editable fields.
func (r *EventRepository) Update(ctx context.Context, event domain.Event) error {
	stmt, args, err := r.builder.
		Update("barangay.events").
		Set("title", event.Title).
		Set("description", event.Description).
		Set("location", event.Location).
		Set("starts_at", event.StartsAt).
		Set("ends_at", event.EndsAt).
		Set("capacity", event.Capacity).
		Set("updated_at", event.UpdatedAt).
		Where(squirrel.Eq{"id": event.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update event sql: %w", err)
	}

	tag, err := r.db.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes one event and its registrations.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete event: %w", err)
	}
	defer tx.Rollback(ctx)

	stmt, args, err := r.builder.
		Delete("barangay.event_registrations").
		Where(squirrel.Eq{"event_id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete registrations sql: %w", err)
	}
	if _, err := tx.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("delete registrations: %w", err)
	}

	stmt, args, err = r.builder.
		Delete("barangay.events").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete event sql: %w", err)
	}

	tag, err := tx.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete event: %w", err)
	}

	return nil
}

// List returns events, soonest first. The category filter does not apply to
// events; only the text search is honored.
func (r *EventRepository) List(ctx context.Context, filter port.ContentFilter) ([]domain.Event, error) {
	q := r.builder.
		Select(eventColumns...).
		From("barangay.events").
		OrderBy("starts_at ASC")
	if filter.Search != "" {
		q = q.Where(squirrel.Or{
			squirrel.ILike{"title": searchPattern(filter.Search)},
			squirrel.ILike{"description": searchPattern(filter.Search)},
		})
	}
	q = paginate(q, filter.Skip, filter.Limit)

	stmt, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list events sql: %w", err)
	}

	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}

// Count returns the total number of events matching the filter.
func (r *EventRepository) Count(ctx context.Context, filter port.ContentFilter) (int, error) {
	q := r.builder.
		Select("COUNT(*)").
		From("barangay.events")
	if filter.Search != "" {
		q = q.Where(squirrel.Or{
			squirrel.ILike{"title": searchPattern(filter.Search)},
			squirrel.ILike{"description": searchPattern(filter.Search)},
		})
	}

	stmt, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count events sql: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}

	return count, nil
}

// Register inserts one registration. The unique (event_id, account_id) index
// turns repeats into ErrDuplicate.
func (r *EventRepository) Register(ctx context.Context, registration domain.EventRegistration) error {
	stmt, args, err := r.builder.
		Insert("barangay.event_registrations").
		Columns("id", "event_id", "account_id", "registered_at").
		Values(
			registration.ID,
			registration.EventID,
			registration.AccountID,
			registration.RegisteredAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert registration sql: %w", err)
	}

	if _, err := r.db.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert registration: %w", err)
	}

	return nil
}

// CountRegistrations returns the number of registrations for one event.
func (r *EventRepository) CountRegistrations(ctx context.Context, eventID string) (int, error) {
	stmt, args, err := r.builder.
		Select("COUNT(*)").
		From("barangay.event_registrations").
		Where(squirrel.Eq{"event_id": eventID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count registrations sql: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}

	return count, nil
}

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var event domain.Event

	if err := row.Scan(
		&event.ID,
		&event.AuthorID,
		&event.Title,
		&event.Description,
		&event.Location,
		&event.StartsAt,
		&event.EndsAt,
		&event.Capacity,
		&event.CreatedAt,
		&event.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}

	return &event, nil
}
