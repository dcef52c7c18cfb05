package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
	"github.com/JJProjectStash/aibarangay-be/internal/repository"
)

var serviceRequestColumns = []string{
	"id",
	"owner_id",
	"item_name",
	"purpose",
	"category",
	"quantity",
	"status",
	"note",
	"due_date",
	"created_at",
	"updated_at",
}

// ServiceRequestRepository implements port.ServiceRequestRepository using PostgreSQL.
type ServiceRequestRepository struct {
	db      pgPool
	builder squirrel.StatementBuilderType
}

var _ port.ServiceRequestRepository = (*ServiceRequestRepository)(nil)

// NewServiceRequestRepository constructs a repository backed by a
// transactional pool; status and history writes share a transaction.
func NewServiceRequestRepository(db pgPool) *ServiceRequestRepository {
	return &ServiceRequestRepository{
		db:      db,
		builder: builder(),
	}
}

// Kind identifies this store to the bulk updater.
func (r *ServiceRequestRepository) Kind() domain.RequestKind {
	return domain.KindServiceRequest
}

// Create inserts the request and its filed history entry in one transaction.
func (r *ServiceRequestRepository) Create(ctx context.Context, request domain.ServiceRequest, filed domain.StatusHistoryEntry) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create service request: %w", err)
	}
	defer tx.Rollback(ctx)

	stmt, args, err := r.builder.
		Insert("barangay.service_requests").
		Columns(serviceRequestColumns...).
		Values(
			request.ID,
			request.OwnerID,
			request.ItemName,
			request.Purpose,
			request.Category,
			request.Quantity,
			request.Status,
			request.Note,
			request.DueDate,
			request.CreatedAt,
			request.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert service request sql: %w", err)
	}

	if _, err := tx.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert service request: %w", err)
	}

	if err := insertHistory(ctx, tx, r.builder, filed); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create service request: %w", err)
	}

	return nil
}

// GetByID retrieves one service request.
func (r *ServiceRequestRepository) GetByID(ctx context.Context, id string) (*domain.ServiceRequest, error) {
	stmt, args, err := r.builder.
		Select(serviceRequestColumns...).
		From("barangay.service_requests").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select service request sql: %w", err)
	}

	return scanServiceRequest(r.db.QueryRow(ctx, stmt, args...))
}

// GetRef retrieves the owner/status projection for the bulk updater.
func (r *ServiceRequestRepository) GetRef(ctx context.Context, id string) (*port.RequestRef, error) {
	stmt, args, err := r.builder.
		Select("id", "owner_id", "status").
		From("barangay.service_requests").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select service request ref sql: %w", err)
	}

	var ref port.RequestRef
	if err := r.db.QueryRow(ctx, stmt, args...).Scan(&ref.ID, &ref.OwnerID, &ref.Status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan service request ref: %w", err)
	}

	return &ref, nil
}

// UpdateStatus persists the status change and its history entry atomically.
// A rejecting transition also records the note on the request row itself.
func (r *ServiceRequestRepository) UpdateStatus(ctx context.Context, id, status string, entry domain.StatusHistoryEntry) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update service request status: %w", err)
	}
	defer tx.Rollback(ctx)

	update := r.builder.
		Update("barangay.service_requests").
		Set("status", status).
		Set("updated_at", entry.CreatedAt).
		Where(squirrel.Eq{"id": id})
	if domain.RejectingStatus(domain.KindServiceRequest, status) {
		update = update.Set("note", entry.Note)
	}

	stmt, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("build update service request status sql: %w", err)
	}

	tag, err := tx.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update service request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	if err := insertHistory(ctx, tx, r.builder, entry); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update service request status: %w", err)
	}

	return nil
}

// List returns service requests matching the filter, newest first.
func (r *ServiceRequestRepository) List(ctx context.Context, filter port.RequestFilter) ([]domain.ServiceRequest, error) {
	q := r.builder.
		Select(serviceRequestColumns...).
		From("barangay.service_requests").
		OrderBy("created_at DESC")
	q = applyRequestFilter(q, filter, "item_name", "purpose")
	q = paginate(q, filter.Skip, filter.Limit)

	stmt, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list service requests sql: %w", err)
	}

	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list service requests: %w", err)
	}
	defer rows.Close()

	var requests []domain.ServiceRequest
	for rows.Next() {
		request, err := scanServiceRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate service requests: %w", err)
	}

	return requests, nil
}

// Count returns the total number of service requests matching the filter.
func (r *ServiceRequestRepository) Count(ctx context.Context, filter port.RequestFilter) (int, error) {
	q := r.builder.
		Select("COUNT(*)").
		From("barangay.service_requests")
	q = applyRequestFilter(q, filter, "item_name", "purpose")

	stmt, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count service requests sql: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count service requests: %w", err)
	}

	return count, nil
}

// History returns the request's status trail, oldest first.
func (r *ServiceRequestRepository) History(ctx context.Context, id string) ([]domain.StatusHistoryEntry, error) {
	return listHistory(ctx, r.db, r.builder, domain.KindServiceRequest, id)
}

// ListDueBefore returns borrowed requests with a due date before to, feeding
// the daily return reminder. Overdue requests stay in scope until returned.
func (r *ServiceRequestRepository) ListDueBefore(ctx context.Context, to time.Time) ([]domain.ServiceRequest, error) {
	stmt, args, err := r.builder.
		Select(serviceRequestColumns...).
		From("barangay.service_requests").
		Where(squirrel.Eq{"status": domain.ServiceBorrowed}).
		Where(squirrel.Lt{"due_date": to}).
		OrderBy("due_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list due service requests sql: %w", err)
	}

	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list due service requests: %w", err)
	}
	defer rows.Close()

	var requests []domain.ServiceRequest
	for rows.Next() {
		request, err := scanServiceRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate due service requests: %w", err)
	}

	return requests, nil
}

func scanServiceRequest(row pgx.Row) (*domain.ServiceRequest, error) {
	var request domain.ServiceRequest

	if err := row.Scan(
		&request.ID,
		&request.OwnerID,
		&request.ItemName,
		&request.Purpose,
		&request.Category,
		&request.Quantity,
		&request.Status,
		&request.Note,
		&request.DueDate,
		&request.CreatedAt,
		&request.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan service request: %w", err)
	}

	return &request, nil
}
