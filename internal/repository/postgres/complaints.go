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

var complaintColumns = []string{
	"id",
	"owner_id",
	"title",
	"description",
	"category",
	"priority",
	"status",
	"created_at",
	"updated_at",
}

// ComplaintRepository implements port.ComplaintRepository using PostgreSQL.
type ComplaintRepository struct {
	db      pgPool
	builder squirrel.StatementBuilderType
}

var _ port.ComplaintRepository = (*ComplaintRepository)(nil)

// NewComplaintRepository constructs a repository backed by a transactional
// pool; status and history writes share a transaction.
func NewComplaintRepository(db pgPool) *ComplaintRepository {
	return &ComplaintRepository{
		db:      db,
		builder: builder(),
	}
}

// Kind identifies this store to the bulk updater.
func (r *ComplaintRepository) Kind() domain.RequestKind {
	return domain.KindComplaint
}

// Create inserts the complaint and its filed history entry in one transaction.
func (r *ComplaintRepository) Create(ctx context.Context, complaint domain.Complaint, filed domain.StatusHistoryEntry) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create complaint: %w", err)
	}
	defer tx.Rollback(ctx)

	stmt, args, err := r.builder.
		Insert("barangay.complaints").
		Columns(complaintColumns...).
		Values(
			complaint.ID,
			complaint.OwnerID,
			complaint.Title,
			complaint.Description,
			complaint.Category,
			complaint.Priority,
			complaint.Status,
			complaint.CreatedAt,
			complaint.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert complaint sql: %w", err)
	}

	if _, err := tx.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert complaint: %w", err)
	}

	if err := insertHistory(ctx, tx, r.builder, filed); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create complaint: %w", err)
	}

	return nil
}

// GetByID retrieves one complaint.
func (r *ComplaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	stmt, args, err := r.builder.
		Select(complaintColumns...).
		From("barangay.complaints").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select complaint sql: %w", err)
	}

	complaint, err := scanComplaint(r.db.QueryRow(ctx, stmt, args...))
	if err != nil {
		return nil, err
	}
	return complaint, nil
}

// GetRef retrieves the owner/status projection for the bulk updater.
func (r *ComplaintRepository) GetRef(ctx context.Context, id string) (*port.RequestRef, error) {
	stmt, args, err := r.builder.
		Select("id", "owner_id", "status").
		From("barangay.complaints").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select complaint ref sql: %w", err)
	}

	var ref port.RequestRef
	if err := r.db.QueryRow(ctx, stmt, args...).Scan(&ref.ID, &ref.OwnerID, &ref.Status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan complaint ref: %w", err)
	}

	return &ref, nil
}

// UpdateStatus persists the status change and its history entry atomically.
func (r *ComplaintRepository) UpdateStatus(ctx context.Context, id, status string, entry domain.StatusHistoryEntry) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update complaint status: %w", err)
	}
	defer tx.Rollback(ctx)

	stmt, args, err := r.builder.
		Update("barangay.complaints").
		Set("status", status).
		Set("updated_at", entry.CreatedAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update complaint status sql: %w", err)
	}

	tag, err := tx.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update complaint status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	if err := insertHistory(ctx, tx, r.builder, entry); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update complaint status: %w", err)
	}

	return nil
}

// List returns complaints matching the filter, newest first.
func (r *ComplaintRepository) List(ctx context.Context, filter port.RequestFilter) ([]domain.Complaint, error) {
	q := r.builder.
		Select(complaintColumns...).
		From("barangay.complaints").
		OrderBy("created_at DESC")
	q = applyRequestFilter(q, filter, "title", "description")
	q = paginate(q, filter.Skip, filter.Limit)

	stmt, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list complaints sql: %w", err)
	}

	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	defer rows.Close()

	var complaints []domain.Complaint
	for rows.Next() {
		complaint, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		complaints = append(complaints, *complaint)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate complaints: %w", err)
	}

	return complaints, nil
}

// Count returns the total number of complaints matching the filter.
func (r *ComplaintRepository) Count(ctx context.Context, filter port.RequestFilter) (int, error) {
	q := r.builder.
		Select("COUNT(*)").
		From("barangay.complaints")
	q = applyRequestFilter(q, filter, "title", "description")

	stmt, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count complaints sql: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count complaints: %w", err)
	}

	return count, nil
}

// History returns the complaint's status trail, oldest first.
func (r *ComplaintRepository) History(ctx context.Context, id string) ([]domain.StatusHistoryEntry, error) {
	return listHistory(ctx, r.db, r.builder, domain.KindComplaint, id)
}

func scanComplaint(row pgx.Row) (*domain.Complaint, error) {
	var (
		complaint domain.Complaint
		createdAt time.Time
		updatedAt time.Time
	)

	if err := row.Scan(
		&complaint.ID,
		&complaint.OwnerID,
		&complaint.Title,
		&complaint.Description,
		&complaint.Category,
		&complaint.Priority,
		&complaint.Status,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan complaint: %w", err)
	}

	complaint.CreatedAt = createdAt
	complaint.UpdatedAt = updatedAt
	return &complaint, nil
}
