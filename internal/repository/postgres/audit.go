package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
)

// AuditRepository appends audit log rows.
type AuditRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

var _ port.AuditSink = (*AuditRepository)(nil)

// NewAuditRepository constructs a repository backed by any executor that
// satisfies pgExecutor.
func NewAuditRepository(exec pgExecutor) *AuditRepository {
	return &AuditRepository{
		exec:    exec,
		builder: builder(),
	}
}

// Record inserts one audit row.
func (r *AuditRepository) Record(ctx context.Context, entry domain.AuditEntry) error {
	stmt, args, err := r.builder.
		Insert("barangay.audit_log").
		Columns("id", "actor_id", "action", "resource", "outcome", "source_ip", "created_at").
		Values(
			entry.ID,
			entry.ActorID,
			entry.Action,
			entry.Resource,
			entry.Outcome,
			entry.SourceIP,
			entry.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert audit sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	return nil
}
