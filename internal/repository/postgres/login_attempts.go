package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
)

// LoginAttemptRepository appends login attempt rows.
type LoginAttemptRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

var _ port.LoginAttemptRepository = (*LoginAttemptRepository)(nil)

// NewLoginAttemptRepository constructs a repository backed by any executor
// that satisfies pgExecutor.
func NewLoginAttemptRepository(exec pgExecutor) *LoginAttemptRepository {
	return &LoginAttemptRepository{
		exec:    exec,
		builder: builder(),
	}
}

// Record inserts one attempt row.
func (r *LoginAttemptRepository) Record(ctx context.Context, attempt domain.LoginAttempt) error {
	stmt, args, err := r.builder.
		Insert("barangay.login_attempts").
		Columns("id", "account_id", "identifier", "succeeded", "ip", "user_agent", "created_at").
		Values(
			attempt.ID,
			attempt.AccountID,
			attempt.Identifier,
			attempt.Succeeded,
			attempt.IP,
			attempt.UserAgent,
			attempt.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert login attempt sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert login attempt: %w", err)
	}

	return nil
}
