package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
)

// Both request kinds share one append-only history table, discriminated by
// the kind column.

func insertHistory(ctx context.Context, exec pgExecutor, b squirrel.StatementBuilderType, entry domain.StatusHistoryEntry) error {
	stmt, args, err := b.
		Insert("barangay.request_history").
		Columns("id", "kind", "request_id", "action", "actor_name", "note", "created_at").
		Values(
			entry.ID,
			entry.Kind,
			entry.RequestID,
			entry.Action,
			entry.ActorName,
			entry.Note,
			entry.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert history sql: %w", err)
	}

	if _, err := exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}

	return nil
}

func listHistory(ctx context.Context, exec pgExecutor, b squirrel.StatementBuilderType, kind domain.RequestKind, requestID string) ([]domain.StatusHistoryEntry, error) {
	stmt, args, err := b.
		Select("id", "kind", "request_id", "action", "actor_name", "note", "created_at").
		From("barangay.request_history").
		Where(squirrel.Eq{"kind": kind, "request_id": requestID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select history sql: %w", err)
	}

	rows, err := exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}
	defer rows.Close()

	var entries []domain.StatusHistoryEntry
	for rows.Next() {
		var entry domain.StatusHistoryEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.Kind,
			&entry.RequestID,
			&entry.Action,
			&entry.ActorName,
			&entry.Note,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	return entries, nil
}
