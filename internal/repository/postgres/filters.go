package postgres

import (
	squirrel "github.com/Masterminds/squirrel"

	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
)

// applyRequestFilter translates the role-scoped predicate into SQL
// conditions. searchCols are the kind's two text fields, OR-combined for the
// substring match. Pagination is applied by the caller so count queries can
// share the predicate.
func applyRequestFilter(q squirrel.SelectBuilder, f port.RequestFilter, searchCols ...string) squirrel.SelectBuilder {
	if f.OwnerID != "" {
		q = q.Where(squirrel.Eq{"owner_id": f.OwnerID})
	}
	if f.Status != "" {
		q = q.Where(squirrel.Eq{"status": f.Status})
	}
	if f.Category != "" {
		q = q.Where(squirrel.Eq{"category": f.Category})
	}
	if f.Priority != "" {
		q = q.Where(squirrel.Eq{"priority": f.Priority})
	}
	if f.CreatedFrom != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *f.CreatedFrom})
	}
	if f.CreatedTo != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *f.CreatedTo})
	}
	if f.Search != "" {
		match := squirrel.Or{}
		for _, col := range searchCols {
			match = append(match, squirrel.ILike{col: searchPattern(f.Search)})
		}
		q = q.Where(match)
	}
	return q
}

// applyContentFilter translates the public listing filter into SQL conditions.
func applyContentFilter(q squirrel.SelectBuilder, f port.ContentFilter, searchCols ...string) squirrel.SelectBuilder {
	if f.Category != "" {
		q = q.Where(squirrel.Eq{"category": f.Category})
	}
	if f.Search != "" {
		match := squirrel.Or{}
		for _, col := range searchCols {
			match = append(match, squirrel.ILike{col: searchPattern(f.Search)})
		}
		q = q.Where(match)
	}
	return q
}

// paginate applies skip/limit when the filter carries them.
func paginate(q squirrel.SelectBuilder, skip, limit int) squirrel.SelectBuilder {
	if limit > 0 {
		q = q.Offset(uint64(skip)).Limit(uint64(limit))
	}
	return q
}
