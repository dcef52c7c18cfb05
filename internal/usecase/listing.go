package usecase

import (
	"strings"
	"time"

	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
)

// filterAll is the client sentinel meaning "do not filter on this field".
const filterAll = "all"

// ListParams are the client-supplied listing filters, before role scoping.
type ListParams struct {
	Status      string
	Category    string
	Priority    string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Search      string
	Page        int
	PageSize    int
}

// BuildRequestFilter derives the repository predicate from the actor's role
// and the client filters.
//
// Residents are always constrained to their own records; nothing a client
// sends can widen that. Staff and admins see everything unless they filter.
// Pagination applies only when both page and size are positive.
func BuildRequestFilter(actor Actor, params ListParams) port.RequestFilter {
	filter := port.RequestFilter{
		Status:      normalizeFilterValue(params.Status),
		Category:    normalizeFilterValue(params.Category),
		Priority:    normalizeFilterValue(params.Priority),
		CreatedFrom: params.CreatedFrom,
		CreatedTo:   params.CreatedTo,
		Search:      strings.TrimSpace(params.Search),
	}

	if !actor.Role.Privileged() {
		filter.OwnerID = actor.ID
	}

	if params.Page > 0 && params.PageSize > 0 {
		filter.Skip = (params.Page - 1) * params.PageSize
		filter.Limit = params.PageSize
	}

	return filter
}

// normalizeFilterValue trims the value and drops the "all" sentinel.
func normalizeFilterValue(value string) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, filterAll) {
		return ""
	}
	return value
}
