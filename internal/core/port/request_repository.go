package port

import (
	"context"
	"time"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
)

// RequestFilter is the predicate produced by the role-scoped query builder
// and translated into SQL by the repositories. Zero values mean "no
// constraint"; OwnerID is mandatory for resident callers and is set by the
// builder, never by client input.
type RequestFilter struct {
	OwnerID     string
	Status      string
	Category    string
	Priority    string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	// Search matches case-insensitively as a substring of either of the
	// kind's two text fields (title/description or item name/purpose).
	Search string
	Skip   int
	Limit  int
}

// Paginated reports whether skip/limit were derived from page parameters.
func (f RequestFilter) Paginated() bool {
	return f.Limit > 0
}

// RequestRef is the owner/status projection the bulk updater needs before
// applying a transition.
type RequestRef struct {
	ID      string
	OwnerID string
	Status  string
}

// RequestStore is the kind-agnostic surface consumed by the bulk status
// updater. Both complaint and service request repositories implement it.
// UpdateStatus must persist the status change and append the history entry
// atomically; it returns repository.ErrNotFound for unknown ids.
type RequestStore interface {
	Kind() domain.RequestKind
	GetRef(ctx context.Context, id string) (*RequestRef, error)
	UpdateStatus(ctx context.Context, id, status string, entry domain.StatusHistoryEntry) error
}

// ComplaintRepository persists complaints and their history trail.
type ComplaintRepository interface {
	RequestStore
	Create(ctx context.Context, complaint domain.Complaint, filed domain.StatusHistoryEntry) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	List(ctx context.Context, filter RequestFilter) ([]domain.Complaint, error)
	Count(ctx context.Context, filter RequestFilter) (int, error)
	History(ctx context.Context, id string) ([]domain.StatusHistoryEntry, error)
}

// ServiceRequestRepository persists service requests and their history trail.
type ServiceRequestRepository interface {
	RequestStore
	Create(ctx context.Context, request domain.ServiceRequest, filed domain.StatusHistoryEntry) error
	GetByID(ctx context.Context, id string) (*domain.ServiceRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]domain.ServiceRequest, error)
	Count(ctx context.Context, filter RequestFilter) (int, error)
	History(ctx context.Context, id string) ([]domain.StatusHistoryEntry, error)
	// ListDueBefore returns borrowed requests whose due date falls before
	// to, for the daily reminder scan. There is no lower bound: a request
	// stays in scope however overdue it gets, until it is returned.
	ListDueBefore(ctx context.Context, to time.Time) ([]domain.ServiceRequest, error)
}
