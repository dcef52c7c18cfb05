package port

import (
	"context"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
)

// ContentFilter narrows announcement and event listings.
type ContentFilter struct {
	Category string
	Search   string
	Skip     int
	Limit    int
}

// AnnouncementRepository persists portal announcements.
type AnnouncementRepository interface {
	Create(ctx context.Context, announcement domain.Announcement) error
	GetByID(ctx context.Context, id string) (*domain.Announcement, error)
	Update(ctx context.Context, announcement domain.Announcement) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ContentFilter) ([]domain.Announcement, error)
	Count(ctx context.Context, filter ContentFilter) (int, error)
}

// EventRepository persists community events and registrations.
type EventRepository interface {
	Create(ctx context.Context, event domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	Update(ctx context.Context, event domain.Event) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ContentFilter) ([]domain.Event, error)
	Count(ctx context.Context, filter ContentFilter) (int, error)
	Register(ctx context.Context, registration domain.EventRegistration) error
	CountRegistrations(ctx context.Context, eventID string) (int, error)
}
