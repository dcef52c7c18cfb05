package domain

import "time"

// Announcement is staff-authored news shown on the public portal.
type Announcement struct {
	ID          string
	AuthorID    string
	Title       string
	Body        string
	Category    string
	Pinned      bool
	PublishedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Event is a community activity residents can register for.
type Event struct {
	ID          string
	AuthorID    string
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	EndsAt      time.Time
	Capacity    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EventRegistration links a resident to an event. At most one registration
// per (event, account) pair.
type EventRegistration struct {
	ID           string
	EventID      string
	AccountID    string
	RegisteredAt time.Time
}
