package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
	"github.com/JJProjectStash/aibarangay-be/internal/repository"
)

var (
	// ErrEventFull indicates the event reached its registration capacity.
	ErrEventFull = errors.New("event is full")
	// ErrAlreadyRegistered indicates the account already holds a registration.
	ErrAlreadyRegistered = errors.New("already registered for event")
	// ErrEventEnded indicates registration was attempted after the event ended.
	ErrEventEnded = errors.New("event has ended")
)

// EventInput carries the writable fields of a community event.
type EventInput struct {
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	EndsAt      time.Time
	Capacity    int
}

func (in EventInput) validate() []string {
	var problems []string
	if strings.TrimSpace(in.Title) == "" {
		problems = append(problems, "title is required")
	}
	if in.StartsAt.IsZero() {
		problems = append(problems, "start time is required")
	}
	if !in.EndsAt.IsZero() && in.EndsAt.Before(in.StartsAt) {
		problems = append(problems, "end time must not precede start time")
	}
	if in.Capacity < 0 {
		problems = append(problems, "capacity must not be negative")
	}
	return problems
}

// EventService manages community events and resident registrations.
type EventService struct {
	events        port.EventRepository
	notifications port.NotificationSink
	audit         port.AuditSink
	clock         port.Clock
	logger        *zap.Logger
}

// NewEventService constructs an EventService instance.
func NewEventService(events port.EventRepository, notifications port.NotificationSink, audit port.AuditSink, clock port.Clock, logger *zap.Logger) (*EventService, error) {
	if events == nil {
		return nil, fmt.Errorf("event repository is required")
	}
	if clock == nil {
		clock = port.SystemClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &EventService{events: events, notifications: notifications, audit: audit, clock: clock, logger: logger}, nil
}

// List returns events for the public portal page.
func (s *EventService) List(ctx context.Context, filter port.ContentFilter) ([]domain.Event, int, error) {
	items, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}

	total := len(items)
	if filter.Limit > 0 {
		total, err = s.events.Count(ctx, filter)
		if err != nil {
			return nil, 0, fmt.Errorf("count events: %w", err)
		}
	}

	return items, total, nil
}

// Get returns one event.
func (s *EventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	return s.events.GetByID(ctx, id)
}

// Create publishes a new event. Privileged roles only.
func (s *EventService) Create(ctx context.Context, actor Actor, input EventInput) (*domain.Event, error) {
	if !actor.Role.Privileged() {
		return nil, ErrForbidden
	}
	if problems := input.validate(); len(problems) > 0 {
		return nil, newValidationError(problems...)
	}

	now := s.clock.Now()
	event := domain.Event{
		ID:          uuid.NewString(),
		AuthorID:    actor.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Location:    strings.TrimSpace(input.Location),
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		Capacity:    input.Capacity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.recordAudit(ctx, actor, "event:create", event.ID)
	return &event, nil
}

// Update rewrites an existing event. Privileged roles only.
func (s *EventService) Update(ctx context.Context, actor Actor, id string, input EventInput) (*domain.Event, error) {
	if !actor.Role.Privileged() {
		return nil, ErrForbidden
	}
	if problems := input.validate(); len(problems) > 0 {
		return nil, newValidationError(problems...)
	}

	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	event.Title = strings.TrimSpace(input.Title)
	event.Description = strings.TrimSpace(input.Description)
	event.Location = strings.TrimSpace(input.Location)
	event.StartsAt = input.StartsAt
	event.EndsAt = input.EndsAt
	event.Capacity = input.Capacity
	event.UpdatedAt = s.clock.Now()

	if err := s.events.Update(ctx, *event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	s.recordAudit(ctx, actor, "event:update", id)
	return event, nil
}

// Delete removes an event. Privileged roles only.
func (s *EventService) Delete(ctx context.Context, actor Actor, id string) error {
	if !actor.Role.Privileged() {
		return ErrForbidden
	}

	if err := s.events.Delete(ctx, id); err != nil {
		return err
	}

	s.recordAudit(ctx, actor, "event:delete", id)
	return nil
}

// Register signs the actor up for an event. One registration per account;
// a capacity of zero means unlimited.
func (s *EventService) Register(ctx context.Context, actor Actor, eventID string) (*domain.EventRegistration, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if !event.EndsAt.IsZero() && event.EndsAt.Before(now) {
		return nil, ErrEventEnded
	}

	if event.Capacity > 0 {
		count, err := s.events.CountRegistrations(ctx, eventID)
		if err != nil {
			return nil, fmt.Errorf("count registrations: %w", err)
		}
		if count >= event.Capacity {
			return nil, ErrEventFull
		}
	}

	registration := domain.EventRegistration{
		ID:           uuid.NewString(),
		EventID:      eventID,
		AccountID:    actor.ID,
		RegisteredAt: now,
	}
	if err := s.events.Register(ctx, registration); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("register for event: %w", err)
	}

	if s.notifications != nil {
		notification := domain.Notification{
			ID:        uuid.NewString(),
			AccountID: actor.ID,
			Title:     "Event registration confirmed",
			Message:   fmt.Sprintf("You are registered for %q on %s.", event.Title, event.StartsAt.Format("Jan 2, 2006")),
			Severity:  domain.SeveritySuccess,
			CreatedAt: now,
		}
		if err := s.notifications.Notify(ctx, notification); err != nil {
			s.logger.Warn("registration notification failed", zap.String("event_id", eventID), zap.Error(err))
		}
	}

	return &registration, nil
}

func (s *EventService) recordAudit(ctx context.Context, actor Actor, action, resource string) {
	if s.audit == nil {
		return
	}

	entry := domain.AuditEntry{
		ID:        uuid.NewString(),
		ActorID:   actor.ID,
		Action:    action,
		Resource:  resource,
		Outcome:   "success",
		SourceIP:  actor.IP,
		CreatedAt: s.clock.Now(),
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("audit record failed", zap.String("action", action), zap.Error(err))
	}
}
