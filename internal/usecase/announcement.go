package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
)

// AnnouncementInput carries the writable fields of an announcement.
type AnnouncementInput struct {
	Title    string
	Body     string
	Category string
	Pinned   bool
}

func (in AnnouncementInput) validate() []string {
	var problems []string
	if strings.TrimSpace(in.Title) == "" {
		problems = append(problems, "title is required")
	}
	if strings.TrimSpace(in.Body) == "" {
		problems = append(problems, "body is required")
	}
	return problems
}

// AnnouncementService manages staff-authored portal announcements.
type AnnouncementService struct {
	announcements port.AnnouncementRepository
	audit         port.AuditSink
	clock         port.Clock
	logger        *zap.Logger
}

// NewAnnouncementService constructs an AnnouncementService instance.
func NewAnnouncementService(announcements port.AnnouncementRepository, audit port.AuditSink, clock port.Clock, logger *zap.Logger) (*AnnouncementService, error) {
	if announcements == nil {
		return nil, fmt.Errorf("announcement repository is required")
	}
	if clock == nil {
		clock = port.SystemClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AnnouncementService{announcements: announcements, audit: audit, clock: clock, logger: logger}, nil
}

// List returns published announcements. This feeds the public portal page,
// no actor required.
func (s *AnnouncementService) List(ctx context.Context, filter port.ContentFilter) ([]domain.Announcement, int, error) {
	items, err := s.announcements.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list announcements: %w", err)
	}

	total := len(items)
	if filter.Limit > 0 {
		total, err = s.announcements.Count(ctx, filter)
		if err != nil {
			return nil, 0, fmt.Errorf("count announcements: %w", err)
		}
	}

	return items, total, nil
}

// Get returns one announcement.
func (s *AnnouncementService) Get(ctx context.Context, id string) (*domain.Announcement, error) {
	return s.announcements.GetByID(ctx, id)
}

// Create publishes a new announcement. Privileged roles only.
func (s *AnnouncementService) Create(ctx context.Context, actor Actor, input AnnouncementInput) (*domain.Announcement, error) {
	if !actor.Role.Privileged() {
		return nil, ErrForbidden
	}
	if problems := input.validate(); len(problems) > 0 {
		return nil, newValidationError(problems...)
	}

	now := s.clock.Now()
	announcement := domain.Announcement{
		ID:          uuid.NewString(),
		AuthorID:    actor.ID,
		Title:       strings.TrimSpace(input.Title),
		Body:        strings.TrimSpace(input.Body),
		Category:    strings.TrimSpace(input.Category),
		Pinned:      input.Pinned,
		PublishedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.announcements.Create(ctx, announcement); err != nil {
		return nil, fmt.Errorf("create announcement: %w", err)
	}

	s.recordAudit(ctx, actor, "announcement:create", announcement.ID)
	return &announcement, nil
}

// Update rewrites an existing announcement. Privileged roles only.
func (s *AnnouncementService) Update(ctx context.Context, actor Actor, id string, input AnnouncementInput) (*domain.Announcement, error) {
	if !actor.Role.Privileged() {
		return nil, ErrForbidden
	}
	if problems := input.validate(); len(problems) > 0 {
		return nil, newValidationError(problems...)
	}

	announcement, err := s.announcements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	announcement.Title = strings.TrimSpace(input.Title)
	announcement.Body = strings.TrimSpace(input.Body)
	announcement.Category = strings.TrimSpace(input.Category)
	announcement.Pinned = input.Pinned
	announcement.UpdatedAt = s.clock.Now()

	if err := s.announcements.Update(ctx, *announcement); err != nil {
		return nil, fmt.Errorf("update announcement: %w", err)
	}

	s.recordAudit(ctx, actor, "announcement:update", id)
	return announcement, nil
}

// Delete removes an announcement. Privileged roles only.
func (s *AnnouncementService) Delete(ctx context.Context, actor Actor, id string) error {
	if !actor.Role.Privileged() {
		return ErrForbidden
	}

	if err := s.announcements.Delete(ctx, id); err != nil {
		return err
	}

	s.recordAudit(ctx, actor, "announcement:delete", id)
	return nil
}

func (s *AnnouncementService) recordAudit(ctx context.Context, actor Actor, action, resource string) {
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
