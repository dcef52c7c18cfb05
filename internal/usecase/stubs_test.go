package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
	"github.com/JJProjectStash/aibarangay-be/internal/repository"
)

func fixedClock(at time.Time) port.Clock {
	return port.ClockFunc(func() time.Time { return at })
}

type stubAccountRepo struct {
	accounts    map[string]*domain.Account
	lockWrites  int
	loginWrites int
	failWrites  error
}

func newStubAccountRepo(accounts ...domain.Account) *stubAccountRepo {
	repo := &stubAccountRepo{accounts: make(map[string]*domain.Account)}
	for i := range accounts {
		copied := accounts[i]
		repo.accounts[copied.ID] = &copied
	}
	return repo
}

func (r *stubAccountRepo) Create(_ context.Context, account domain.Account) error {
	if _, ok := r.accounts[account.ID]; ok {
		return repository.ErrDuplicate
	}
	for _, existing := range r.accounts {
		if existing.Username == account.Username || existing.Email == account.Email {
			return repository.ErrDuplicate
		}
	}
	copied := account
	r.accounts[account.ID] = &copied
	return nil
}

func (r *stubAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	if account, ok := r.accounts[id]; ok {
		copied := *account
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (r *stubAccountRepo) GetByIdentifier(_ context.Context, identifier string) (*domain.Account, error) {
	for _, account := range r.accounts {
		if account.Username == identifier || account.Email == identifier {
			copied := *account
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubAccountRepo) UpdateLockState(_ context.Context, account domain.Account) error {
	if r.failWrites != nil {
		return r.failWrites
	}
	stored, ok := r.accounts[account.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.FailedAttempts = account.FailedAttempts
	stored.LockedUntil = account.LockedUntil
	stored.LastFailedAt = account.LastFailedAt
	r.lockWrites++
	return nil
}

func (r *stubAccountRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	stored, ok := r.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	stored.LastLogin = &at
	r.loginWrites++
	return nil
}

type stubAttemptRepo struct {
	attempts []domain.LoginAttempt
}

func (r *stubAttemptRepo) Record(_ context.Context, attempt domain.LoginAttempt) error {
	r.attempts = append(r.attempts, attempt)
	return nil
}

// stubRequestStore drives the bulk updater. missing ids report not found;
// failing ids report a persistence error on write.
type stubRequestStore struct {
	kind    domain.RequestKind
	refs    map[string]port.RequestRef
	failing map[string]error

	updates []string
	history []domain.StatusHistoryEntry
}

func newStubRequestStore(kind domain.RequestKind, refs ...port.RequestRef) *stubRequestStore {
	store := &stubRequestStore{
		kind:    kind,
		refs:    make(map[string]port.RequestRef),
		failing: make(map[string]error),
	}
	for _, ref := range refs {
		store.refs[ref.ID] = ref
	}
	return store
}

func (s *stubRequestStore) Kind() domain.RequestKind { return s.kind }

func (s *stubRequestStore) GetRef(_ context.Context, id string) (*port.RequestRef, error) {
	if ref, ok := s.refs[id]; ok {
		copied := ref
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (s *stubRequestStore) UpdateStatus(_ context.Context, id, status string, entry domain.StatusHistoryEntry) error {
	if err, ok := s.failing[id]; ok {
		return err
	}
	ref, ok := s.refs[id]
	if !ok {
		return repository.ErrNotFound
	}
	ref.Status = status
	s.refs[id] = ref
	s.updates = append(s.updates, id)
	s.history = append(s.history, entry)
	return nil
}

type stubNotificationSink struct {
	sent []domain.Notification
	err  error
}

func (s *stubNotificationSink) Notify(_ context.Context, notification domain.Notification) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, notification)
	return nil
}

type stubNotificationRepo struct {
	stubNotificationSink
	existing map[string]bool
}

func (r *stubNotificationRepo) ListByAccount(context.Context, string, int) ([]domain.Notification, error) {
	return nil, errors.New("unexpected call")
}

func (r *stubNotificationRepo) MarkRead(context.Context, string, string) error {
	return errors.New("unexpected call")
}

func (r *stubNotificationRepo) Exists(_ context.Context, _, dedupeKey string) (bool, error) {
	return r.existing[dedupeKey], nil
}

type stubAuditSink struct {
	entries []domain.AuditEntry
}

func (s *stubAuditSink) Record(_ context.Context, entry domain.AuditEntry) error {
	s.entries = append(s.entries, entry)
	return nil
}

type stubPublisher struct {
	registered    []domain.AccountRegisteredEvent
	statusChanges []domain.RequestStatusChangedEvent
	locks         []domain.AccountLockedEvent
}

func (p *stubPublisher) PublishAccountRegistered(_ context.Context, event domain.AccountRegisteredEvent) error {
	p.registered = append(p.registered, event)
	return nil
}

func (p *stubPublisher) PublishRequestStatusChanged(_ context.Context, event domain.RequestStatusChangedEvent) error {
	p.statusChanges = append(p.statusChanges, event)
	return nil
}

func (p *stubPublisher) PublishAccountLocked(_ context.Context, event domain.AccountLockedEvent) error {
	p.locks = append(p.locks, event)
	return nil
}
