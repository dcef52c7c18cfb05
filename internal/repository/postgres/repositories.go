package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories groups concrete PostgreSQL repository implementations.
type Repositories struct {
	Accounts        *AccountRepository
	LoginAttempts   *LoginAttemptRepository
	Complaints      *ComplaintRepository
	ServiceRequests *ServiceRequestRepository
	Announcements   *AnnouncementRepository
	Events          *EventRepository
	Notifications   *NotificationRepository
	Audit           *AuditRepository
}

// NewRepositories wires all repositories backed by the provided pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Accounts:        NewAccountRepository(pool),
		LoginAttempts:   NewLoginAttemptRepository(pool),
		Complaints:      NewComplaintRepository(pool),
		ServiceRequests: NewServiceRequestRepository(pool),
		Announcements:   NewAnnouncementRepository(pool),
		Events:          NewEventRepository(pool),
		Notifications:   NewNotificationRepository(pool),
		Audit:           NewAuditRepository(pool),
	}
}
