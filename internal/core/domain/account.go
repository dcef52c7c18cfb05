package domain

import "time"

// Role enumerates the portal's access levels.
type Role string

const (
	RoleResident Role = "resident"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

// Privileged reports whether the role may act on other residents' records.
func (r Role) Privileged() bool {
	return r == RoleStaff || r == RoleAdmin
}

// Valid reports whether the role is a known portal role.
func (r Role) Valid() bool {
	switch r {
	case RoleResident, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// Account mirrors the persisted representation in the accounts table.
//
// Lock state is computed from LockedUntil, never stored as a flag: once the
// clock passes LockedUntil the account is open again without any write.
type Account struct {
	ID             string
	Username       string
	Email          string
	Phone          *string
	PasswordHash   string
	Role           Role
	IsActive       bool
	FailedAttempts int
	LockedUntil    *time.Time
	LastFailedAt   *time.Time
	RegisteredAt   time.Time
	LastLogin      *time.Time
}

// DisplayName returns the name recorded in status history entries.
func (a Account) DisplayName() string {
	return a.Username
}

// LoginAttempt records authentication attempts for throttling and audit.
type LoginAttempt struct {
	ID         string
	AccountID  *string
	Identifier string
	Succeeded  bool
	IP         *string
	UserAgent  *string
	CreatedAt  time.Time
}
