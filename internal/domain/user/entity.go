package user

import (
	"time"

	"github.com/google/uuid"
)

// Status represents whether a user may place reservations
type Status string

const (
	StatusActive  Status = "active"
	StatusBlocked Status = "blocked"
)

// IsValid reports whether s is one of the known statuses
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusBlocked
}

// Toggled returns the opposite status
func (s Status) Toggled() Status {
	if s == StatusBlocked {
		return StatusActive
	}
	return StatusBlocked
}

// User represents a registered diner
type User struct {
	ID               uuid.UUID
	Name             string
	Email            string
	Phone            string
	PasswordHash     string
	ReservationCount int
	Status           Status
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsBlocked reports whether the user is barred from booking
func (u *User) IsBlocked() bool {
	return u.Status == StatusBlocked
}

// Patch carries the fields of a partial update. Nil fields are left untouched.
type Patch struct {
	Name         *string
	Email        *string
	Phone        *string
	PasswordHash *string
	Status       *Status
}

// IsEmpty reports whether the patch changes nothing
func (p *Patch) IsEmpty() bool {
	return p == nil || (p.Name == nil && p.Email == nil && p.Phone == nil &&
		p.PasswordHash == nil && p.Status == nil)
}

// Apply copies the patch onto u
func (p *Patch) Apply(u *User) {
	if p == nil {
		return
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.Status != nil {
		u.Status = *p.Status
	}
}
