package reservation

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a reservation
type Status string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
	StatusCancelled Status = "Cancelled"
)

// IsValid reports whether s is one of the known statuses
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

const (
	MinSeats = 1
	MaxSeats = 10
)

// TimeSlots lists the bookable slots in display order.
var TimeSlots = []string{
	"9:00 AM", "10:00 AM", "11:00 AM", "12:00 PM",
	"1:00 PM", "2:00 PM", "3:00 PM", "4:00 PM",
	"5:00 PM", "6:00 PM", "7:00 PM", "8:00 PM",
}

// IsValidTimeSlot reports whether slot is one of TimeSlots
func IsValidTimeSlot(slot string) bool {
	for _, s := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// Reservation represents a table booking in the domain
type Reservation struct {
	ID uuid.UUID

	// Contact details. Email is a soft reference to a user account.
	Name  string
	Email string
	Phone string

	// Date is day-granular and stored at UTC midnight.
	Date  time.Time
	Time  string
	Seats int

	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Patch carries the fields of a partial update. Nil fields are left untouched.
type Patch struct {
	Name   *string
	Email  *string
	Phone  *string
	Date   *time.Time
	Time   *string
	Seats  *int
	Status *Status
}

// IsEmpty reports whether the patch changes nothing
func (p *Patch) IsEmpty() bool {
	return p == nil || (p.Name == nil && p.Email == nil && p.Phone == nil &&
		p.Date == nil && p.Time == nil && p.Seats == nil && p.Status == nil)
}

// Apply copies the patch onto r
func (p *Patch) Apply(r *Reservation) {
	if p == nil {
		return
	}
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Email != nil {
		r.Email = *p.Email
	}
	if p.Phone != nil {
		r.Phone = *p.Phone
	}
	if p.Date != nil {
		r.Date = *p.Date
	}
	if p.Time != nil {
		r.Time = *p.Time
	}
	if p.Seats != nil {
		r.Seats = *p.Seats
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
}

// Statistics summarizes reservations for the admin dashboard
type Statistics struct {
	Total       int
	Pending     int
	Confirmed   int
	Cancelled   int
	TotalGuests int
	Occupancy   Occupancy
}
