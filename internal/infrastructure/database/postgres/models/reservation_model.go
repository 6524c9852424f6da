package models

import (
	"time"

	"github.com/google/uuid"
)

// ReservationModel represents the database model for Reservation
type ReservationModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Email     string    `gorm:"type:varchar(255);not null;index"`
	Phone     string    `gorm:"type:varchar(32);not null"`
	Date      time.Time `gorm:"type:date;not null;index:idx_reservations_date_created,priority:1"`
	Time      string    `gorm:"type:varchar(16);not null"`
	Seats     int       `gorm:"not null;check:seats BETWEEN 1 AND 10"`
	Status    string    `gorm:"type:varchar(20);not null;default:'Pending';index"`
	CreatedAt time.Time `gorm:"not null;index:idx_reservations_date_created,priority:2"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (ReservationModel) TableName() string {
	return "reservations"
}
