package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	UserEmailIndex = "idx_users_email"
	UserPhoneIndex = "idx_users_phone"
)

// UserModel represents the database model for User
type UserModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name             string    `gorm:"type:varchar(100);not null;index"`
	Email            string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email"`
	Phone            string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_users_phone"`
	PasswordHash     string    `gorm:"type:varchar(255);not null"`
	ReservationCount int       `gorm:"not null;default:0;check:reservation_count >= 0"`
	Status           string    `gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}
