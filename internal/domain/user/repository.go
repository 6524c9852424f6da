package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for user repository operations
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByPhone(ctx context.Context, phone string) (*User, error)
	// GetAll returns users sorted by name ascending.
	GetAll(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, userID uuid.UUID, patch *Patch) (*User, error)
	IncrementReservations(ctx context.Context, email string) error
}
