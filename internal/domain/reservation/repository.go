package reservation

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for reservation persistence
type Repository interface {
	Create(ctx context.Context, r *Reservation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error)
	// GetByEmail returns reservations ordered by date desc, then created_at desc.
	GetByEmail(ctx context.Context, email string) ([]*Reservation, error)
	// GetAll returns reservations ordered by date desc, then created_at desc.
	GetAll(ctx context.Context) ([]*Reservation, error)
	GetByStatus(ctx context.Context, status Status) ([]*Reservation, error)
	Update(ctx context.Context, id uuid.UUID, patch *Patch) (*Reservation, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// WithCapacityLock runs fn while holding exclusive access to the
	// restaurant-wide seat capacity. Reads and writes made through the
	// repository passed to fn are committed atomically when fn returns nil.
	WithCapacityLock(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
}
