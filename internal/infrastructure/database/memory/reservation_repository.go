package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domainReservation "dine-reserve/internal/domain/reservation"

	"github.com/google/uuid"
)

// ReservationRepository keeps reservations in process memory
type ReservationRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*domainReservation.Reservation

	// capacity serialises WithCapacityLock scopes
	capacity sync.Mutex
}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{
		items: make(map[uuid.UUID]*domainReservation.Reservation),
	}
}

func (r *ReservationRepository) Create(ctx context.Context, reservation *domainReservation.Reservation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if reservation.ID == uuid.Nil {
		reservation.ID = uuid.New()
	}
	now := time.Now().UTC()
	if reservation.CreatedAt.IsZero() {
		reservation.CreatedAt = now
	}
	if reservation.UpdatedAt.IsZero() {
		reservation.UpdatedAt = reservation.CreatedAt
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[reservation.ID] = cloneReservation(reservation)
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domainReservation.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.items[id]
	if !ok {
		return nil, domainReservation.ErrReservationNotFound
	}
	return cloneReservation(stored), nil
}

func (r *ReservationRepository) GetByEmail(ctx context.Context, email string) ([]*domainReservation.Reservation, error) {
	return r.filter(ctx, func(res *domainReservation.Reservation) bool {
		return res.Email == email
	})
}

func (r *ReservationRepository) GetAll(ctx context.Context) ([]*domainReservation.Reservation, error) {
	return r.filter(ctx, func(*domainReservation.Reservation) bool { return true })
}

func (r *ReservationRepository) GetByStatus(ctx context.Context, status domainReservation.Status) ([]*domainReservation.Reservation, error) {
	return r.filter(ctx, func(res *domainReservation.Reservation) bool {
		return res.Status == status
	})
}

func (r *ReservationRepository) Update(ctx context.Context, id uuid.UUID, patch *domainReservation.Patch) (*domainReservation.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[id]
	if !ok {
		return nil, domainReservation.ErrReservationNotFound
	}

	updated := cloneReservation(stored)
	patch.Apply(updated)
	updated.UpdatedAt = time.Now().UTC()
	r.items[id] = updated

	return cloneReservation(updated), nil
}

func (r *ReservationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domainReservation.ErrReservationNotFound
	}
	delete(r.items, id)
	return nil
}

// WithCapacityLock runs fn while holding the capacity mutex. Writes made by
// fn are applied immediately and are not rolled back if fn fails.
func (r *ReservationRepository) WithCapacityLock(ctx context.Context, fn func(ctx context.Context, repo domainReservation.Repository) error) error {
	r.capacity.Lock()
	defer r.capacity.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, r)
}

// Health always succeeds for the in-memory store
func (r *ReservationRepository) Health(ctx context.Context) error {
	return ctx.Err()
}

func (r *ReservationRepository) filter(ctx context.Context, keep func(*domainReservation.Reservation) bool) ([]*domainReservation.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	out := make([]*domainReservation.Reservation, 0, len(r.items))
	for _, res := range r.items {
		if keep(res) {
			out = append(out, cloneReservation(res))
		}
	}
	r.mu.RUnlock()

	sortNewestFirst(out)
	return out, nil
}

// sortNewestFirst orders by date desc, then created_at desc
func sortNewestFirst(reservations []*domainReservation.Reservation) {
	sort.SliceStable(reservations, func(i, j int) bool {
		a, b := reservations[i], reservations[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}

func cloneReservation(r *domainReservation.Reservation) *domainReservation.Reservation {
	c := *r
	return &c
}
