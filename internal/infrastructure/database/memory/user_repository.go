package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	domainUser "dine-reserve/internal/domain/user"

	"github.com/google/uuid"
)

// UserRepository keeps user accounts in process memory, enforcing unique
// email and phone.
type UserRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*domainUser.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		items: make(map[uuid.UUID]*domainUser.User),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domainUser.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkUnique(uuid.Nil, user.Email, user.Phone); err != nil {
		return err
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = user.CreatedAt
	if user.Status == "" {
		user.Status = domainUser.StatusActive
	}

	r.items[user.ID] = cloneUser(user)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*domainUser.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.items[userID]
	if !ok {
		return nil, domainUser.ErrUserNotFound
	}
	return cloneUser(stored), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domainUser.User, error) {
	return r.find(ctx, func(u *domainUser.User) bool { return u.Email == email })
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*domainUser.User, error) {
	return r.find(ctx, func(u *domainUser.User) bool { return u.Phone == phone })
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*domainUser.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	out := make([]*domainUser.User, 0, len(r.items))
	for _, u := range r.items {
		out = append(out, cloneUser(u))
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *UserRepository) Update(ctx context.Context, userID uuid.UUID, patch *domainUser.Patch) (*domainUser.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[userID]
	if !ok {
		return nil, domainUser.ErrUserNotFound
	}

	updated := cloneUser(stored)
	patch.Apply(updated)
	if err := r.checkUnique(userID, updated.Email, updated.Phone); err != nil {
		return nil, err
	}
	updated.UpdatedAt = time.Now().UTC()
	r.items[userID] = updated

	return cloneUser(updated), nil
}

func (r *UserRepository) IncrementReservations(ctx context.Context, email string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.items {
		if u.Email == email {
			u.ReservationCount++
			u.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return domainUser.ErrUserNotFound
}

func (r *UserRepository) find(ctx context.Context, match func(*domainUser.User) bool) (*domainUser.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.items {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, domainUser.ErrUserNotFound
}

// checkUnique must be called with mu held
func (r *UserRepository) checkUnique(self uuid.UUID, email, phone string) error {
	var errs []error
	for id, u := range r.items {
		if id == self {
			continue
		}
		if u.Email == email {
			errs = append(errs, domainUser.ErrDuplicateEmail)
		}
		if u.Phone == phone {
			errs = append(errs, domainUser.ErrDuplicatePhone)
		}
	}
	return errors.Join(errs...)
}

func cloneUser(u *domainUser.User) *domainUser.User {
	c := *u
	return &c
}
