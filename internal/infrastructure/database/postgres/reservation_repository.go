package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainReservation "dine-reserve/internal/domain/reservation"
	"dine-reserve/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// capacityLockKey identifies the restaurant-wide seat capacity in
// pg_advisory_xact_lock. Any constant works as long as every instance agrees.
const capacityLockKey int64 = 0x64696e65 // "dine"

const newestFirst = "date DESC, created_at DESC"

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *DB) *ReservationRepository {
	return &ReservationRepository{db: db.DB}
}

func (r *ReservationRepository) Create(ctx context.Context, res *domainReservation.Reservation) error {
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	now := time.Now().UTC()
	if res.CreatedAt.IsZero() {
		res.CreatedAt = now
	}
	res.UpdatedAt = res.CreatedAt
	if res.Status == "" {
		res.Status = domainReservation.StatusPending
	}

	dbModel := toReservationModel(res)
	if err := r.db.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	res.ID = dbModel.ID
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domainReservation.Reservation, error) {
	var dbModel models.ReservationModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainReservation.ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}

	return toReservationEntity(&dbModel), nil
}

func (r *ReservationRepository) GetByEmail(ctx context.Context, email string) ([]*domainReservation.Reservation, error) {
	return r.list(r.db.WithContext(ctx).Where("email = ?", email))
}

func (r *ReservationRepository) GetAll(ctx context.Context) ([]*domainReservation.Reservation, error) {
	return r.list(r.db.WithContext(ctx))
}

func (r *ReservationRepository) GetByStatus(ctx context.Context, status domainReservation.Status) ([]*domainReservation.Reservation, error) {
	return r.list(r.db.WithContext(ctx).Where("status = ?", string(status)))
}

func (r *ReservationRepository) Update(ctx context.Context, id uuid.UUID, patch *domainReservation.Patch) (*domainReservation.Reservation, error) {
	updates := reservationUpdates(patch)
	updates["updated_at"] = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&models.ReservationModel{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domainReservation.ErrReservationNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *ReservationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.ReservationModel{})

	if result.Error != nil {
		return fmt.Errorf("failed to delete reservation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainReservation.ErrReservationNotFound
	}

	return nil
}

// WithCapacityLock runs fn inside a transaction holding a transaction-scoped
// advisory lock. fn receives a repository bound to that transaction, so its
// occupancy read and status write commit together.
func (r *ReservationRepository) WithCapacityLock(ctx context.Context, fn func(ctx context.Context, repo domainReservation.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", capacityLockKey).Error; err != nil {
			return fmt.Errorf("failed to acquire capacity lock: %w", err)
		}
		return fn(ctx, &ReservationRepository{db: tx})
	})
}

func (r *ReservationRepository) list(query *gorm.DB) ([]*domainReservation.Reservation, error) {
	var dbModels []models.ReservationModel
	if err := query.Order(newestFirst).Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	out := make([]*domainReservation.Reservation, 0, len(dbModels))
	for i := range dbModels {
		out = append(out, toReservationEntity(&dbModels[i]))
	}
	return out, nil
}

func reservationUpdates(patch *domainReservation.Patch) map[string]interface{} {
	updates := make(map[string]interface{})
	if patch == nil {
		return updates
	}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Email != nil {
		updates["email"] = *patch.Email
	}
	if patch.Phone != nil {
		updates["phone"] = *patch.Phone
	}
	if patch.Date != nil {
		updates["date"] = patch.Date.UTC()
	}
	if patch.Time != nil {
		updates["time"] = *patch.Time
	}
	if patch.Seats != nil {
		updates["seats"] = *patch.Seats
	}
	if patch.Status != nil {
		updates["status"] = string(*patch.Status)
	}
	return updates
}

func toReservationModel(r *domainReservation.Reservation) *models.ReservationModel {
	return &models.ReservationModel{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		Date:      r.Date.UTC(),
		Time:      r.Time,
		Seats:     r.Seats,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toReservationEntity(m *models.ReservationModel) *domainReservation.Reservation {
	d := m.Date.UTC()
	return &domainReservation.Reservation{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Date:      time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC),
		Time:      m.Time,
		Seats:     m.Seats,
		Status:    domainReservation.Status(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
