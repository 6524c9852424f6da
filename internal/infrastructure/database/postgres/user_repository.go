package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainUser "dine-reserve/internal/domain/user"
	"dine-reserve/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.DB}
}

func (r *UserRepository) Create(ctx context.Context, u *domainUser.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = u.CreatedAt
	if u.Status == "" {
		u.Status = domainUser.StatusActive
	}

	dbModel := toUserModel(u)
	if err := r.db.WithContext(ctx).Create(dbModel).Error; err != nil {
		if dup := duplicateError(err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	u.ID = dbModel.ID
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*domainUser.User, error) {
	return r.first(ctx, "id = ?", userID)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domainUser.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*domainUser.User, error) {
	return r.first(ctx, "phone = ?", phone)
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*domainUser.User, error) {
	var dbModels []models.UserModel
	if err := r.db.WithContext(ctx).Order("name ASC, created_at ASC").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*domainUser.User, 0, len(dbModels))
	for i := range dbModels {
		users = append(users, toUserEntity(&dbModels[i]))
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, userID uuid.UUID, patch *domainUser.Patch) (*domainUser.User, error) {
	updates := userUpdates(patch)
	updates["updated_at"] = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("id = ?", userID).
		Updates(updates)

	if result.Error != nil {
		if dup := duplicateError(result.Error); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domainUser.ErrUserNotFound
	}

	return r.GetByID(ctx, userID)
}

func (r *UserRepository) IncrementReservations(ctx context.Context, email string) error {
	result := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{
			"reservation_count": gorm.Expr("reservation_count + 1"),
			"updated_at":        time.Now().UTC(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to increment reservations: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainUser.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) first(ctx context.Context, query string, arg interface{}) (*domainUser.User, error) {
	var dbModel models.UserModel
	err := r.db.WithContext(ctx).Where(query, arg).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainUser.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserEntity(&dbModel), nil
}

// duplicateError maps a unique violation onto the matching domain error
func duplicateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return nil
	}
	if pgErr.ConstraintName == models.UserPhoneIndex {
		return domainUser.ErrDuplicatePhone
	}
	return domainUser.ErrDuplicateEmail
}

func userUpdates(patch *domainUser.Patch) map[string]interface{} {
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
	if patch.PasswordHash != nil {
		updates["password_hash"] = *patch.PasswordHash
	}
	if patch.Status != nil {
		updates["status"] = string(*patch.Status)
	}
	return updates
}

func toUserModel(u *domainUser.User) *models.UserModel {
	return &models.UserModel{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		Phone:            u.Phone,
		PasswordHash:     u.PasswordHash,
		ReservationCount: u.ReservationCount,
		Status:           string(u.Status),
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

func toUserEntity(m *models.UserModel) *domainUser.User {
	return &domainUser.User{
		ID:               m.ID,
		Name:             m.Name,
		Email:            m.Email,
		Phone:            m.Phone,
		PasswordHash:     m.PasswordHash,
		ReservationCount: m.ReservationCount,
		Status:           domainUser.Status(m.Status),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
