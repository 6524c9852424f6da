package user

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"dine-reserve/internal/config"
	domainUser "dine-reserve/internal/domain/user"
	"dine-reserve/internal/logger"
	appErrors "dine-reserve/pkg/errors"
	"dine-reserve/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements user use cases
type Service struct {
	userRepo domainUser.Repository
	config   *config.Config
}

// NewService creates a new user service
func NewService(userRepo domainUser.Repository, cfg *config.Config) *Service {
	return &Service{
		userRepo: userRepo,
		config:   cfg,
	}
}

func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*UserResponse, error) {
	req.Name = utils.SanitizeString(req.Name)
	req.Email = utils.SanitizeEmail(req.Email)
	req.Phone = utils.SanitizePhone(req.Phone)

	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err, "All fields are required")
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeInvalidInput, err.Error(), nil).
			WithDetail("field", "password")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var duplicates []string
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		duplicates = append(duplicates, "email")
	} else if !errors.Is(err, domainUser.ErrUserNotFound) {
		return nil, s.translate("check existing user", err)
	}
	if _, err := s.userRepo.GetByPhone(ctx, req.Phone); err == nil {
		duplicates = append(duplicates, "phone")
	} else if !errors.Is(err, domainUser.ErrUserNotFound) {
		return nil, s.translate("check existing user", err)
	}
	if len(duplicates) > 0 {
		logger.Warn("Registration attempt with existing account",
			zap.String("email", req.Email),
			zap.Strings("fields", duplicates),
			zap.String("event", "registration_failed_duplicate"),
		)
		return nil, duplicateField(duplicates...)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domainUser.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hashedPassword,
		Status:       domainUser.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, s.translate("register user", err)
	}

	logger.Info("User registered successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("event", "user_registered"),
	)

	return ToUserResponse(user), nil
}

// Login verifies credentials. A stored plain-text password that matches is
// upgraded to a bcrypt hash.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*UserResponse, error) {
	req.Email = utils.SanitizeEmail(req.Email)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err, "Email and password are required")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Warn("Login attempt with non-existent email",
				zap.String("email", req.Email),
				zap.String("event", "user_not_found"),
			)
			return nil, invalidCredentials()
		}
		return nil, s.translate("login", err)
	}

	if utils.IsHashed(user.PasswordHash) {
		if !utils.CheckPassword(user.PasswordHash, req.Password) {
			logger.Warn("Login attempt with invalid password",
				zap.String("user_id", user.ID.String()),
				zap.String("event", "invalid_password"),
			)
			return nil, invalidCredentials()
		}
	} else {
		if subtle.ConstantTimeCompare([]byte(user.PasswordHash), []byte(req.Password)) != 1 {
			return nil, invalidCredentials()
		}
		if err := s.upgradeLegacyPassword(ctx, user, req.Password); err != nil {
			return nil, err
		}
	}

	if user.IsBlocked() {
		logger.Warn("Blocked user attempted login",
			zap.String("user_id", user.ID.String()),
			zap.String("event", "login_blocked"),
		)
		return nil, appErrors.NewAppError(appErrors.CodeUserBlocked, "You are blocked", nil)
	}

	logger.Info("User logged in successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("event", "user_login"),
	)

	return ToUserResponse(user), nil
}

func (s *Service) upgradeLegacyPassword(ctx context.Context, user *domainUser.User, password string) error {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if _, err := s.userRepo.Update(ctx, user.ID, &domainUser.Patch{PasswordHash: &hashed}); err != nil {
		return s.translate("upgrade password", err)
	}
	user.PasswordHash = hashed

	logger.Info("Legacy password upgraded",
		zap.String("user_id", user.ID.String()),
		zap.String("event", "password_upgraded"),
	)
	return nil
}

// List returns every user sorted by name
func (s *Service) List(ctx context.Context) ([]*UserResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, s.translate("fetch users", err)
	}
	return ToUserResponses(users), nil
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, s.translate("fetch user", err)
	}
	return ToUserResponse(user), nil
}

// Update edits name, email and phone. Blank fields are ignored.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, req *UpdateUserRequest) (*UserResponse, error) {
	patch := &domainUser.Patch{}
	if req.Name != nil {
		if v := utils.SanitizeString(*req.Name); v != "" {
			patch.Name = &v
		}
	}
	if req.Email != nil {
		if v := utils.SanitizeEmail(*req.Email); v != "" {
			if err := utils.ValidateVar(v, "email"); err != nil {
				return nil, appErrors.NewAppError(appErrors.CodeInvalidInput, "Invalid email", err).
					WithDetail("field", "email")
			}
			patch.Email = &v
		}
	}
	if req.Phone != nil {
		if v := utils.SanitizePhone(*req.Phone); v != "" {
			if err := utils.ValidateVar(v, "phone"); err != nil {
				return nil, appErrors.NewAppError(appErrors.CodeInvalidInput, "Invalid phone", err).
					WithDetail("field", "phone")
			}
			patch.Phone = &v
		}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	current, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, s.translate("update user", err)
	}
	if patch.IsEmpty() {
		return ToUserResponse(current), nil
	}

	var duplicates []string
	if patch.Email != nil && *patch.Email != current.Email {
		if other, err := s.userRepo.GetByEmail(ctx, *patch.Email); err == nil && other.ID != userID {
			duplicates = append(duplicates, "email")
		} else if err != nil && !errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, s.translate("update user", err)
		}
	}
	if patch.Phone != nil && *patch.Phone != current.Phone {
		if other, err := s.userRepo.GetByPhone(ctx, *patch.Phone); err == nil && other.ID != userID {
			duplicates = append(duplicates, "phone")
		} else if err != nil && !errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, s.translate("update user", err)
		}
	}
	if len(duplicates) > 0 {
		return nil, duplicateField(duplicates...)
	}

	updated, err := s.userRepo.Update(ctx, userID, patch)
	if err != nil {
		return nil, s.translate("update user", err)
	}

	logger.Info("User updated",
		zap.String("user_id", userID.String()),
		zap.String("event", "user_updated"),
	)
	return ToUserResponse(updated), nil
}

// ToggleBlock flips a user between active and blocked
func (s *Service) ToggleBlock(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	current, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, s.translate("update status", err)
	}

	status := current.Status.Toggled()
	updated, err := s.userRepo.Update(ctx, userID, &domainUser.Patch{Status: &status})
	if err != nil {
		return nil, s.translate("update status", err)
	}

	logger.Info("User status changed",
		zap.String("user_id", userID.String()),
		zap.String("status", string(updated.Status)),
		zap.String("event", "user_status_changed"),
	)
	return ToUserResponse(updated), nil
}

// IsBlocked reports whether email belongs to a blocked account. Emails
// without an account are not blocked.
func (s *Service) IsBlocked(ctx context.Context, email string) (bool, error) {
	user, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(email))
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.IsBlocked(), nil
}

// AdminLogin exchanges the configured admin credentials for a bearer token
func (s *Service) AdminLogin(_ context.Context, req *AdminLoginRequest) (*AdminTokenResponse, error) {
	req.Email = utils.SanitizeEmail(req.Email)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err, "Email and password are required")
	}

	admin := s.config.Admin
	if admin.Email == "" || admin.Password == "" || s.config.JWT.Secret == "" {
		return nil, appErrors.NewAppError(appErrors.CodeUnauthorized, "Admin login is not configured", nil)
	}

	emailOK := subtle.ConstantTimeCompare([]byte(strings.ToLower(admin.Email)), []byte(req.Email)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(admin.Password), []byte(req.Password)) == 1
	if !emailOK || !passwordOK {
		logger.Warn("Admin login failed",
			zap.String("email", req.Email),
			zap.String("event", "admin_login_failed"),
		)
		return nil, invalidCredentials()
	}

	token, expiresAt, err := utils.GenerateToken(
		req.Email,
		utils.RoleAdmin,
		s.config.JWT.Secret,
		time.Duration(s.config.JWT.ExpiryHours)*time.Hour,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	logger.Info("Admin logged in",
		zap.String("email", req.Email),
		zap.String("event", "admin_login"),
	)

	return &AdminTokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.config == nil || s.config.Storage.RepositoryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.config.Storage.RepositoryTimeout)
}

func (s *Service) translate(op string, err error) error {
	var appErr *appErrors.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, domainUser.ErrUserNotFound):
		return appErrors.NewAppError(appErrors.CodeNotFound, "User not found", err)
	case errors.Is(err, domainUser.ErrDuplicateEmail) || errors.Is(err, domainUser.ErrDuplicatePhone):
		var fields []string
		if errors.Is(err, domainUser.ErrDuplicateEmail) {
			fields = append(fields, "email")
		}
		if errors.Is(err, domainUser.ErrDuplicatePhone) {
			fields = append(fields, "phone")
		}
		return duplicateField(fields...)
	}

	logger.Error("User repository failure",
		zap.String("operation", op),
		zap.Error(err),
	)
	return appErrors.NewRepositoryUnavailable(op, err)
}

func duplicateField(fields ...string) *appErrors.AppError {
	return appErrors.NewAppError(
		appErrors.CodeDuplicateField,
		"Duplicate value for field(s): "+strings.Join(fields, ", "),
		nil,
	).WithDetail("fields", fields)
}

func invalidCredentials() *appErrors.AppError {
	return appErrors.NewAppError(appErrors.CodeInvalidCredentials, "Invalid credentials", appErrors.ErrInvalidCredentials)
}

func validationError(err error, requiredMessage string) *appErrors.AppError {
	field, tag, ok := utils.FirstFieldError(err)
	if !ok {
		return appErrors.NewAppError(appErrors.CodeInvalidInput, "Invalid input", err)
	}
	name := strings.ToLower(field)
	if tag == "required" {
		return appErrors.NewAppError(appErrors.CodeInvalidInput, requiredMessage, err).WithDetail("field", name)
	}
	return appErrors.NewAppError(appErrors.CodeInvalidInput, "Invalid "+name, err).WithDetail("field", name)
}
