package reservation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	domainReservation "dine-reserve/internal/domain/reservation"
	domainUser "dine-reserve/internal/domain/user"
	"dine-reserve/internal/logger"
	appErrors "dine-reserve/pkg/errors"
	"dine-reserve/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IdentityGate answers whether an email belongs to a blocked account.
// Unknown emails are not blocked.
type IdentityGate interface {
	IsBlocked(ctx context.Context, email string) (bool, error)
}

// ReservationCounter records a booking against the account owning email.
// It returns domainUser.ErrUserNotFound for guest bookings.
type ReservationCounter interface {
	IncrementReservations(ctx context.Context, email string) error
}

// OccupancyCache holds the last occupancy snapshot for display
type OccupancyCache interface {
	Get(ctx context.Context) (*domainReservation.Occupancy, bool)
	Set(ctx context.Context, occupancy domainReservation.Occupancy)
	Invalidate(ctx context.Context)
}

// defaultPublishTimeout bounds event delivery when no repository timeout is configured
const defaultPublishTimeout = 5 * time.Second

type Config struct {
	Capacity domainReservation.Capacity
	// Timeout bounds every call into the repository
	Timeout time.Duration
}

// Service implements reservation use cases
type Service struct {
	repo      domainReservation.Repository
	gate      IdentityGate
	counter   ReservationCounter
	publisher domainReservation.EventPublisher
	cache     OccupancyCache
	capacity  domainReservation.Capacity
	timeout   time.Duration
	now       func() time.Time

	// cacheMu orders snapshot writes against invalidations; cacheGen counts
	// invalidations so a snapshot read before a mutation is never stored.
	cacheMu  sync.Mutex
	cacheGen uint64
}

// NewService creates a new reservation service. gate, counter, publisher
// and cache are optional.
func NewService(
	repo domainReservation.Repository,
	gate IdentityGate,
	counter ReservationCounter,
	publisher domainReservation.EventPublisher,
	cache OccupancyCache,
	cfg Config,
) *Service {
	return &Service{
		repo:      repo,
		gate:      gate,
		counter:   counter,
		publisher: publisher,
		cache:     cache,
		capacity:  cfg.Capacity,
		timeout:   cfg.Timeout,
		now:       time.Now,
	}
}

// Capacity returns the configured restaurant capacity
func (s *Service) Capacity() domainReservation.Capacity {
	return s.capacity
}

func (s *Service) Create(ctx context.Context, req *CreateReservationRequest) (*ReservationResponse, error) {
	req.Name = utils.SanitizeString(req.Name)
	req.Email = utils.SanitizeEmail(req.Email)
	req.Phone = utils.SanitizePhone(req.Phone)

	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}

	date, err := ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if err := ValidateTimeSlot(req.Time); err != nil {
		return nil, err
	}
	seats, err := ParseSeats(req.Seats.Raw)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.ensureNotBlocked(ctx, req.Email); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	reservation := &domainReservation.Reservation{
		ID:        uuid.New(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Date:      date,
		Time:      req.Time,
		Seats:     seats,
		Status:    domainReservation.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, reservation); err != nil {
		return nil, s.translate("create reservation", err)
	}

	s.countReservation(ctx, reservation.Email)

	logger.Info("Reservation created",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("email", reservation.Email),
		zap.Int("seats", reservation.Seats),
		zap.String("event", "reservation_created"),
	)

	s.afterMutation(ctx, domainReservation.EventCreated, reservation)
	return ToReservationResponse(reservation), nil
}

// Confirm commits capacity for a pending reservation
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (*ReservationResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var confirmed *domainReservation.Reservation
	err := s.repo.WithCapacityLock(ctx, func(ctx context.Context, repo domainReservation.Repository) error {
		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err := ValidateStatusTransition(current.Status, domainReservation.StatusConfirmed); err != nil {
			return err
		}
		if err := s.ensureNotBlocked(ctx, current.Email); err != nil {
			return err
		}
		if err := s.ensureCapacity(ctx, repo, current.ID, current.Seats); err != nil {
			return err
		}

		status := domainReservation.StatusConfirmed
		confirmed, err = repo.Update(ctx, id, &domainReservation.Patch{Status: &status})
		return err
	})
	if err != nil {
		return nil, s.translate("confirm reservation", err)
	}

	logger.Info("Reservation confirmed",
		zap.String("reservation_id", confirmed.ID.String()),
		zap.Int("seats", confirmed.Seats),
		zap.String("event", "reservation_confirmed"),
	)

	s.afterMutation(ctx, domainReservation.EventConfirmed, confirmed)
	return ToReservationResponse(confirmed), nil
}

// Cancel moves a reservation to Cancelled. Cancelling twice is a no-op.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*ReservationResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		cancelled *domainReservation.Reservation
		changed   bool
	)
	err := s.repo.WithCapacityLock(ctx, func(ctx context.Context, repo domainReservation.Repository) error {
		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current.Status == domainReservation.StatusCancelled {
			cancelled = current
			return nil
		}

		status := domainReservation.StatusCancelled
		cancelled, err = repo.Update(ctx, id, &domainReservation.Patch{Status: &status})
		changed = err == nil
		return err
	})
	if err != nil {
		return nil, s.translate("cancel reservation", err)
	}

	if changed {
		logger.Info("Reservation cancelled",
			zap.String("reservation_id", cancelled.ID.String()),
			zap.String("event", "reservation_cancelled"),
		)
		s.afterMutation(ctx, domainReservation.EventCancelled, cancelled)
	}

	return ToReservationResponse(cancelled), nil
}

// Edit applies a partial update. Every present field is validated before
// anything is written, and capacity is re-checked when the edit confirms the
// reservation or grows a confirmed one.
func (s *Service) Edit(ctx context.Context, id uuid.UUID, req *UpdateReservationRequest) (*ReservationResponse, error) {
	patch, err := buildPatch(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		updated   *domainReservation.Reservation
		eventType domainReservation.EventType
	)
	err = s.repo.WithCapacityLock(ctx, func(ctx context.Context, repo domainReservation.Repository) error {
		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if patch.Status != nil && *patch.Status == current.Status {
			patch.Status = nil
		}
		if patch.IsEmpty() {
			updated = current
			return nil
		}

		targetStatus := current.Status
		if patch.Status != nil {
			if err := ValidateStatusTransition(current.Status, *patch.Status); err != nil {
				return err
			}
			targetStatus = *patch.Status
		}

		targetSeats := current.Seats
		if patch.Seats != nil {
			targetSeats = *patch.Seats
		}

		switch {
		case targetStatus == domainReservation.StatusConfirmed && current.Status != domainReservation.StatusConfirmed:
			email := current.Email
			if patch.Email != nil {
				email = *patch.Email
			}
			if err := s.ensureNotBlocked(ctx, email); err != nil {
				return err
			}
			if err := s.ensureCapacity(ctx, repo, current.ID, targetSeats); err != nil {
				return err
			}
			eventType = domainReservation.EventConfirmed
		case targetStatus == domainReservation.StatusConfirmed && targetSeats > current.Seats:
			if err := s.ensureCapacity(ctx, repo, current.ID, targetSeats); err != nil {
				return err
			}
			eventType = domainReservation.EventUpdated
		case targetStatus == domainReservation.StatusCancelled && current.Status != domainReservation.StatusCancelled:
			eventType = domainReservation.EventCancelled
		default:
			eventType = domainReservation.EventUpdated
		}

		updated, err = repo.Update(ctx, id, patch)
		return err
	})
	if err != nil {
		return nil, s.translate("update reservation", err)
	}

	if eventType != "" {
		logger.Info("Reservation updated",
			zap.String("reservation_id", updated.ID.String()),
			zap.String("status", string(updated.Status)),
			zap.Int("seats", updated.Seats),
			zap.String("event", "reservation_"+string(eventType)),
		)
		s.afterMutation(ctx, eventType, updated)
	}

	return ToReservationResponse(updated), nil
}

// ListForUser returns the reservations booked under email, newest date first
func (s *Service) ListForUser(ctx context.Context, email string) ([]*ReservationResponse, error) {
	email = utils.SanitizeEmail(email)
	if email == "" {
		return nil, appErrors.NewAppError(appErrors.CodeInvalidInput, "Email required", nil)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	reservations, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, s.translate("fetch reservations", err)
	}
	return ToReservationResponses(reservations), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ReservationResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate("fetch reservation", err)
	}
	return ToReservationResponse(r), nil
}

// List returns every reservation, newest date first
func (s *Service) List(ctx context.Context) ([]*ReservationResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	reservations, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, s.translate("fetch reservations", err)
	}
	return ToReservationResponses(reservations), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return s.translate("delete reservation", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translate("delete reservation", err)
	}

	logger.Info("Reservation deleted",
		zap.String("reservation_id", id.String()),
		zap.String("event", "reservation_deleted"),
	)

	s.afterMutation(ctx, domainReservation.EventDeleted, r)
	return nil
}

// Occupancy returns the current seat and table usage
func (s *Service) Occupancy(ctx context.Context) (*OccupancyResponse, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx); ok {
			return ToOccupancyResponse(*cached), nil
		}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	generation := s.cacheGeneration()

	reservations, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, s.translate("compute occupancy", err)
	}

	occupancy := domainReservation.ComputeOccupancy(reservations, s.capacity)
	s.storeOccupancy(ctx, generation, occupancy)
	return ToOccupancyResponse(occupancy), nil
}

// Statistics summarizes all reservations for the admin dashboard
func (s *Service) Statistics(ctx context.Context) (*StatisticsResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	reservations, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, s.translate("compute statistics", err)
	}
	return ToStatisticsResponse(domainReservation.ComputeStatistics(reservations, s.capacity)), nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// ensureCapacity fails when the confirmed reservations other than exclude
// leave fewer than seats vacant.
func (s *Service) ensureCapacity(ctx context.Context, repo domainReservation.Repository, exclude uuid.UUID, seats int) error {
	confirmed, err := repo.GetByStatus(ctx, domainReservation.StatusConfirmed)
	if err != nil {
		return err
	}

	others := make([]*domainReservation.Reservation, 0, len(confirmed))
	for _, r := range confirmed {
		if r.ID != exclude {
			others = append(others, r)
		}
	}

	occupancy := domainReservation.ComputeOccupancy(others, s.capacity)
	if occupancy.VacantSeats < seats {
		logger.Warn("Reservation rejected: capacity exceeded",
			zap.String("reservation_id", exclude.String()),
			zap.Int("available", occupancy.VacantSeats),
			zap.Int("requested", seats),
			zap.String("event", "capacity_exceeded"),
		)
		return appErrors.NewCapacityExceeded(occupancy.VacantSeats, seats)
	}
	return nil
}

func (s *Service) ensureNotBlocked(ctx context.Context, email string) error {
	if s.gate == nil {
		return nil
	}

	blocked, err := s.gate.IsBlocked(ctx, email)
	if err != nil {
		return s.translate("verify user status", err)
	}
	if blocked {
		return appErrors.NewAppError(appErrors.CodeUserBlocked, "You are blocked", nil).
			WithDetail("email", email)
	}
	return nil
}

func (s *Service) countReservation(ctx context.Context, email string) {
	if s.counter == nil {
		return
	}

	err := s.counter.IncrementReservations(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, domainUser.ErrUserNotFound):
		logger.Debug("Guest reservation, no account to credit", zap.String("email", email))
	default:
		logger.Warn("Failed to increment reservation count",
			zap.String("email", email),
			zap.Error(err),
		)
	}
}

func (s *Service) cacheGeneration() uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.cacheGen
}

// storeOccupancy caches a snapshot unless a mutation invalidated the cache
// after the snapshot's reservations were read.
func (s *Service) storeOccupancy(ctx context.Context, generation uint64, occupancy domainReservation.Occupancy) {
	if s.cache == nil {
		return
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.cacheGen != generation {
		return
	}
	s.cache.Set(ctx, occupancy)
}

func (s *Service) invalidateOccupancy(ctx context.Context) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.cacheGen++
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func (s *Service) publishTimeout() time.Duration {
	if s.timeout > 0 {
		return s.timeout
	}
	return defaultPublishTimeout
}

func (s *Service) afterMutation(ctx context.Context, eventType domainReservation.EventType, r *domainReservation.Reservation) {
	// The write is already committed; neither step may be cut short by the caller.
	ctx = context.WithoutCancel(ctx)

	s.invalidateOccupancy(ctx)
	if s.publisher == nil {
		return
	}

	event := domainReservation.Event{
		Type:        eventType,
		Reservation: r,
		OccurredAt:  s.now().UTC(),
	}

	publishCtx, cancel := context.WithTimeout(ctx, s.publishTimeout())
	defer cancel()

	if err := s.publisher.Publish(publishCtx, event); err != nil {
		logger.Warn("Failed to publish reservation event",
			zap.String("reservation_id", r.ID.String()),
			zap.String("type", string(eventType)),
			zap.Error(err),
		)
	}
}

// translate maps repository failures onto application errors
func (s *Service) translate(op string, err error) error {
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, domainReservation.ErrReservationNotFound) {
		return appErrors.NewAppError(appErrors.CodeNotFound, "Reservation not found", err)
	}

	logger.Error("Reservation repository failure",
		zap.String("operation", op),
		zap.Error(err),
	)
	return appErrors.NewRepositoryUnavailable(op, err)
}

func validateCreateRequest(req *CreateReservationRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		field, tag, ok := utils.FirstFieldError(err)
		if !ok {
			return appErrors.NewAppError(appErrors.CodeInvalidInput, "Invalid input", err)
		}
		if tag == "required" {
			return missingField(jsonName(field))
		}
		return appErrors.NewAppError(appErrors.CodeInvalidInput, "Invalid "+jsonName(field), err).
			WithDetail("field", jsonName(field))
	}
	if req.Seats.Raw == "" {
		return missingField("seats")
	}
	return nil
}

func buildPatch(req *UpdateReservationRequest) (*domainReservation.Patch, error) {
	patch := &domainReservation.Patch{}
	if req == nil {
		return patch, nil
	}

	if v := presentString(req.Name, utils.SanitizeString); v != nil {
		patch.Name = v
	}
	if v := presentString(req.Email, utils.SanitizeEmail); v != nil {
		if err := utils.ValidateVar(*v, "email"); err != nil {
			return nil, appErrors.NewAppError(appErrors.CodeInvalidInput, "Invalid email", err).
				WithDetail("field", "email")
		}
		patch.Email = v
	}
	if v := presentString(req.Phone, utils.SanitizePhone); v != nil {
		patch.Phone = v
	}
	if v := presentString(req.Date, nil); v != nil {
		date, err := ParseDate(*v)
		if err != nil {
			return nil, err
		}
		patch.Date = &date
	}
	if v := presentString(req.Time, nil); v != nil {
		if err := ValidateTimeSlot(*v); err != nil {
			return nil, err
		}
		patch.Time = v
	}
	if req.Seats != nil && strings.TrimSpace(req.Seats.Raw) != "" {
		seats, err := ParseSeats(req.Seats.Raw)
		if err != nil {
			return nil, err
		}
		patch.Seats = &seats
	}
	if v := presentString(req.Status, nil); v != nil {
		status, err := ParseStatus(*v)
		if err != nil {
			return nil, err
		}
		patch.Status = &status
	}

	return patch, nil
}

// presentString returns nil for absent or blank values
func presentString(v *string, sanitize func(string) string) *string {
	if v == nil {
		return nil
	}
	out := strings.TrimSpace(*v)
	if sanitize != nil {
		out = sanitize(out)
	}
	if out == "" {
		return nil
	}
	return &out
}

func jsonName(field string) string {
	switch field {
	case "Name":
		return "name"
	case "Email":
		return "email"
	case "Phone":
		return "phone"
	case "Date":
		return "date"
	case "Time":
		return "time"
	case "Seats":
		return "seats"
	}
	return field
}
