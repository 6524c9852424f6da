package memory

import (
	"context"
	"testing"
	"time"

	domainReservation "dine-reserve/internal/domain/reservation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestReservationRepository_OrdersByDateThenCreatedAt(t *testing.T) {
	repo := NewReservationRepository()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	older := &domainReservation.Reservation{Email: "a@x.com", Date: day("2025-06-01"), CreatedAt: base}
	newer := &domainReservation.Reservation{Email: "a@x.com", Date: day("2025-06-01"), CreatedAt: base.Add(time.Minute)}
	later := &domainReservation.Reservation{Email: "a@x.com", Date: day("2025-07-01"), CreatedAt: base}
	other := &domainReservation.Reservation{Email: "b@x.com", Date: day("2025-08-01"), CreatedAt: base}
	for _, r := range []*domainReservation.Reservation{older, newer, later, other} {
		require.NoError(t, repo.Create(ctx, r))
	}

	got, err := repo.GetByEmail(ctx, "a@x.com")

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, later.ID, got[0].ID)
	assert.Equal(t, newer.ID, got[1].ID)
	assert.Equal(t, older.ID, got[2].ID)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, other.ID, all[0].ID)
}

func TestReservationRepository_UpdateAndDelete(t *testing.T) {
	repo := NewReservationRepository()
	ctx := context.Background()
	r := &domainReservation.Reservation{Name: "Ana", Seats: 2, Status: domainReservation.StatusPending}
	require.NoError(t, repo.Create(ctx, r))

	status := domainReservation.StatusConfirmed
	updated, err := repo.Update(ctx, r.ID, &domainReservation.Patch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, domainReservation.StatusConfirmed, updated.Status)
	assert.Equal(t, "Ana", updated.Name)

	confirmed, err := repo.GetByStatus(ctx, domainReservation.StatusConfirmed)
	require.NoError(t, err)
	assert.Len(t, confirmed, 1)

	_, err = repo.Update(ctx, uuid.New(), &domainReservation.Patch{Status: &status})
	assert.ErrorIs(t, err, domainReservation.ErrReservationNotFound)

	require.NoError(t, repo.Delete(ctx, r.ID))
	assert.ErrorIs(t, repo.Delete(ctx, r.ID), domainReservation.ErrReservationNotFound)
	_, err = repo.GetByID(ctx, r.ID)
	assert.ErrorIs(t, err, domainReservation.ErrReservationNotFound)
}

func TestReservationRepository_ReturnsCopies(t *testing.T) {
	repo := NewReservationRepository()
	ctx := context.Background()
	r := &domainReservation.Reservation{Name: "Ana"}
	require.NoError(t, repo.Create(ctx, r))

	got, err := repo.GetByID(ctx, r.ID)
	require.NoError(t, err)
	got.Name = "changed"

	again, err := repo.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", again.Name)
}

func TestReservationRepository_CancelledContext(t *testing.T) {
	repo := NewReservationRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.GetAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	called := false
	err = repo.WithCapacityLock(ctx, func(context.Context, domainReservation.Repository) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
