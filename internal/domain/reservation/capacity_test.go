package reservation

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withStatus(status Status, seats int) *Reservation {
	return &Reservation{Status: status, Seats: seats}
}

func TestComputeOccupancy_CountsOnlyConfirmedSeats(t *testing.T) {
	capacity := Capacity{TotalSeats: 50, TotalTables: 15}
	reservations := []*Reservation{
		withStatus(StatusConfirmed, 4),
		withStatus(StatusConfirmed, 6),
		withStatus(StatusPending, 10),
		withStatus(StatusPending, 2),
		withStatus(StatusCancelled, 8),
	}

	occ := ComputeOccupancy(reservations, capacity)

	assert.Equal(t, 10, occ.OccupiedSeats)
	assert.Equal(t, 40, occ.VacantSeats)
	assert.Equal(t, 2, occ.ConfirmedTables)
	assert.Equal(t, 13, occ.VacantTables)
	assert.Equal(t, 2, occ.PendingCount)
}

func TestComputeOccupancy_NegativeVacancyIsPreserved(t *testing.T) {
	capacity := Capacity{TotalSeats: 10, TotalTables: 1}
	reservations := []*Reservation{
		withStatus(StatusConfirmed, 8),
		withStatus(StatusConfirmed, 7),
	}

	occ := ComputeOccupancy(reservations, capacity)

	assert.Equal(t, 15, occ.OccupiedSeats)
	assert.Equal(t, -5, occ.VacantSeats)
	assert.Equal(t, -1, occ.VacantTables)
}

func TestComputeOccupancy_EmptyAndNil(t *testing.T) {
	capacity := Capacity{TotalSeats: 50, TotalTables: 15}

	occ := ComputeOccupancy([]*Reservation{nil}, capacity)

	assert.Equal(t, Occupancy{TotalSeats: 50, TotalTables: 15, VacantSeats: 50, VacantTables: 15}, occ)
	assert.Equal(t, occ, ComputeOccupancy(nil, capacity))
}

func TestComputeOccupancy_SumIdentityHolds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	statuses := []Status{StatusPending, StatusConfirmed, StatusCancelled}

	for i := 0; i < 500; i++ {
		capacity := Capacity{TotalSeats: rng.Intn(100) + 1, TotalTables: rng.Intn(30) + 1}
		n := rng.Intn(40)
		reservations := make([]*Reservation, 0, n)
		for j := 0; j < n; j++ {
			reservations = append(reservations, withStatus(statuses[rng.Intn(len(statuses))], rng.Intn(MaxSeats)+1))
		}

		occ := ComputeOccupancy(reservations, capacity)
		again := ComputeOccupancy(reservations, capacity)

		assert.Equal(t, capacity.TotalSeats, occ.OccupiedSeats+occ.VacantSeats)
		assert.Equal(t, capacity.TotalTables, occ.ConfirmedTables+occ.VacantTables)
		assert.Equal(t, occ, again)
	}
}

func TestComputeStatistics(t *testing.T) {
	capacity := Capacity{TotalSeats: 50, TotalTables: 15}
	reservations := []*Reservation{
		withStatus(StatusConfirmed, 4),
		withStatus(StatusPending, 3),
		withStatus(StatusCancelled, 2),
	}

	stats := ComputeStatistics(reservations, capacity)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Confirmed)
	assert.Equal(t, 1, stats.Cancelled)
	assert.Equal(t, 9, stats.TotalGuests)
	assert.Equal(t, 46, stats.Occupancy.VacantSeats)
}
