package reservation

// Capacity is the physical capacity of the restaurant
type Capacity struct {
	TotalSeats  int
	TotalTables int
}

// Occupancy is the seat and table usage derived from a reservation set.
// Vacancies are not clamped and go negative when the restaurant is over-booked.
type Occupancy struct {
	TotalSeats      int
	TotalTables     int
	OccupiedSeats   int
	VacantSeats     int
	ConfirmedTables int
	VacantTables    int
	PendingCount    int
}

// ComputeOccupancy derives occupancy from reservations. Only confirmed
// reservations hold seats, and each one holds exactly one table.
func ComputeOccupancy(reservations []*Reservation, capacity Capacity) Occupancy {
	occ := Occupancy{
		TotalSeats:  capacity.TotalSeats,
		TotalTables: capacity.TotalTables,
	}

	for _, r := range reservations {
		if r == nil {
			continue
		}
		switch r.Status {
		case StatusConfirmed:
			occ.OccupiedSeats += r.Seats
			occ.ConfirmedTables++
		case StatusPending:
			occ.PendingCount++
		}
	}

	occ.VacantSeats = capacity.TotalSeats - occ.OccupiedSeats
	occ.VacantTables = capacity.TotalTables - occ.ConfirmedTables

	return occ
}

// ComputeStatistics builds dashboard statistics from reservations
func ComputeStatistics(reservations []*Reservation, capacity Capacity) Statistics {
	stats := Statistics{
		Occupancy: ComputeOccupancy(reservations, capacity),
	}

	for _, r := range reservations {
		if r == nil {
			continue
		}
		stats.Total++
		stats.TotalGuests += r.Seats
		switch r.Status {
		case StatusPending:
			stats.Pending++
		case StatusConfirmed:
			stats.Confirmed++
		case StatusCancelled:
			stats.Cancelled++
		}
	}

	return stats
}
