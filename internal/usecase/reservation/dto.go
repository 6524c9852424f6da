package reservation

import (
	"strconv"
	"strings"
	"time"

	domainReservation "dine-reserve/internal/domain/reservation"

	"github.com/google/uuid"
)

// isoDateTime matches the millisecond ISO-8601 form browsers produce
const isoDateTime = "2006-01-02T15:04:05.000Z07:00"

// SeatCount holds a seat value exactly as the client sent it. Clients send
// either a JSON number or a numeric string.
type SeatCount struct {
	Raw string
}

func (s *SeatCount) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		s.Raw = ""
	case strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`) && len(raw) >= 2:
		s.Raw = strings.TrimSpace(raw[1 : len(raw)-1])
	default:
		s.Raw = raw
	}
	return nil
}

// NewSeatCount builds a SeatCount from an integer, mostly for callers in code
func NewSeatCount(n int) SeatCount {
	return SeatCount{Raw: strconv.Itoa(n)}
}

type CreateReservationRequest struct {
	Name  string    `json:"name" validate:"required"`
	Email string    `json:"email" validate:"required,email"`
	Phone string    `json:"phone" validate:"required"`
	Date  string    `json:"date" validate:"required"`
	Time  string    `json:"time" validate:"required"`
	Seats SeatCount `json:"seats"`
}

// UpdateReservationRequest is a partial edit. Absent and empty fields are left untouched.
type UpdateReservationRequest struct {
	Name   *string    `json:"name,omitempty"`
	Email  *string    `json:"email,omitempty"`
	Phone  *string    `json:"phone,omitempty"`
	Date   *string    `json:"date,omitempty"`
	Time   *string    `json:"time,omitempty"`
	Seats  *SeatCount `json:"seats,omitempty"`
	Status *string    `json:"status,omitempty"`
}

type ReservationResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Seats     int       `json:"seats"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type OccupancyResponse struct {
	TotalSeats      int `json:"totalSeats"`
	TotalTables     int `json:"totalTables"`
	OccupiedSeats   int `json:"occupiedSeats"`
	VacantSeats     int `json:"vacantSeats"`
	ConfirmedTables int `json:"confirmedTables"`
	VacantTables    int `json:"vacantTables"`
	PendingCount    int `json:"pendingCount"`
}

type StatisticsResponse struct {
	Total       int               `json:"total"`
	Pending     int               `json:"pending"`
	Confirmed   int               `json:"confirmed"`
	Cancelled   int               `json:"cancelled"`
	TotalGuests int               `json:"totalGuests"`
	Occupancy   OccupancyResponse `json:"occupancy"`
}

// ToReservationResponse converts domain entity to response DTO
func ToReservationResponse(r *domainReservation.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}
	return &ReservationResponse{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		Date:      r.Date.UTC().Format(isoDateTime),
		Time:      r.Time,
		Seats:     r.Seats,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func ToReservationResponses(reservations []*domainReservation.Reservation) []*ReservationResponse {
	out := make([]*ReservationResponse, 0, len(reservations))
	for _, r := range reservations {
		out = append(out, ToReservationResponse(r))
	}
	return out
}

func ToOccupancyResponse(o domainReservation.Occupancy) *OccupancyResponse {
	return &OccupancyResponse{
		TotalSeats:      o.TotalSeats,
		TotalTables:     o.TotalTables,
		OccupiedSeats:   o.OccupiedSeats,
		VacantSeats:     o.VacantSeats,
		ConfirmedTables: o.ConfirmedTables,
		VacantTables:    o.VacantTables,
		PendingCount:    o.PendingCount,
	}
}

func ToStatisticsResponse(s domainReservation.Statistics) *StatisticsResponse {
	return &StatisticsResponse{
		Total:       s.Total,
		Pending:     s.Pending,
		Confirmed:   s.Confirmed,
		Cancelled:   s.Cancelled,
		TotalGuests: s.TotalGuests,
		Occupancy:   *ToOccupancyResponse(s.Occupancy),
	}
}
