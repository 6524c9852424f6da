package messaging

import (
	"encoding/json"
	"time"

	domainReservation "dine-reserve/internal/domain/reservation"

	"github.com/google/uuid"
)

// reservationPayload mirrors the HTTP reservation representation
type reservationPayload struct {
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

type eventMessage struct {
	Type        string              `json:"type"`
	Reservation *reservationPayload `json:"reservation"`
	OccurredAt  time.Time           `json:"occurred_at"`
}

func encodeEvent(event domainReservation.Event) ([]byte, error) {
	msg := eventMessage{
		Type:       string(event.Type),
		OccurredAt: event.OccurredAt,
	}
	if r := event.Reservation; r != nil {
		msg.Reservation = &reservationPayload{
			ID:        r.ID,
			Name:      r.Name,
			Email:     r.Email,
			Phone:     r.Phone,
			Date:      r.Date.UTC().Format("2006-01-02"),
			Time:      r.Time,
			Seats:     r.Seats,
			Status:    string(r.Status),
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		}
	}
	return json.Marshal(msg)
}

// Topic returns the MQTT topic for an event type
func Topic(prefix string, eventType domainReservation.EventType) string {
	if prefix == "" {
		return "reservations/" + string(eventType)
	}
	return prefix + "/reservations/" + string(eventType)
}

// RoutingKey returns the AMQP routing key for an event type
func RoutingKey(eventType domainReservation.EventType) string {
	return "reservation." + string(eventType)
}
