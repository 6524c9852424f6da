package reservation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	domainReservation "dine-reserve/internal/domain/reservation"
	appErrors "dine-reserve/pkg/errors"
)

const (
	isoDateLayout = "2006-01-02"
	dmyDateLayout = "02-01-2006"
)

// ParseDate accepts YYYY-MM-DD first, then a full RFC 3339 timestamp, then
// DD-MM-YYYY. The result is truncated to UTC midnight.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)

	if t, err := time.Parse(isoDateLayout, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	if t, err := time.Parse(dmyDateLayout, raw); err == nil {
		return t.UTC(), nil
	}

	return time.Time{}, appErrors.NewAppError(
		appErrors.CodeInvalidDate,
		"Invalid date format. Use YYYY-MM-DD or DD-MM-YYYY",
		nil,
	).WithDetail("date", raw)
}

// ValidateTimeSlot checks slot against the fixed enumeration
func ValidateTimeSlot(slot string) error {
	if domainReservation.IsValidTimeSlot(slot) {
		return nil
	}

	allowed := make([]string, len(domainReservation.TimeSlots))
	copy(allowed, domainReservation.TimeSlots)

	return appErrors.NewAppError(
		appErrors.CodeInvalidTime,
		"Invalid time. Allowed times: "+strings.Join(allowed, ", "),
		nil,
	).WithDetail("allowed", allowed)
}

// ParseSeats converts a textual or numeric seat count. Integral floats such
// as "4.0" are accepted.
func ParseSeats(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, missingField("seats")
	}

	seats, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return 0, invalidSeats(raw)
		}
		seats = int(f)
	}

	if seats < domainReservation.MinSeats || seats > domainReservation.MaxSeats {
		return 0, invalidSeats(raw)
	}
	return seats, nil
}

func invalidSeats(raw string) error {
	return appErrors.NewAppError(
		appErrors.CodeInvalidSeats,
		fmt.Sprintf("Invalid seats. Must be integer between %d and %d", domainReservation.MinSeats, domainReservation.MaxSeats),
		nil,
	).WithDetail("seats", raw)
}

func missingField(field string) error {
	return appErrors.NewAppError(appErrors.CodeInvalidInput, "Missing required fields", nil).
		WithDetail("field", field)
}

// ParseStatus converts a status string, rejecting unknown values
func ParseStatus(raw string) (domainReservation.Status, error) {
	status := domainReservation.Status(strings.TrimSpace(raw))
	if !status.IsValid() {
		return "", appErrors.NewAppError(
			appErrors.CodeInvalidInput,
			fmt.Sprintf("Invalid status: %s", raw),
			domainReservation.ErrInvalidStatus,
		)
	}
	return status, nil
}

// ValidateStatusTransition checks if status transition is allowed.
// Requesting the current status is not a transition and is handled by callers.
func ValidateStatusTransition(currentStatus, newStatus domainReservation.Status) error {
	allowedStatuses, exists := validTransitions[currentStatus]
	if !exists {
		return appErrors.NewAppError(
			appErrors.CodeInvalidTransition,
			fmt.Sprintf("Unknown current status: %s", currentStatus),
			nil,
		)
	}

	for _, allowed := range allowedStatuses {
		if newStatus == allowed {
			return nil
		}
	}

	return appErrors.NewAppError(
		appErrors.CodeInvalidTransition,
		fmt.Sprintf("Cannot transition from %s to %s", currentStatus, newStatus),
		nil,
	).WithDetail("from", string(currentStatus)).WithDetail("to", string(newStatus))
}

var validTransitions = map[domainReservation.Status][]domainReservation.Status{
	domainReservation.StatusPending: {
		domainReservation.StatusConfirmed,
		domainReservation.StatusCancelled,
	},
	domainReservation.StatusConfirmed: {
		domainReservation.StatusCancelled,
	},
	domainReservation.StatusCancelled: {
		// Terminal state - no transitions
	},
}

// GetAllowedTransitions returns the statuses reachable from current
func GetAllowedTransitions(current domainReservation.Status) []domainReservation.Status {
	return append([]domainReservation.Status(nil), validTransitions[current]...)
}
