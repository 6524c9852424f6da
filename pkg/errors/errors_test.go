package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf_WrappedAppError(t *testing.T) {
	base := NewAppError(CodeNotFound, "Reservation not found", nil)
	wrapped := fmt.Errorf("lookup: %w", base)

	assert.Equal(t, CodeNotFound, CodeOf(wrapped))
	assert.True(t, IsCode(wrapped, CodeNotFound))
	assert.Equal(t, "", CodeOf(errors.New("plain")))
}

func TestNewCapacityExceeded_Details(t *testing.T) {
	err := NewCapacityExceeded(0, 1)

	assert.Equal(t, CodeCapacityExceeded, err.Code)
	assert.Equal(t, 0, err.Details["available"])
	assert.Equal(t, 1, err.Details["requested"])
	assert.Contains(t, err.Error(), "0 seat(s) available")
}

func TestAppError_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewRepositoryUnavailable("load reservation", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Failed to load reservation: connection refused", err.Error())
}
