package reservation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeSlots(t *testing.T) {
	assert.Len(t, TimeSlots, 12)
	assert.True(t, IsValidTimeSlot("9:00 AM"))
	assert.True(t, IsValidTimeSlot("8:00 PM"))
	assert.False(t, IsValidTimeSlot("11:30 AM"))
	assert.False(t, IsValidTimeSlot("09:00 AM"))
}

func TestPatch_Apply(t *testing.T) {
	r := &Reservation{Name: "Ana", Seats: 2, Status: StatusPending}
	name := "Ana Maria"
	seats := 4

	patch := &Patch{Name: &name, Seats: &seats}
	patch.Apply(r)

	assert.Equal(t, "Ana Maria", r.Name)
	assert.Equal(t, 4, r.Seats)
	assert.Equal(t, StatusPending, r.Status)
	assert.False(t, patch.IsEmpty())
	assert.True(t, (&Patch{}).IsEmpty())
}
