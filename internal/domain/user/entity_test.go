package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Toggled(t *testing.T) {
	assert.Equal(t, StatusBlocked, StatusActive.Toggled())
	assert.Equal(t, StatusActive, StatusBlocked.Toggled())
	assert.False(t, Status("suspended").IsValid())
}

func TestPatch_Apply(t *testing.T) {
	u := &User{Name: "Ana", Status: StatusActive}
	blocked := StatusBlocked

	(&Patch{Status: &blocked}).Apply(u)

	assert.True(t, u.IsBlocked())
	assert.Equal(t, "Ana", u.Name)
}
