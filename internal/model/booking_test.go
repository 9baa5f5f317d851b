package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusTransitions(t *testing.T) {
	tests := []struct {
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{BookingStatusPending, BookingStatusConfirmed, true},
		{BookingStatusPending, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusPending, false},
		{BookingStatusCancelled, BookingStatusPending, false},
		{BookingStatusCancelled, BookingStatusConfirmed, false},
		{BookingStatusCancelled, BookingStatusCancelled, false},
		{BookingStatusPending, BookingStatusPending, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestBookingStatusIsActive(t *testing.T) {
	assert.True(t, BookingStatusPending.IsActive())
	assert.True(t, BookingStatusConfirmed.IsActive())
	assert.False(t, BookingStatusCancelled.IsActive())
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"student", "teacher", "admin"} {
		role, err := ParseRole(valid)
		assert.NoError(t, err)
		assert.Equal(t, Role(valid), role)
	}

	_, err := ParseRole("superuser")
	assert.Error(t, err)

	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestLectureIsTaughtBy(t *testing.T) {
	lecture := &Lecture{ID: 1, TeacherID: 10, CoTeacherIDs: []int64{20, 30}}

	assert.True(t, lecture.IsTaughtBy(10))
	assert.True(t, lecture.IsTaughtBy(20))
	assert.True(t, lecture.IsTaughtBy(30))
	assert.False(t, lecture.IsTaughtBy(40))
}
