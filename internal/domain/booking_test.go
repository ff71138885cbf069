package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusNoShow, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusNoShow, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusNoShow, StatusConfirmed, false},
	}

	for _, tc := range cases {
		got := tc.from.CanTransitionTo(tc.to)
		assert.Equal(t, tc.allowed, got, "%s -> %s", tc.from, tc.to)
	}
}

func TestBookingStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusNoShow.IsTerminal())
}

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"pending", "confirmed", "cancelled", "completed", "no_show"} {
		status, ok := ParseStatus(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, BookingStatus(raw), status)
	}

	for _, raw := range []string{"", "Pending", "noshow", "done"} {
		_, ok := ParseStatus(raw)
		assert.False(t, ok, raw)
	}
}

func TestBooking_IsBlocking(t *testing.T) {
	cases := map[BookingStatus]bool{
		StatusPending:   true,
		StatusConfirmed: true,
		StatusCancelled: false,
		StatusCompleted: false,
		StatusNoShow:    false,
	}

	for status, want := range cases {
		b := &Booking{Status: status}
		assert.Equal(t, want, b.IsBlocking(), string(status))
	}
}

func TestBooking_Overlaps(t *testing.T) {
	at := func(hour, min int) time.Time {
		return time.Date(2025, time.June, 2, hour, min, 0, 0, time.UTC)
	}

	b := &Booking{StartTime: at(10, 0), EndTime: at(11, 0)}

	assert.True(t, b.Overlaps(at(10, 30), at(11, 30)), "partial overlap at the end")
	assert.True(t, b.Overlaps(at(9, 30), at(10, 30)), "partial overlap at the start")
	assert.True(t, b.Overlaps(at(9, 0), at(12, 0)), "containing interval")
	assert.True(t, b.Overlaps(at(10, 15), at(10, 45)), "contained interval")
	assert.True(t, b.Overlaps(at(10, 0), at(11, 0)), "identical interval")

	assert.False(t, b.Overlaps(at(11, 0), at(12, 0)), "starts at booking end")
	assert.False(t, b.Overlaps(at(9, 0), at(10, 0)), "ends at booking start")
	assert.False(t, b.Overlaps(at(12, 0), at(13, 0)), "fully after")
}

func TestBooking_DurationMinutes(t *testing.T) {
	start := time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC)
	b := &Booking{StartTime: start, EndTime: start.Add(90 * time.Minute)}
	assert.Equal(t, 90, b.DurationMinutes())
}

func TestBooking_CanBeUpdated(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusPending}).CanBeUpdated())
	assert.True(t, (&Booking{Status: StatusConfirmed}).CanBeUpdated())
	assert.False(t, (&Booking{Status: StatusCancelled}).CanBeUpdated())
	assert.False(t, (&Booking{Status: StatusCompleted}).CanBeUpdated())
	assert.False(t, (&Booking{Status: StatusNoShow}).CanBeUpdated())
}
