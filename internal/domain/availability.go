package domain

import "time"

// BusinessWindow returns the half-open business-hours window [start, end)
// for the given calendar date, in the date's location.
func BusinessWindow(date time.Time) (time.Time, time.Time) {
	year, month, day := date.Date()
	start := time.Date(year, month, day, BusinessStartHour, 0, 0, 0, date.Location())
	end := time.Date(year, month, day, BusinessEndHour, 0, 0, 0, date.Location())
	return start, end
}

// WithinBusinessHours reports whether the range [start, end) lies entirely
// inside the business-hours window of start's day. A range ending exactly at
// closing time is still inside.
func WithinBusinessHours(start, end time.Time) bool {
	dayStart, dayEnd := BusinessWindow(start)
	return !start.Before(dayStart) && !end.After(dayEnd)
}

// HasConflict reports whether [start, end) overlaps any blocking booking.
// Half-open interval semantics: touching endpoints do not conflict.
func HasConflict(start, end time.Time, bookings []*Booking) bool {
	for _, b := range bookings {
		if !b.IsBlocking() {
			continue
		}
		if b.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// IsWeekend reports whether the date falls on Saturday or Sunday
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DateOnly truncates a timestamp to its calendar day
func DateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
