package domain

import "time"

// TimeSlot represents a candidate appointment interval. Derived value,
// never persisted.
type TimeSlot struct {
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
}

// NewTimeSlot builds a slot from its start and duration
func NewTimeSlot(start time.Time, durationMinutes int) TimeSlot {
	return TimeSlot{
		StartTime:       start,
		EndTime:         start.Add(time.Duration(durationMinutes) * time.Minute),
		DurationMinutes: durationMinutes,
	}
}
