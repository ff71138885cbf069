package domain

// Business hours: slots and bookings live in [09:00, 17:00) local time
const (
	BusinessStartHour = 9
	BusinessEndHour   = 17
)

// Availability constants
const (
	// SlotBufferMinutes idle minutes between consecutive generated slots
	SlotBufferMinutes = 15

	// MaxLookaheadDays horizon for next-available-slot scans
	MaxLookaheadDays = 30
)

// ReminderRetentionDays how long reminder flags are kept before the
// housekeeping job resets them
const ReminderRetentionDays = 30

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// BlockingStatuses — статусы, занимающие слот при проверке конфликтов
var BlockingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
