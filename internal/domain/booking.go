package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
	StatusNoShow    BookingStatus = "no_show"
)

// transitions defines the allowed status transitions.
// Cancelled, completed and no_show are terminal.
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
}

// CanTransitionTo returns true if the status machine allows moving to target
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no transition leads out of the status
func (s BookingStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// ParseStatus validates and converts a raw status string
func ParseStatus(raw string) (BookingStatus, bool) {
	s := BookingStatus(raw)
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return s, true
	}
	return "", false
}

// Booking represents a customer appointment for a service
type Booking struct {
	ID        int64
	ServiceID int64
	UserID    int64

	// BookingDate anchors the booking to a calendar day; StartTime and
	// EndTime are the exact appointment boundaries within that day.
	BookingDate time.Time
	StartTime   time.Time
	EndTime     time.Time

	Status       BookingStatus
	Notes        *string
	ReminderSent bool

	CancelledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBlocking returns true if the booking occupies its time slot
// for conflict detection purposes
func (b *Booking) IsBlocking() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status.CanTransitionTo(StatusCancelled)
}

// CanBeUpdated returns true if the booking times can still be changed
func (b *Booking) CanBeUpdated() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// DurationMinutes returns the booked duration in whole minutes
func (b *Booking) DurationMinutes() int {
	return int(b.EndTime.Sub(b.StartTime) / time.Minute)
}

// Overlaps reports whether the booking conflicts with the half-open
// interval [start, end). Touching endpoints do not conflict.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}

// BookingsFilter filters booking range queries
type BookingsFilter struct {
	ServiceID *int64
	UserID    *int64
	StartDate *time.Time
	EndDate   *time.Time
	Status    *BookingStatus
	// BlockingOnly keeps only pending/confirmed bookings
	BlockingOnly bool
}
