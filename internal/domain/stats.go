package domain

// BookingStats summary counters over the whole booking set
type BookingStats struct {
	Total     int64
	Pending   int64
	Confirmed int64
	Completed int64
	Cancelled int64
	NoShow    int64

	// Rates are percentages rounded to 2 decimal places
	CancellationRate float64
	CompletionRate   float64
}

// ServiceBookingCount booking count for a single service
type ServiceBookingCount struct {
	ServiceID   int64
	ServiceName string
	Count       int64
}

// DayCount booking count for one day of week ("Monday".."Sunday")
type DayCount struct {
	Day   string
	Count int64
}

// MonthlyCount booking count for one calendar month ("2006-01" label)
type MonthlyCount struct {
	Month string
	Count int64
}
