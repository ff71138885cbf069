package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service represents a bookable service offered by the business
type Service struct {
	ID              int64
	Name            string
	DurationMinutes int
	Price           decimal.Decimal
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsBookable returns true if the service accepts new bookings
func (s *Service) IsBookable() bool {
	return s.Active && s.DurationMinutes > 0
}
