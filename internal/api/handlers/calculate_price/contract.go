package calculate_price

import (
	"context"
	"time"

	"github.com/avilkin/AppointmentService/internal/domain"
)

type PricingService interface {
	CalculatePrice(ctx context.Context, serviceID int64, startTime time.Time, promoCode *string) (*domain.PriceBreakdown, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
