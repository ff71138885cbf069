package get_stats

import (
	"context"

	"github.com/avilkin/AppointmentService/internal/domain"
)

type StatsService interface {
	GetOverallStats(ctx context.Context) (*domain.BookingStats, error)
	GetBookingsByDayOfWeek(ctx context.Context) ([]domain.DayCount, error)
	GetMonthlyTrend(ctx context.Context, months int) ([]domain.MonthlyCount, error)
	GetTopServices(ctx context.Context, limit int) ([]domain.ServiceBookingCount, error)
	GetAverageDurationMinutes(ctx context.Context) (float64, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
