package create_service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/avilkin/AppointmentService/internal/domain"
)

type CatalogService interface {
	Create(ctx context.Context, name string, durationMinutes int, price decimal.Decimal) (*domain.Service, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
