package list_services

import (
	"context"

	"github.com/avilkin/AppointmentService/internal/domain"
)

type CatalogService interface {
	ListActive(ctx context.Context) ([]*domain.Service, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
