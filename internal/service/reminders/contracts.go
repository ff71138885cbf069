package reminders

import (
	"context"
	"time"

	"github.com/avilkin/AppointmentService/internal/domain"
	"github.com/avilkin/AppointmentService/internal/integrations/userservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetDueForReminder(ctx context.Context, from, to time.Time) ([]*domain.Booking, error)
	GetCancelledSince(ctx context.Context, since time.Time) ([]*domain.Booking, error)
	ClaimReminder(ctx context.Context, id int64) (bool, error)
	ClearReminderClaim(ctx context.Context, id int64) error
	ResetReminderFlags(ctx context.Context, cutoff time.Time) (int64, error)
	IsReminderSent(ctx context.Context, id int64) (bool, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	GetContact(ctx context.Context, userID int64) (*userservice.Contact, error)
}

// NotifierClient интерфейс клиента шлюза уведомлений
type NotifierClient interface {
	SendEmail(ctx context.Context, address, subject, body string) error
	SendSms(ctx context.Context, number, body string) error
}

// TimeProvider источник текущего времени, подменяется в тестах
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
