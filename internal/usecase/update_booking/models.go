package update_booking

import (
	"time"

	"github.com/avilkin/AppointmentService/internal/domain"
)

// Request модель запроса переноса бронирования.
// ServiceID опционален: если задан, бронирование переносится на другую услугу
type Request struct {
	BookingID int64
	ServiceID *int64
	StartTime time.Time
	EndTime   time.Time
	Notes     *string
}

// Response модель ответа переноса бронирования
type Response struct {
	Booking *domain.Booking
}
