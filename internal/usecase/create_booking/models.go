package create_booking

import (
	"time"

	"github.com/avilkin/AppointmentService/internal/domain"
)

// Request модель запроса создания бронирования
type Request struct {
	ServiceID int64
	UserID    int64
	StartTime time.Time
	EndTime   time.Time
	Notes     *string
}

// Response модель ответа создания бронирования
type Response struct {
	Booking *domain.Booking
}
