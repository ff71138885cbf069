package find_next_slot

import (
	"context"
	"time"

	"github.com/avilkin/AppointmentService/internal/usecase/get_available_slots"
)

// SlotsProvider интерфейс источника свободных слотов на конкретную дату
type SlotsProvider interface {
	Execute(ctx context.Context, req *get_available_slots.Request) (*get_available_slots.Response, error)
}

// TimeProvider источник текущего времени, подменяется в тестах
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
