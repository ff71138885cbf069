package get_available_slots

import (
	"time"

	"github.com/avilkin/AppointmentService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ServiceID int64     // ID услуги
	Date      time.Time // Дата, на которую запрашиваются слоты (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	ServiceID int64             // ID услуги
	Date      time.Time         // Дата запроса
	Slots     []domain.TimeSlot // Слоты в порядке возрастания времени начала
}
