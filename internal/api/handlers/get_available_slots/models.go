package get_available_slots

import (
	"time"

	"github.com/avilkin/AppointmentService/internal/domain"
	getAvailableSlots "github.com/avilkin/AppointmentService/internal/usecase/get_available_slots"
)

// SlotResponse HTTP модель одного слота
type SlotResponse struct {
	StartTime       string `json:"startTime"` // RFC3339
	EndTime         string `json:"endTime"`   // RFC3339
	DurationMinutes int    `json:"durationMinutes"`
}

// SlotsResponse HTTP модель ответа со слотами на дату
type SlotsResponse struct {
	ServiceID int64          `json:"serviceId"`
	Date      string         `json:"date"`
	Slots     []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *SlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartTime:       slot.StartTime.Format(time.RFC3339),
			EndTime:         slot.EndTime.Format(time.RFC3339),
			DurationMinutes: slot.DurationMinutes,
		})
	}

	return &SlotsResponse{
		ServiceID: resp.ServiceID,
		Date:      resp.Date.Format(domain.DateFormat),
		Slots:     slots,
	}
}
