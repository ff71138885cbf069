package find_next_slot

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/avilkin/AppointmentService/internal/api/handlers"
	"github.com/avilkin/AppointmentService/internal/domain"
	findNextSlot "github.com/avilkin/AppointmentService/internal/usecase/find_next_slot"
)

const (
	msgInvalidServiceID = "некорректный ID услуги"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgServiceNotFound  = "услуга не найдена"
)

// NextSlotResponse HTTP модель ответа поиска ближайшего слота.
// Slot равен null, если свободных слотов в горизонте поиска нет.
type NextSlotResponse struct {
	ServiceID int64         `json:"serviceId"`
	Slot      *SlotResponse `json:"slot"`
}

// SlotResponse HTTP модель одного слота
type SlotResponse struct {
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
}

type Handler struct {
	useCase FindNextSlotUseCase
	logger  Logger
}

func NewHandler(useCase FindNextSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/services/{serviceId}/next-slot?from=2026-03-16
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	serviceID, err := strconv.ParseInt(vars["serviceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /services/{id}/next-slot - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	var from time.Time
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err = time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /services/{id}/next-slot - Invalid from date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), &findNextSlot.Request{
		ServiceID: serviceID,
		From:      from,
	})
	if err != nil {
		switch {
		case errors.Is(err, findNextSlot.ErrServiceNotFound):
			h.logger.Warn("GET /services/{id}/next-slot - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, findNextSlot.ErrInvalidInput):
			h.logger.Warn("GET /services/{id}/next-slot - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidServiceID)

		default:
			h.logger.Error("GET /services/{id}/next-slot - Failed to find slot: service_id=%d, error=%v", serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	resp := &NextSlotResponse{ServiceID: result.ServiceID}
	if result.Slot != nil {
		resp.Slot = &SlotResponse{
			StartTime:       result.Slot.StartTime.Format(time.RFC3339),
			EndTime:         result.Slot.EndTime.Format(time.RFC3339),
			DurationMinutes: result.Slot.DurationMinutes,
		}
	}

	h.logger.Info("GET /services/{id}/next-slot - Completed: service_id=%d, found=%t",
		serviceID, result.Slot != nil)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
