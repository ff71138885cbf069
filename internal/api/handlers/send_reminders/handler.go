package send_reminders

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/avilkin/AppointmentService/internal/api/handlers"
	"github.com/avilkin/AppointmentService/internal/service/reminders"
)

const (
	msgInvalidHoursAhead = "некорректное окно напоминаний, ожидается положительное число часов"
)

// SendRemindersResponse HTTP модель результата рассылки напоминаний
type SendRemindersResponse struct {
	HoursAhead int `json:"hoursAhead"`
	SentCount  int `json:"sentCount"`
}

type Handler struct {
	service ReminderService
	logger  Logger
}

func NewHandler(service ReminderService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/reminders/send?hoursAhead=24
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	hoursAhead := reminders.DefaultReminderHours
	if raw := r.URL.Query().Get("hoursAhead"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.logger.Warn("POST /reminders/send - Invalid hoursAhead: %v", err)
			handlers.RespondBadRequest(w, msgInvalidHoursAhead)
			return
		}
		hoursAhead = parsed
	}

	sentCount, err := h.service.SendUpcomingReminders(r.Context(), hoursAhead)
	if err != nil {
		switch {
		case errors.Is(err, reminders.ErrInvalidHoursAhead):
			h.logger.Warn("POST /reminders/send - Invalid hoursAhead: %d", hoursAhead)
			handlers.RespondBadRequest(w, msgInvalidHoursAhead)

		default:
			h.logger.Error("POST /reminders/send - Failed to send reminders: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reminders/send - Sent %d reminders (window=%dh)", sentCount, hoursAhead)
	handlers.RespondJSON(w, http.StatusOK, &SendRemindersResponse{
		HoursAhead: hoursAhead,
		SentCount:  sentCount,
	})
}
