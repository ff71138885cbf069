package get_stats

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/avilkin/AppointmentService/internal/api/handlers"
	"github.com/avilkin/AppointmentService/internal/service/stats"
)

const (
	msgInvalidMonths = "некорректное число месяцев, ожидается положительное число"
	msgInvalidLimit  = "некорректный лимит, ожидается положительное число"

	defaultTrendMonths = 6
	defaultTopLimit    = 5
)

type Handler struct {
	service StatsService
	logger  Logger
}

func NewHandler(service StatsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleOverall GET /api/v1/stats
func (h *Handler) HandleOverall(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetOverallStats(r.Context())
	if err != nil {
		h.logger.Error("GET /stats - Failed to get stats: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /stats - Retrieved: total=%d", result.Total)
	handlers.RespondJSON(w, http.StatusOK, FromDomainStats(result))
}

// HandleByDayOfWeek GET /api/v1/stats/by-day
func (h *Handler) HandleByDayOfWeek(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetBookingsByDayOfWeek(r.Context())
	if err != nil {
		h.logger.Error("GET /stats/by-day - Failed to get stats: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	response := make([]DayCountResponse, 0, len(result))
	for _, day := range result {
		response = append(response, DayCountResponse{Day: day.Day, Count: day.Count})
	}

	handlers.RespondJSON(w, http.StatusOK, response)
}

// HandleMonthlyTrend GET /api/v1/stats/monthly?months=6
func (h *Handler) HandleMonthlyTrend(w http.ResponseWriter, r *http.Request) {
	months := defaultTrendMonths
	if raw := r.URL.Query().Get("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.logger.Warn("GET /stats/monthly - Invalid months: %v", err)
			handlers.RespondBadRequest(w, msgInvalidMonths)
			return
		}
		months = parsed
	}

	result, err := h.service.GetMonthlyTrend(r.Context(), months)
	if err != nil {
		if errors.Is(err, stats.ErrInvalidInput) {
			h.logger.Warn("GET /stats/monthly - Invalid months: %d", months)
			handlers.RespondBadRequest(w, msgInvalidMonths)
			return
		}
		h.logger.Error("GET /stats/monthly - Failed to get trend: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	response := make([]MonthlyCountResponse, 0, len(result))
	for _, month := range result {
		response = append(response, MonthlyCountResponse{Month: month.Month, Count: month.Count})
	}

	handlers.RespondJSON(w, http.StatusOK, response)
}

// HandleTopServices GET /api/v1/stats/top-services?limit=5
func (h *Handler) HandleTopServices(w http.ResponseWriter, r *http.Request) {
	limit := defaultTopLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.logger.Warn("GET /stats/top-services - Invalid limit: %v", err)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
		limit = parsed
	}

	result, err := h.service.GetTopServices(r.Context(), limit)
	if err != nil {
		if errors.Is(err, stats.ErrInvalidInput) {
			h.logger.Warn("GET /stats/top-services - Invalid limit: %d", limit)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
		h.logger.Error("GET /stats/top-services - Failed to get top services: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	response := make([]TopServiceResponse, 0, len(result))
	for _, service := range result {
		response = append(response, TopServiceResponse{
			ServiceID:   service.ServiceID,
			ServiceName: service.ServiceName,
			Count:       service.Count,
		})
	}

	handlers.RespondJSON(w, http.StatusOK, response)
}

// HandleAverageDuration GET /api/v1/stats/average-duration
func (h *Handler) HandleAverageDuration(w http.ResponseWriter, r *http.Request) {
	average, err := h.service.GetAverageDurationMinutes(r.Context())
	if err != nil {
		h.logger.Error("GET /stats/average-duration - Failed to get average: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, &AverageDurationResponse{
		AverageDurationMinutes: average,
	})
}
