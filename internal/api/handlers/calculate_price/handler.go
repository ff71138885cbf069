package calculate_price

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/avilkin/AppointmentService/internal/api/handlers"
	"github.com/avilkin/AppointmentService/internal/domain"
	"github.com/avilkin/AppointmentService/internal/service/pricing"
)

const (
	msgInvalidServiceID = "некорректный ID услуги"
	msgInvalidTime      = "некорректный формат времени, ожидается RFC3339"
	msgServiceNotFound  = "услуга не найдена"
)

// PriceResponse HTTP модель расчёта цены
type PriceResponse struct {
	ServiceID    int64   `json:"serviceId"`
	BasePrice    string  `json:"basePrice"`
	Surcharge    string  `json:"surcharge"`
	Discount     string  `json:"discount"`
	FinalPrice   string  `json:"finalPrice"`
	AppliedPromo *string `json:"appliedPromo,omitempty"`
}

type Handler struct {
	service PricingService
	logger  Logger
}

func NewHandler(service PricingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/services/{serviceId}/price?startTime=...&promoCode=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	serviceID, err := strconv.ParseInt(vars["serviceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /services/{id}/price - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	query := r.URL.Query()

	startTime, err := time.Parse(time.RFC3339, query.Get("startTime"))
	if err != nil {
		h.logger.Warn("GET /services/{id}/price - Invalid start time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	var promoCode *string
	if raw := query.Get("promoCode"); raw != "" {
		promoCode = &raw
	}

	breakdown, err := h.service.CalculatePrice(r.Context(), serviceID, startTime, promoCode)
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrServiceNotFound):
			h.logger.Warn("GET /services/{id}/price - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, pricing.ErrInvalidInput):
			h.logger.Warn("GET /services/{id}/price - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidServiceID)

		default:
			h.logger.Error("GET /services/{id}/price - Failed to calculate price: service_id=%d, error=%v", serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /services/{id}/price - Calculated: service_id=%d, final=%s",
		serviceID, breakdown.FinalPrice)
	handlers.RespondJSON(w, http.StatusOK, FromDomainBreakdown(serviceID, breakdown))
}

// FromDomainBreakdown конвертирует domain.PriceBreakdown в HTTP response
func FromDomainBreakdown(serviceID int64, b *domain.PriceBreakdown) *PriceResponse {
	return &PriceResponse{
		ServiceID:    serviceID,
		BasePrice:    b.BasePrice.StringFixed(2),
		Surcharge:    b.Surcharge.StringFixed(2),
		Discount:     b.Discount.StringFixed(2),
		FinalPrice:   b.FinalPrice.StringFixed(2),
		AppliedPromo: b.AppliedPromo,
	}
}
