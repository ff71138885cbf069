package validate_promo

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/avilkin/AppointmentService/internal/api/handlers"
)

// PromoValidationResponse HTTP модель проверки промокода
type PromoValidationResponse struct {
	Code  string `json:"code"`
	Valid bool   `json:"valid"`
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

// Handle GET /api/v1/promocodes/{code}/validate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	valid, err := h.service.ValidatePromoCode(r.Context(), code)
	if err != nil {
		h.logger.Error("GET /promocodes/{code}/validate - Failed to validate: code=%s, error=%v", code, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /promocodes/{code}/validate - Checked: code=%s, valid=%t", code, valid)
	handlers.RespondJSON(w, http.StatusOK, &PromoValidationResponse{
		Code:  code,
		Valid: valid,
	})
}
